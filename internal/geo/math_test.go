package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestWebMercatorRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
	}{
		{"origin", 0, 0},
		{"london", -0.1276, 51.5072},
		{"sydney", 151.2093, -33.8688},
		{"dateline", 179.999, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := LonLatToWebMercator(tt.lon, tt.lat)
			lon, lat := WebMercatorToLonLat(x, y)
			if math.Abs(lon-tt.lon) > 1e-9 || math.Abs(lat-tt.lat) > 1e-9 {
				t.Errorf("round trip gave (%v, %v)", lon, lat)
			}
		})
	}

	// One degree of longitude at the equator.
	x, _ := LonLatToWebMercator(1, 0)
	if math.Abs(x-111319.49079327357) > 1e-6 {
		t.Errorf("unexpected x for 1°: %v", x)
	}
}

func TestClampLatitude(t *testing.T) {
	if got := ClampLatitude(89); got != MaxMercatorLatitude {
		t.Errorf("expected clamp to %v, got %v", MaxMercatorLatitude, got)
	}
	if got := ClampLatitude(-90); got != -MaxMercatorLatitude {
		t.Errorf("expected clamp to %v, got %v", -MaxMercatorLatitude, got)
	}
	if got := ClampLatitude(12.5); got != 12.5 {
		t.Errorf("expected 12.5, got %v", got)
	}
}

func TestFeatureCollection(t *testing.T) {
	fc := NewFeatureCollection()
	fc.AddPoint(orb.Point{10, 20}, map[string]interface{}{"name": "corner"})
	fc.AddLineString(orb.LineString{{0, 0}, {1, 1}}, map[string]interface{}{"kind": "column"})

	pts, pprops := fc.Points()
	if len(pts) != 1 || pts[0] != (orb.Point{10, 20}) || pprops[0]["name"] != "corner" {
		t.Errorf("unexpected points: %v %v", pts, pprops)
	}

	lines, lprops := fc.LineStrings()
	if len(lines) != 1 || len(lines[0]) != 2 || lprops[0]["kind"] != "column" {
		t.Errorf("unexpected lines: %v %v", lines, lprops)
	}
}
