package mgrs

import (
	"fmt"

	"github.com/paulmach/orb"
)

// mockReprojector returns fixed geographic points per source CRS.
type mockReprojector struct {
	offsets map[string]orb.Point
	calls   int
}

func (m *mockReprojector) ToGeographic(p orb.Point, crs string) (orb.Point, error) {
	m.calls++
	off, ok := m.offsets[crs]
	if !ok {
		return orb.Point{}, fmt.Errorf("unknown crs %q", crs)
	}
	return orb.Point{p.X() + off.X(), p.Y() + off.Y()}, nil
}

// mockUTM maps every position to one fixed UTM coordinate and records the
// arguments it was called with.
type mockUTM struct {
	easting, northing float64

	lastZone  int
	lastSouth bool
	lastE     float64
	lastN     float64
}

func (m *mockUTM) ToUTM(lon, lat float64, zone int, south bool) (float64, float64, error) {
	m.lastZone, m.lastSouth = zone, south
	return m.easting, m.northing, nil
}

func (m *mockUTM) FromUTM(easting, northing float64, zone int, south bool) (float64, float64, error) {
	m.lastE, m.lastN, m.lastZone, m.lastSouth = easting, northing, zone, south
	return -77.0353, 38.8895, nil
}

// stubEncoder returns a fixed string or error.
type stubEncoder struct {
	code string
	err  error

	lat, lon  float64
	precision int
}

func (s *stubEncoder) Encode(lat, lon float64, precision int) (string, error) {
	s.lat, s.lon, s.precision = lat, lon, precision
	return s.code, s.err
}
