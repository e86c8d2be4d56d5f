package overlay

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/geo"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/projection"

	"github.com/paulmach/orb"
)

// degReprojector treats "DEG" coordinates as longitude/latitude already.
type degReprojector struct{}

func (degReprojector) ToGeographic(p orb.Point, crs string) (orb.Point, error) {
	switch crs {
	case "DEG", mgrs.TargetCRS:
		return p, nil
	}
	return orb.Point{}, fmt.Errorf("unknown crs %q", crs)
}

// degEncoder writes the position into the reference so tests can check it.
type degEncoder struct{}

func (degEncoder) Encode(lat, lon float64, precision int) (string, error) {
	if lat > 84 {
		return "", mgrs.ErrOutsideGrid
	}
	return fmt.Sprintf("%.1f/%.1f/%d", lat, lon, precision), nil
}

func testLabels(t *testing.T) Labels {
	t.Helper()
	l, err := LabelsFromConfig(config.Formats{
		Latitude:  "%02D%n%e",
		Longitude: "%03D%n%e",
		Rotation:  "%g%D°",
	})
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	return l
}

func testCodec() *mgrs.Codec {
	return mgrs.NewCodec(degReprojector{}, degEncoder{})
}

func TestBuild(t *testing.T) {
	g := Grid{
		Name:      "test",
		CRS:       "DEG",
		Origin:    orb.Point{10, 20},
		Spacing:   geo.NewVector(1, 0.5),
		Columns:   2,
		Rows:      2,
		Precision: 3,
	}

	fc, err := Build(g, testCodec(), degReprojector{}, testLabels(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("unexpected type %q", fc.Type)
	}

	lines, lineProps := fc.LineStrings()
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	for n, ls := range lines {
		if len(ls) != 3 {
			t.Errorf("line %d: expected 3 vertices, got %d", n, len(ls))
		}
		if lineProps[n]["rotation"] != "0°" {
			t.Errorf("line %d: unexpected rotation label %v", n, lineProps[n]["rotation"])
		}
	}

	// column 1 runs north along lon 11
	if lineProps[1]["kind"] != KindColumn || lineProps[1]["index"] != 1 {
		t.Errorf("unexpected column properties %v", lineProps[1])
	}
	if lines[1][0] != (orb.Point{11, 20}) || lines[1][2] != (orb.Point{11, 21}) {
		t.Errorf("unexpected column geometry %v", lines[1])
	}

	// row 2 runs east along lat 21
	if lineProps[5]["kind"] != KindRow || lineProps[5]["index"] != 2 {
		t.Errorf("unexpected row properties %v", lineProps[5])
	}
	if lines[5][0] != (orb.Point{10, 21}) || lines[5][2] != (orb.Point{12, 21}) {
		t.Errorf("unexpected row geometry %v", lines[5])
	}

	points, props := fc.Points()
	if len(points) != 9 {
		t.Fatalf("expected 9 nodes, got %d", len(points))
	}

	last := props[len(props)-1]
	if last["column"] != 2 || last["row"] != 2 {
		t.Errorf("unexpected node order %v", last)
	}
	if last["mgrs"] != "21.0/12.0/3" {
		t.Errorf("unexpected reference %v", last["mgrs"])
	}
	if last["lat"] != "21N" || last["lon"] != "012E" {
		t.Errorf("unexpected labels %v %v", last["lat"], last["lon"])
	}
}

func TestBuildRotated(t *testing.T) {
	g := Grid{
		Name:     "rotated",
		CRS:      "DEG",
		Origin:   orb.Point{-10, -20},
		Spacing:  geo.NewVector(2, 1),
		Rotation: 90,
		Columns:  1,
		Rows:     1,
	}

	fc, err := Build(g, testCodec(), degReprojector{}, testLabels(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// u points north and v points west after a quarter turn
	points, props := fc.Points()
	want := map[[2]int]orb.Point{
		{0, 0}: {-10, -20},
		{1, 0}: {-10, -18},
		{0, 1}: {-11, -20},
		{1, 1}: {-11, -18},
	}
	for n, p := range points {
		key := [2]int{props[n]["column"].(int), props[n]["row"].(int)}
		w := want[key]
		if math.Abs(p.Lon()-w.Lon()) > 1e-9 || math.Abs(p.Lat()-w.Lat()) > 1e-9 {
			t.Errorf("node %v: expected %v, got %v", key, w, p)
		}
	}

	if props[0]["lat"] != "20S" || props[0]["lon"] != "010W" {
		t.Errorf("unexpected labels %v %v", props[0]["lat"], props[0]["lon"])
	}

	_, lineProps := fc.LineStrings()
	if lineProps[0]["rotation"] != "90°" {
		t.Errorf("unexpected rotation label %v", lineProps[0]["rotation"])
	}
}

func TestBuildOutsideGrid(t *testing.T) {
	g := Grid{
		Name:    "polar",
		CRS:     "DEG",
		Origin:  orb.Point{0, 83},
		Spacing: geo.NewVector(1, 2),
		Columns: 1,
		Rows:    1,
	}

	fc, err := Build(g, testCodec(), degReprojector{}, testLabels(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, props := fc.Points()
	var empty int
	for _, p := range props {
		if p["mgrs"] == "" {
			empty++
		}
	}
	if empty != 2 {
		t.Errorf("expected 2 nodes without a reference, got %d", empty)
	}
}

func TestBuildErrors(t *testing.T) {
	base := Grid{CRS: "DEG", Spacing: geo.NewVector(1, 1), Columns: 1, Rows: 1}

	tests := []struct {
		name   string
		modify func(*Grid)
		err    error
	}{
		{"no columns", func(g *Grid) { g.Columns = 0 }, ErrInvalidGrid},
		{"negative rows", func(g *Grid) { g.Rows = -1 }, ErrInvalidGrid},
		{"zero spacing", func(g *Grid) { g.Spacing = geo.NewVector(0, 1) }, ErrInvalidGrid},
		{"nan spacing", func(g *Grid) { g.Spacing = geo.NewVector(1, math.NaN()) }, ErrInvalidGrid},
		{"precision", func(g *Grid) { g.Precision = 6 }, ErrInvalidGrid},
		{"unknown crs", func(g *Grid) { g.CRS = "EPSG:9999" }, mgrs.ErrReprojection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base
			tt.modify(&g)
			fc, err := Build(g, testCodec(), degReprojector{}, testLabels(t))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if fc != nil {
				t.Error("expected no features on error")
			}
		})
	}
}

func TestBuildWebMercator(t *testing.T) {
	codec, r, err := projection.NewCodec(projection.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x, y := geo.LonLatToWebMercator(-77.0353, 38.8895)
	g := Grid{
		Name:      "washington",
		CRS:       projection.WebMercator,
		Origin:    orb.Point{x, y},
		Spacing:   geo.NewVector(1000, 1000),
		Rotation:  15,
		Columns:   3,
		Rows:      2,
		Precision: 2,
	}

	l, err := LabelsFromConfig(config.Default().Formats)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}

	fc, err := Build(g, codec, r, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points, props := fc.Points()
	if len(points) != 12 {
		t.Fatalf("expected 12 nodes, got %d", len(points))
	}
	if math.Abs(points[0].Lon()+77.0353) > 1e-9 || math.Abs(points[0].Lat()-38.8895) > 1e-9 {
		t.Errorf("origin moved to %v", points[0])
	}
	for n, p := range props {
		code, _ := p["mgrs"].(string)
		if !strings.HasPrefix(code, "18S") || len(code) != len("18SUJ")+4 {
			t.Errorf("node %d: unexpected reference %q", n, code)
		}
		lat, _ := p["lat"].(string)
		lon, _ := p["lon"].(string)
		if !strings.HasPrefix(lat, "38°") || !strings.HasSuffix(lat, "N") {
			t.Errorf("node %d: unexpected latitude label %q", n, lat)
		}
		if !strings.HasPrefix(lon, "077°") || !strings.HasSuffix(lon, "W") {
			t.Errorf("node %d: unexpected longitude label %q", n, lon)
		}
	}
}

func TestGridFromConfig(t *testing.T) {
	p := 2
	g := GridFromConfig(config.Grid{
		Name:      "city",
		CRS:       "EPSG:3857",
		Origin:    [2]float64{1, 2},
		Spacing:   [2]float64{100, 50},
		Rotation:  10,
		Columns:   3,
		Rows:      4,
		Precision: &p,
	})

	if g.Origin != (orb.Point{1, 2}) || g.Spacing != geo.NewVector(100, 50) || g.Precision != 2 {
		t.Errorf("unexpected grid %+v", g)
	}

	if GridFromConfig(config.Grid{}).Precision != mgrs.DefaultPrecision {
		t.Error("expected default precision")
	}
}
