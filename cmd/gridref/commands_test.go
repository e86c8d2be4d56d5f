package main

import (
	"strings"
	"testing"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/geo"

	"github.com/paulmach/orb"
)

func TestParsePairs(t *testing.T) {
	input := `
# lon lat
-77.0353 38.8895
151.2093,-33.8688

-0.1276;	51.5072
`
	pts, err := parsePairs(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []orb.Point{{-77.0353, 38.8895}, {151.2093, -33.8688}, {-0.1276, 51.5072}}
	if len(pts) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(pts))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d: expected %v, got %v", i, want[i], pts[i])
		}
	}

	for _, bad := range []string{"1\n", "1 x\n"} {
		if _, err := parsePairs(strings.NewReader(bad)); err == nil || !strings.Contains(err.Error(), "line 1") {
			t.Errorf("%q: expected line error, got %v", bad, err)
		}
	}
}

func TestCellSize(t *testing.T) {
	tests := []struct {
		precision int
		size      float64
	}{
		{0, 100000},
		{1, 10000},
		{3, 100},
		{5, 1},
	}
	for _, tt := range tests {
		if got := cellSize(tt.precision); got != tt.size {
			t.Errorf("cellSize(%d) = %v, expected %v", tt.precision, got, tt.size)
		}
	}
}

func TestGridCommandGrid(t *testing.T) {
	cfg := &config.Config{Grids: []config.Grid{
		{Name: "city", CRS: "EPSG:3857", Origin: [2]float64{1, 2}, Spacing: [2]float64{100, 100}, Columns: 3, Rows: 4},
	}}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	c := &GridCommand{Name: "city", Precision: 2}
	g, err := c.grid(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "city" || g.Columns != 3 || g.Precision != 2 {
		t.Errorf("unexpected grid %+v", g)
	}

	c = &GridCommand{
		CRS:       "EPSG:32618",
		Origin:    []float64{320000, 4300000},
		Spacing:   []float64{500, 250},
		Rotation:  30,
		Columns:   2,
		Rows:      2,
		Precision: -1,
	}
	g, err = c.grid(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Origin != (orb.Point{320000, 4300000}) || g.Spacing != geo.NewVector(500, 250) || g.Precision != 5 {
		t.Errorf("unexpected grid %+v", g)
	}

	if _, err := (&GridCommand{Name: "missing"}).grid(cfg); err == nil {
		t.Error("expected error for unknown grid")
	}
	if _, err := (&GridCommand{Origin: []float64{1}}).grid(cfg); err == nil {
		t.Error("expected error for incomplete origin")
	}
}
