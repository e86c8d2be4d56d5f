package projection

import (
	"fmt"
	"math"
	"sync"

	"github.com/woozymasta/gridoverlay/internal/geo"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

// Reprojector converts points from any registered reference system to
// WGS84 longitude/latitude. Transforms are built once per source system.
type Reprojector struct {
	registry *Registry
	wgs84    *proj.SR

	mu         sync.Mutex
	transforms map[string]proj.Transformer
}

// NewReprojector returns a Reprojector resolving ids through registry.
func NewReprojector(registry *Registry) (*Reprojector, error) {
	wgs84, err := proj.Parse(builtinDefinitions[WGS84])
	if err != nil {
		return nil, fmt.Errorf("parse wgs84: %w", err)
	}

	return &Reprojector{
		registry:   registry,
		wgs84:      wgs84,
		transforms: make(map[string]proj.Transformer),
	}, nil
}

// ToGeographic returns p, expressed in crs, as WGS84 longitude/latitude.
func (r *Reprojector) ToGeographic(p orb.Point, crs string) (orb.Point, error) {
	if !finite(p) {
		return orb.Point{}, fmt.Errorf("non-finite point %v", p)
	}

	switch NormalizeID(crs) {
	case WGS84:
		return p, nil
	case WebMercator, "EPSG:900913":
		lon, lat := geo.WebMercatorToLonLat(p.X(), p.Y())
		return orb.Point{lon, lat}, nil
	}

	t, err := r.transform(crs)
	if err != nil {
		return orb.Point{}, err
	}

	lon, lat, err := t(p.X(), p.Y())
	if err != nil {
		return orb.Point{}, err
	}

	out := orb.Point{lon, lat}
	if !finite(out) || lat < -90 || lat > 90 {
		return orb.Point{}, fmt.Errorf("point %v outside the domain of %s", p, crs)
	}
	return out, nil
}

func (r *Reprojector) transform(crs string) (proj.Transformer, error) {
	def, err := r.registry.Lookup(crs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.transforms[def]; ok {
		return t, nil
	}

	src, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", crs, err)
	}
	t, err := src.NewTransform(r.wgs84)
	if err != nil {
		return nil, fmt.Errorf("transform %s to %s: %w", crs, WGS84, err)
	}

	r.transforms[def] = t
	return t, nil
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p.X()) && !math.IsNaN(p.Y()) && !math.IsInf(p.X(), 0) && !math.IsInf(p.Y(), 0)
}
