// Package projection adapts github.com/ctessum/geom/proj to the
// reprojection and UTM ports of the grid reference codec.
package projection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownCRS indicates a reference system id with no known definition.
var ErrUnknownCRS = errors.New("unknown coordinate reference system")

const (
	// WGS84 is the geographic system grid references are computed in.
	WGS84 = "EPSG:4326"

	// WebMercator is the spherical Mercator system used by web maps.
	WebMercator = "EPSG:3857"
)

var builtinDefinitions = map[string]string{
	WGS84:         "+proj=longlat +datum=WGS84 +no_defs",
	WebMercator:   "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
	"EPSG:900913": "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
	"EPSG:4269":   "+proj=longlat +datum=NAD83 +no_defs",
	"EPSG:4258":   "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs",
	"EPSG:27700":  "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 +units=m +no_defs",
	"EPSG:2056":   "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs",
}

// Registry maps reference system ids such as "EPSG:27700" to proj4
// definitions. WGS84 UTM zones (EPSG:326zz and EPSG:327zz) are derived on
// demand. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]string
}

// NewRegistry returns a registry holding the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]string, len(builtinDefinitions))}
	for id, def := range builtinDefinitions {
		r.defs[id] = def
	}
	return r
}

// Register adds or replaces a definition.
func (r *Registry) Register(id, definition string) error {
	id = NormalizeID(id)
	if id == "" {
		return errors.New("empty crs id")
	}
	if !strings.HasPrefix(strings.TrimSpace(definition), "+proj=") {
		return fmt.Errorf("crs %s: definition must be a proj4 string", id)
	}

	r.mu.Lock()
	r.defs[id] = strings.TrimSpace(definition)
	r.mu.Unlock()
	return nil
}

// Lookup returns the proj4 definition of id. A proj4 string passed as id is
// returned unchanged.
func (r *Registry) Lookup(id string) (string, error) {
	if def := strings.TrimSpace(id); strings.HasPrefix(def, "+proj=") {
		return def, nil
	}

	key := NormalizeID(id)

	r.mu.RLock()
	def, ok := r.defs[key]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}

	if zone, south, ok := utmZoneFromID(key); ok {
		return UTMDefinition(zone, south), nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownCRS, id)
}

// IDs returns the registered ids, built-ins included.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	return ids
}

// NormalizeID upper-cases an id and accepts a bare EPSG number.
func NormalizeID(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	if _, err := strconv.Atoi(id); err == nil {
		return "EPSG:" + id
	}
	return id
}

// UTMDefinition returns the proj4 string of a WGS84 UTM zone.
func UTMDefinition(zone int, south bool) string {
	def := fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
	if south {
		def += " +south"
	}
	return def
}

func utmZoneFromID(id string) (zone int, south bool, ok bool) {
	code, found := strings.CutPrefix(id, "EPSG:")
	if !found {
		return 0, false, false
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false, false
	}

	switch {
	case n >= 32601 && n <= 32660:
		return n - 32600, false, true
	case n >= 32701 && n <= 32760:
		return n - 32700, true, true
	}
	return 0, false, false
}
