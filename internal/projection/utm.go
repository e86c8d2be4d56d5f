package projection

import (
	"fmt"
	"sync"

	"github.com/ctessum/geom/proj"
)

type utmKey struct {
	zone  int
	south bool
}

type utmPair struct {
	forward proj.Transformer
	inverse proj.Transformer
}

// UTM projects WGS84 positions into WGS84 UTM zones and back.
type UTM struct {
	wgs84 *proj.SR

	mu    sync.Mutex
	zones map[utmKey]utmPair
}

// NewUTM returns a UTM projector.
func NewUTM() (*UTM, error) {
	wgs84, err := proj.Parse(builtinDefinitions[WGS84])
	if err != nil {
		return nil, fmt.Errorf("parse wgs84: %w", err)
	}
	return &UTM{wgs84: wgs84, zones: make(map[utmKey]utmPair)}, nil
}

// ToUTM returns the easting and northing of a position in zone.
func (u *UTM) ToUTM(lon, lat float64, zone int, south bool) (float64, float64, error) {
	pair, err := u.pair(zone, south)
	if err != nil {
		return 0, 0, err
	}
	return pair.forward(lon, lat)
}

// FromUTM returns the longitude and latitude of a zone coordinate.
func (u *UTM) FromUTM(easting, northing float64, zone int, south bool) (float64, float64, error) {
	pair, err := u.pair(zone, south)
	if err != nil {
		return 0, 0, err
	}
	return pair.inverse(easting, northing)
}

func (u *UTM) pair(zone int, south bool) (utmPair, error) {
	if zone < 1 || zone > 60 {
		return utmPair{}, fmt.Errorf("utm zone %d out of range", zone)
	}

	key := utmKey{zone: zone, south: south}

	u.mu.Lock()
	defer u.mu.Unlock()

	if p, ok := u.zones[key]; ok {
		return p, nil
	}

	sr, err := proj.Parse(UTMDefinition(zone, south))
	if err != nil {
		return utmPair{}, fmt.Errorf("parse utm zone %d: %w", zone, err)
	}
	fwd, err := u.wgs84.NewTransform(sr)
	if err != nil {
		return utmPair{}, fmt.Errorf("utm zone %d forward: %w", zone, err)
	}
	inv, err := sr.NewTransform(u.wgs84)
	if err != nil {
		return utmPair{}, fmt.Errorf("utm zone %d inverse: %w", zone, err)
	}

	p := utmPair{forward: fwd, inverse: inv}
	u.zones[key] = p
	return p, nil
}
