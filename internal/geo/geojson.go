// Package geo holds the planar and angular primitives used to lay out grid
// overlays, and the GeoJSON structures they are exported as.
package geo

import "github.com/paulmach/orb"

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature.
// Coordinates is [lon, lat] for a Point and [][lon, lat] for a LineString.
type GeoJSONGeometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates interface{} `json:"coordinates" yaml:"coordinates"`
}

// NewFeatureCollection returns an empty collection.
func NewFeatureCollection() *GeoJSONFeatureCollection {
	return &GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []GeoJSONFeature{}}
}

// AddPoint appends a Point feature.
func (fc *GeoJSONFeatureCollection) AddPoint(p orb.Point, props map[string]interface{}) {
	fc.Features = append(fc.Features, GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: []float64{p.Lon(), p.Lat()},
		},
		Properties: props,
	})
}

// AddLineString appends a LineString feature.
func (fc *GeoJSONFeatureCollection) AddLineString(ls orb.LineString, props map[string]interface{}) {
	coords := make([][]float64, 0, len(ls))
	for _, p := range ls {
		coords = append(coords, []float64{p.Lon(), p.Lat()})
	}

	fc.Features = append(fc.Features, GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "LineString",
			Coordinates: coords,
		},
		Properties: props,
	})
}

// Points returns the coordinates of every Point feature together with its properties.
func (fc *GeoJSONFeatureCollection) Points() ([]orb.Point, []map[string]interface{}) {
	var pts []orb.Point
	var props []map[string]interface{}
	for _, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			continue
		}
		c, ok := f.Geometry.Coordinates.([]float64)
		if !ok || len(c) < 2 {
			continue
		}
		pts = append(pts, orb.Point{c[0], c[1]})
		props = append(props, f.Properties)
	}
	return pts, props
}

// LineStrings returns every LineString feature together with its properties.
func (fc *GeoJSONFeatureCollection) LineStrings() ([]orb.LineString, []map[string]interface{}) {
	var lines []orb.LineString
	var props []map[string]interface{}
	for _, f := range fc.Features {
		if f.Geometry.Type != "LineString" {
			continue
		}
		c, ok := f.Geometry.Coordinates.([][]float64)
		if !ok {
			continue
		}
		ls := make(orb.LineString, 0, len(c))
		for _, xy := range c {
			if len(xy) < 2 {
				continue
			}
			ls = append(ls, orb.Point{xy[0], xy[1]})
		}
		lines = append(lines, ls)
		props = append(props, f.Properties)
	}
	return lines, props
}
