// Package overlay lays out rotated reference grids in a projected system and
// exports the resulting lines and labelled intersections in geographic
// coordinates.
package overlay

import (
	"errors"
	"fmt"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/geo"
	"github.com/woozymasta/gridoverlay/internal/mgrs"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// ErrInvalidGrid is returned for grids that cannot be laid out.
var ErrInvalidGrid = errors.New("invalid grid")

// Feature kinds stored in the "kind" property.
const (
	KindColumn = "column"
	KindRow    = "row"
	KindNode   = "node"
)

// Grid is a rectangular grid of Columns x Rows cells anchored at Origin in CRS
// units and rotated counter-clockwise by Rotation degrees around it.
type Grid struct {
	Name      string
	CRS       string
	Origin    orb.Point
	Spacing   geo.Vector
	Rotation  float64
	Columns   int
	Rows      int
	Precision int
}

// GridFromConfig converts a configured grid.
func GridFromConfig(g config.Grid) Grid {
	precision := mgrs.DefaultPrecision
	if g.Precision != nil {
		precision = *g.Precision
	}
	return Grid{
		Name:      g.Name,
		CRS:       g.CRS,
		Origin:    orb.Point{g.Origin[0], g.Origin[1]},
		Spacing:   g.SpacingVector(),
		Rotation:  g.Rotation,
		Columns:   g.Columns,
		Rows:      g.Rows,
		Precision: precision,
	}
}

// Validate reports whether the grid can be laid out.
func (g Grid) Validate() error {
	switch {
	case g.Columns < 1 || g.Rows < 1:
		return fmt.Errorf("%w: %d columns x %d rows", ErrInvalidGrid, g.Columns, g.Rows)
	case !(g.Spacing.X > 0) || !(g.Spacing.Y > 0):
		return fmt.Errorf("%w: spacing %s", ErrInvalidGrid, g.Spacing)
	case g.Precision < 0 || g.Precision > mgrs.MaxPrecision:
		return fmt.Errorf("%w: precision %d", ErrInvalidGrid, g.Precision)
	}
	return nil
}

// Axes returns the unit vectors along the columns and rows of the grid.
func (g Grid) Axes() (u, v geo.Vector) {
	u = geo.NewVector(1, 0).RotateBy(geo.DegToRad(g.Rotation))
	return u, u.Perp()
}

// Node returns the projected position of intersection (col, row).
func (g Grid) Node(col, row int) geo.Vector {
	u, v := g.Axes()
	return geo.NewVector(g.Origin.X(), g.Origin.Y()).
		Add(u.Scale(float64(col) * g.Spacing.X)).
		Add(v.Scale(float64(row) * g.Spacing.Y))
}

// Labels holds the parsed templates for coordinate labels.
type Labels struct {
	Latitude  *geo.AngleFormat
	Longitude *geo.AngleFormat
	Rotation  *geo.AngleFormat
}

// LabelsFromConfig parses the configured label templates.
func LabelsFromConfig(f config.Formats) (Labels, error) {
	var (
		l   Labels
		err error
	)
	if l.Latitude, err = geo.ParseFormat(f.Latitude); err != nil {
		return Labels{}, fmt.Errorf("latitude format: %w", err)
	}
	if l.Longitude, err = geo.ParseFormat(f.Longitude); err != nil {
		return Labels{}, fmt.Errorf("longitude format: %w", err)
	}
	if l.Rotation, err = geo.ParseFormat(f.Rotation); err != nil {
		return Labels{}, fmt.Errorf("rotation format: %w", err)
	}
	return l, nil
}

// Build lays out the grid lines and intersections and returns them as
// geographic features. Lines carry one vertex per intersection so that
// curvature introduced by the reprojection is kept.
func Build(g Grid, codec *mgrs.Codec, r mgrs.Reprojector, labels Labels) (*geo.GeoJSONFeatureCollection, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	nodes := make([][]orb.Point, g.Columns+1)
	for i := range nodes {
		nodes[i] = make([]orb.Point, g.Rows+1)
		for j := range nodes[i] {
			p := g.Node(i, j)
			ll, err := r.ToGeographic(orb.Point{p.X, p.Y}, g.CRS)
			if err != nil {
				return nil, &mgrs.ReprojectionError{Point: orb.Point{p.X, p.Y}, CRS: g.CRS, Err: err}
			}
			nodes[i][j] = orb.Point{ll.Lon(), geo.ClampLatitude(ll.Lat())}
		}
	}

	rotation := labels.Rotation.Render(geo.NewAngle(g.Rotation))
	fc := geo.NewFeatureCollection()

	for i := 0; i <= g.Columns; i++ {
		line := make(orb.LineString, 0, g.Rows+1)
		line = append(line, nodes[i]...)
		fc.AddLineString(line, map[string]interface{}{
			"grid":     g.Name,
			"kind":     KindColumn,
			"index":    i,
			"rotation": rotation,
		})
	}

	for j := 0; j <= g.Rows; j++ {
		line := make(orb.LineString, 0, g.Columns+1)
		for i := 0; i <= g.Columns; i++ {
			line = append(line, nodes[i][j])
		}
		fc.AddLineString(line, map[string]interface{}{
			"grid":     g.Name,
			"kind":     KindRow,
			"index":    j,
			"rotation": rotation,
		})
	}

	skipped := 0
	for i := 0; i <= g.Columns; i++ {
		for j := 0; j <= g.Rows; j++ {
			p := nodes[i][j]

			code, err := codec.EncodeWithPrecision(p, mgrs.TargetCRS, g.Precision)
			if err != nil {
				if !errors.Is(err, mgrs.ErrOutsideGrid) {
					return nil, err
				}
				skipped++
			}

			fc.AddPoint(p, map[string]interface{}{
				"grid":   g.Name,
				"kind":   KindNode,
				"column": i,
				"row":    j,
				"mgrs":   code,
				"lat":    labels.Latitude.Render(geo.NewLatitude(p.Lat())),
				"lon":    labels.Longitude.Render(geo.NewLongitude(p.Lon())),
			})
		}
	}

	log.Debug().
		Str("grid", g.Name).
		Str("crs", g.CRS).
		Int("columns", g.Columns).
		Int("rows", g.Rows).
		Int("features", len(fc.Features)).
		Int("unreferenced", skipped).
		Msg("overlay built")

	return fc, nil
}
