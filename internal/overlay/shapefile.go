package overlay

import (
	"fmt"
	"strings"

	"github.com/woozymasta/gridoverlay/internal/geo"

	"github.com/jonas-p/go-shp"
	"github.com/rs/zerolog/log"
)

// DBF field widths.
const (
	nameFieldSize  = 32
	labelFieldSize = 32
	kindFieldSize  = 8
	indexFieldSize = 6
)

// WriteShapefile writes the lines of fc to <base>.shp as POLYLINE records and
// its points to <base>_labels.shp as POINT records, each with DBF attributes.
func WriteShapefile(base string, fc *geo.GeoJSONFeatureCollection) error {
	base = strings.TrimSuffix(base, ".shp")

	if err := writeLines(base+".shp", fc); err != nil {
		return err
	}
	if err := writePoints(base+"_labels.shp", fc); err != nil {
		return err
	}

	log.Info().Str("base", base).Int("features", len(fc.Features)).Msg("shapefile written")
	return nil
}

func writeLines(path string, fc *geo.GeoJSONFeatureCollection) error {
	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer w.Close()

	if err := w.SetFields([]shp.Field{
		shp.StringField("GRID", nameFieldSize),
		shp.StringField("KIND", kindFieldSize),
		shp.NumberField("INDEX", indexFieldSize),
		shp.StringField("ROTATION", labelFieldSize),
	}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines, props := fc.LineStrings()
	for n, ls := range lines {
		part := make([]shp.Point, 0, len(ls))
		for _, p := range ls {
			part = append(part, shp.Point{X: p.Lon(), Y: p.Lat()})
		}
		row := int(w.Write(shp.NewPolyLine([][]shp.Point{part})))

		values := []interface{}{
			stringProp(props[n], "grid"),
			stringProp(props[n], "kind"),
			intProp(props[n], "index"),
			stringProp(props[n], "rotation"),
		}
		if err := writeRow(w, row, values); err != nil {
			return fmt.Errorf("%s: record %d: %w", path, n, err)
		}
	}

	return nil
}

func writePoints(path string, fc *geo.GeoJSONFeatureCollection) error {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer w.Close()

	if err := w.SetFields([]shp.Field{
		shp.StringField("GRID", nameFieldSize),
		shp.NumberField("COLUMN", indexFieldSize),
		shp.NumberField("ROW", indexFieldSize),
		shp.StringField("MGRS", labelFieldSize),
		shp.StringField("LAT", labelFieldSize),
		shp.StringField("LON", labelFieldSize),
	}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	points, props := fc.Points()
	for n, p := range points {
		row := int(w.Write(&shp.Point{X: p.Lon(), Y: p.Lat()}))

		values := []interface{}{
			stringProp(props[n], "grid"),
			intProp(props[n], "column"),
			intProp(props[n], "row"),
			stringProp(props[n], "mgrs"),
			stringProp(props[n], "lat"),
			stringProp(props[n], "lon"),
		}
		if err := writeRow(w, row, values); err != nil {
			return fmt.Errorf("%s: record %d: %w", path, n, err)
		}
	}

	return nil
}

func writeRow(w *shp.Writer, row int, values []interface{}) error {
	for field, v := range values {
		if err := w.WriteAttribute(row, field, v); err != nil {
			return err
		}
	}
	return nil
}

func stringProp(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
