package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/geo"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/overlay"
	"github.com/woozymasta/gridoverlay/internal/processor"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// EncodeCommand converts coordinates given as arguments or read as
// "x y" lines from a file.
type EncodeCommand struct {
	CRS         string `long:"crs" description:"Source reference system" default:"EPSG:4326"`
	Precision   int    `short:"P" long:"precision" description:"Digits per axis (0-5), negative keeps the configured value" default:"-1"`
	Input       string `short:"i" long:"in" description:"Read 'x y' pairs per line from file, '-' for stdin"`
	Concurrency int    `short:"p" long:"concurrency" description:"Workers used with --in" default:"4"`

	Args struct {
		X string `positional-arg-name:"x"`
		Y string `positional-arg-name:"y"`
	} `positional-args:"yes"`
}

// EncodeRecord is one line of encode output.
type EncodeRecord struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	MGRS  string  `json:"mgrs,omitempty" yaml:"mgrs,omitempty"`
	Error string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func (c *EncodeCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	codec, _, err := newCodec(cfg, c.Precision)
	if err != nil {
		return err
	}

	if c.Input == "" {
		x, errX := strconv.ParseFloat(c.Args.X, 64)
		y, errY := strconv.ParseFloat(c.Args.Y, 64)
		if errX != nil || errY != nil {
			return errors.New("encode: expected numeric x and y arguments or --in")
		}
		code, err := codec.Encode(orb.Point{x, y}, c.CRS)
		if err != nil {
			return err
		}
		fmt.Println(code)
		return nil
	}

	pairs, err := readPairs(c.Input)
	if err != nil {
		return err
	}

	records := make([]EncodeRecord, 0, len(pairs))
	failed := 0
	for _, res := range processor.EncodeBatch(codec, pairs, c.CRS, c.Concurrency) {
		rec := EncodeRecord{X: res.Point.X(), Y: res.Point.Y(), MGRS: res.MGRS}
		if res.Err != nil {
			rec.Error = res.Err.Error()
			failed++
		}
		records = append(records, rec)
	}

	log.Info().Int("points", len(records)).Int("failed", failed).Str("crs", c.CRS).Msg("Encoded coordinates")
	return writeOutput(records)
}

// DecodeCommand parses grid references.
type DecodeCommand struct {
	Args struct {
		Codes []string `positional-arg-name:"mgrs" required:"1"`
	} `positional-args:"yes"`
}

// DecodeRecord is one line of decode output.
type DecodeRecord struct {
	Input    string       `json:"input" yaml:"input"`
	Ref      mgrs.GridRef `json:"ref" yaml:"ref"`
	Lon      float64      `json:"lon" yaml:"lon"`
	Lat      float64      `json:"lat" yaml:"lat"`
	LonLabel string       `json:"lon_label" yaml:"lon_label"`
	LatLabel string       `json:"lat_label" yaml:"lat_label"`
	CellSize float64      `json:"cell_size_m" yaml:"cell_size_m"`
}

func (c *DecodeCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	codec, _, err := newCodec(cfg, -1)
	if err != nil {
		return err
	}
	labels, err := overlay.LabelsFromConfig(cfg.Formats)
	if err != nil {
		return err
	}

	records := make([]DecodeRecord, 0, len(c.Args.Codes))
	for _, code := range c.Args.Codes {
		ref, err := codec.Decode(code)
		if err != nil {
			return err
		}
		p, err := codec.ToPoint(code)
		if err != nil {
			return err
		}
		records = append(records, DecodeRecord{
			Input:    code,
			Ref:      ref,
			Lon:      p.Lon(),
			Lat:      p.Lat(),
			LonLabel: labels.Longitude.Render(geo.NewLongitude(p.Lon())),
			LatLabel: labels.Latitude.Render(geo.NewLatitude(p.Lat())),
			CellSize: cellSize(ref.Precision),
		})
	}

	return writeOutput(records)
}

// FormatCommand renders an angle.
type FormatCommand struct {
	Template string `short:"t" long:"template" description:"Format template, defaults to the configured one for --kind"`
	Kind     string `short:"k" long:"kind" description:"Hemisphere letters and default template" choice:"lat" choice:"lon" choice:"angle" default:"lat"`

	Args struct {
		Value float64 `positional-arg-name:"degrees" required:"yes"`
	} `positional-args:"yes"`
}

func (c *FormatCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var a geo.Angle
	tpl := c.Template
	switch c.Kind {
	case "lon":
		a = geo.NewLongitude(c.Args.Value)
		if tpl == "" {
			tpl = cfg.Formats.Longitude
		}
	case "angle":
		a = geo.NewAngle(c.Args.Value)
		if tpl == "" {
			tpl = cfg.Formats.Rotation
		}
	default:
		a = geo.NewLatitude(c.Args.Value)
		if tpl == "" {
			tpl = cfg.Formats.Latitude
		}
	}

	s, err := a.Format(tpl)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

// GridCommand builds an overlay from a configured grid or from flags.
type GridCommand struct {
	Name      string    `short:"n" long:"name" description:"Configured grid name"`
	CRS       string    `long:"crs" description:"Grid reference system" default:"EPSG:3857"`
	Origin    []float64 `long:"origin" description:"Origin coordinate, given twice (x then y)"`
	Spacing   []float64 `long:"spacing" description:"Cell size, given twice (x then y)"`
	Rotation  float64   `short:"r" long:"rotation" description:"Counter-clockwise rotation in degrees"`
	Columns   int       `long:"columns" description:"Number of columns" default:"10"`
	Rows      int       `long:"rows" description:"Number of rows" default:"10"`
	Precision int       `short:"P" long:"precision" description:"Digits per axis (0-5), negative keeps the configured value" default:"-1"`
	Shapefile string    `long:"shp" description:"Also write <base>.shp and <base>_labels.shp"`
}

func (c *GridCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	g, err := c.grid(cfg)
	if err != nil {
		return err
	}

	codec, reprojector, err := newCodec(cfg, -1)
	if err != nil {
		return err
	}
	labels, err := overlay.LabelsFromConfig(cfg.Formats)
	if err != nil {
		return err
	}

	fc, err := overlay.Build(g, codec, reprojector, labels)
	if err != nil {
		return err
	}

	if c.Shapefile != "" {
		if err := overlay.WriteShapefile(c.Shapefile, fc); err != nil {
			return err
		}
	}

	return writeOutput(fc)
}

func (c *GridCommand) grid(cfg *config.Config) (overlay.Grid, error) {
	var g overlay.Grid

	if c.Name != "" {
		cg, ok := cfg.FindGrid(c.Name)
		if !ok {
			return g, fmt.Errorf("grid %q not found in configuration", c.Name)
		}
		g = overlay.GridFromConfig(cg)
	} else {
		if len(c.Origin) != 2 || len(c.Spacing) != 2 {
			return g, errors.New("grid: --origin and --spacing must each be given twice, or use --name")
		}
		g = overlay.Grid{
			Name:      "cli",
			CRS:       c.CRS,
			Origin:    orb.Point{c.Origin[0], c.Origin[1]},
			Spacing:   geo.NewVector(c.Spacing[0], c.Spacing[1]),
			Rotation:  c.Rotation,
			Columns:   c.Columns,
			Rows:      c.Rows,
			Precision: *cfg.MGRS.Precision,
		}
	}

	if c.Precision >= 0 {
		g.Precision = c.Precision
	}
	return g, nil
}

// readPairs reads whitespace or comma separated "x y" pairs, one per line.
// Blank lines and lines starting with '#' are skipped.
func readPairs(path string) ([]orb.Point, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return parsePairs(r)
}

func parsePairs(r io.Reader) ([]orb.Point, error) {
	var pts []orb.Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected x and y, got %q", line, text)
		}

		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("line %d: invalid coordinates %q", line, text)
		}
		pts = append(pts, orb.Point{x, y})
	}
	return pts, scanner.Err()
}

// cellSize is the side of a grid square in metres for the given precision.
func cellSize(precision int) float64 {
	size := 100000.0
	for i := 0; i < precision; i++ {
		size /= 10
	}
	return size
}
