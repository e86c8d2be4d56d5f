// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/gridoverlay/internal/geo"
	"github.com/woozymasta/gridoverlay/internal/mgrs"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default label templates.
const (
	DefaultLatitudeFormat  = `%02D°%02M'%02S.%2s"%n%e`
	DefaultLongitudeFormat = `%03D°%02M'%02S.%2s"%n%e`
	DefaultRotationFormat  = `%g%D.%2d°`
)

// Config represents the root configuration file structure.
type Config struct {
	CRS     map[string]string `yaml:"crs,omitempty" toml:"crs" json:"crs,omitempty"` // extra id -> proj4 definitions
	Formats Formats           `yaml:"formats" toml:"formats" json:"formats"`
	Grids   []Grid            `yaml:"grids" toml:"grids" json:"grids"`
	MGRS    MGRS              `yaml:"mgrs" toml:"mgrs" json:"mgrs"`
}

// Formats holds the Angle templates used for labels.
type Formats struct {
	Latitude  string `yaml:"latitude,omitempty" toml:"latitude" json:"latitude"`
	Longitude string `yaml:"longitude,omitempty" toml:"longitude" json:"longitude"`
	Rotation  string `yaml:"rotation,omitempty" toml:"rotation" json:"rotation"`
}

// MGRS holds grid reference settings.
type MGRS struct {
	Precision *int `yaml:"precision,omitempty" toml:"precision" json:"precision"`
}

// Grid describes one overlay grid laid out in a projected reference system.
type Grid struct {
	Name      string     `yaml:"name" toml:"name" json:"name"`
	CRS       string     `yaml:"crs" toml:"crs" json:"crs"`
	Origin    [2]float64 `yaml:"origin" toml:"origin" json:"origin"`
	Spacing   [2]float64 `yaml:"spacing" toml:"spacing" json:"spacing"`
	Rotation  float64    `yaml:"rotation,omitempty" toml:"rotation" json:"rotation"` // degrees, counter-clockwise
	Columns   int        `yaml:"columns" toml:"columns" json:"columns"`
	Rows      int        `yaml:"rows" toml:"rows" json:"rows"`
	Precision *int       `yaml:"precision,omitempty" toml:"precision" json:"precision,omitempty"`
}

// Load reads and parses the configuration file from the specified path.
// Files ending in .toml are parsed as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Default returns a configuration with default templates and no grids.
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Normalize()
	return cfg
}

// Normalize applies defaults and validates templates and grids.
func (c *Config) Normalize() error {
	if c.Formats.Latitude == "" {
		c.Formats.Latitude = DefaultLatitudeFormat
	}
	if c.Formats.Longitude == "" {
		c.Formats.Longitude = DefaultLongitudeFormat
	}
	if c.Formats.Rotation == "" {
		c.Formats.Rotation = DefaultRotationFormat
	}
	if c.MGRS.Precision == nil {
		p := mgrs.DefaultPrecision
		c.MGRS.Precision = &p
	}

	var errs []error

	for name, tpl := range map[string]string{
		"latitude":  c.Formats.Latitude,
		"longitude": c.Formats.Longitude,
		"rotation":  c.Formats.Rotation,
	} {
		if _, err := geo.ParseFormat(tpl); err != nil {
			errs = append(errs, fmt.Errorf("formats.%s: %w", name, err))
		}
	}

	if p := *c.MGRS.Precision; p < 0 || p > mgrs.MaxPrecision {
		errs = append(errs, fmt.Errorf("mgrs.precision: %d not in 0..%d", p, mgrs.MaxPrecision))
	}

	seen := make(map[string]bool, len(c.Grids))
	for i := range c.Grids {
		g := &c.Grids[i]
		if g.Precision == nil {
			g.Precision = c.MGRS.Precision
		}
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("grids[%d]: %w", i, err))
			continue
		}
		if seen[g.Name] {
			errs = append(errs, fmt.Errorf("grids[%d]: duplicate name %q", i, g.Name))
		}
		seen[g.Name] = true
	}

	return errors.Join(errs...)
}

// ValidateName checks that a grid name can be used as a file name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("name is required")
	case strings.Contains(name, ".."), strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q must not contain path separators or '..'", name)
	}
	return nil
}

// Validate checks a single grid definition.
func (g *Grid) Validate() error {
	if err := ValidateName(g.Name); err != nil {
		return err
	}
	if g.CRS == "" {
		return fmt.Errorf("grid %s: crs is required", g.Name)
	}
	if g.Spacing[0] <= 0 || g.Spacing[1] <= 0 {
		return fmt.Errorf("grid %s: spacing must be positive", g.Name)
	}
	if g.Columns < 1 || g.Rows < 1 {
		return fmt.Errorf("grid %s: columns and rows must be at least 1", g.Name)
	}
	if g.Precision != nil && (*g.Precision < 0 || *g.Precision > mgrs.MaxPrecision) {
		return fmt.Errorf("grid %s: precision %d not in 0..%d", g.Name, *g.Precision, mgrs.MaxPrecision)
	}
	return nil
}

// FindGrid returns the grid with the given name.
func (c *Config) FindGrid(name string) (Grid, bool) {
	for _, g := range c.Grids {
		if g.Name == name {
			return g, true
		}
	}
	return Grid{}, false
}

// SpacingVector returns the grid spacing as a vector.
func (g Grid) SpacingVector() geo.Vector {
	return geo.NewVector(g.Spacing[0], g.Spacing[1])
}
