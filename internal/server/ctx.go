package server

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/overlay"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config      *config.Config
	Codec       *mgrs.Codec
	Reprojector mgrs.Reprojector
	Labels      overlay.Labels
	Grids       map[string]overlay.Grid

	mu       sync.Mutex
	geojson  map[string][]byte // rendered overlays by grid name
	gridList []config.Grid
}

// NewServerContext initializes the context and processes the grid configuration.
// Grids that cannot be laid out are skipped with a warning.
func NewServerContext(cfg *config.Config, codec *mgrs.Codec, r mgrs.Reprojector) (*ServerContext, error) {
	log.Info().Int("config_grids_count", len(cfg.Grids)).Msg("Initializing server context")

	labels, err := overlay.LabelsFromConfig(cfg.Formats)
	if err != nil {
		return nil, err
	}

	grids := make(map[string]overlay.Grid, len(cfg.Grids))
	valid := make([]config.Grid, 0, len(cfg.Grids))

	for _, g := range cfg.Grids {
		og := overlay.GridFromConfig(g)

		// probe the origin so a bad CRS is reported at startup
		if _, err := r.ToGeographic(og.Origin, og.CRS); err != nil {
			log.Warn().
				Err(err).
				Str("grid", g.Name).
				Str("crs", g.CRS).
				Msg("Skipping grid: origin cannot be reprojected")
			continue
		}

		log.Debug().
			Str("grid", g.Name).
			Str("crs", g.CRS).
			Int("columns", g.Columns).
			Int("rows", g.Rows).
			Float64("rotation", g.Rotation).
			Msg("Grid validated and added to context")

		grids[g.Name] = og
		valid = append(valid, g)
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Name < valid[j].Name
	})

	log.Info().
		Int("valid_grids_count", len(valid)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:      cfg,
		Codec:       codec,
		Reprojector: r,
		Labels:      labels,
		Grids:       grids,
		geojson:     make(map[string][]byte),
		gridList:    valid,
	}, nil
}

// overlayJSON returns the cached GeoJSON encoding of the named grid,
// building it on first use.
func (s *ServerContext) overlayJSON(name string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.geojson[name]; ok {
		return data, true, nil
	}

	g, ok := s.Grids[name]
	if !ok {
		return nil, false, nil
	}

	fc, err := overlay.Build(g, s.Codec, s.Reprojector, s.Labels)
	if err != nil {
		return nil, true, err
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return nil, true, err
	}

	s.geojson[name] = data
	return data, true, nil
}
