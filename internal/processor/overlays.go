// Package processor builds grid overlays and grid references in bulk.
package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/geo"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/overlay"

	"github.com/rs/zerolog/log"
)

// Builder writes overlays for configured grids to a directory.
type Builder struct {
	Codec       *mgrs.Codec
	Reprojector mgrs.Reprojector
	Labels      overlay.Labels
	OutDir      string
	Force       bool // overwrite existing files
	Shapefile   bool // also write <grid>.shp and <grid>_labels.shp
}

// GridResult is the outcome of processing one grid.
type GridResult struct {
	Name    string
	Path    string
	Skipped bool
	Err     error
}

// ProcessGrid builds one overlay and saves it as <OutDir>/<name>.geojson.
// Existing files are kept unless Force is set.
func (b *Builder) ProcessGrid(g overlay.Grid) GridResult {
	res := GridResult{Name: g.Name}
	if err := config.ValidateName(g.Name); err != nil {
		res.Err = fmt.Errorf("%w: %v", overlay.ErrInvalidGrid, err)
		return res
	}
	res.Path = filepath.Join(b.OutDir, g.Name+".geojson")

	// Check if file exists
	if _, err := os.Stat(res.Path); err == nil && !b.Force {
		log.Debug().Str("grid", g.Name).Str("path", res.Path).Msg("Overlay file exists, skipping")
		res.Skipped = true
		return res
	}

	fc, err := overlay.Build(g, b.Codec, b.Reprojector, b.Labels)
	if err != nil {
		res.Err = err
		return res
	}

	if err := saveGeoJSON(b.OutDir, res.Path, fc); err != nil {
		res.Err = err
		return res
	}

	if b.Shapefile {
		if err := overlay.WriteShapefile(filepath.Join(b.OutDir, g.Name), fc); err != nil {
			res.Err = err
			return res
		}
	}

	log.Info().
		Str("grid", g.Name).
		Str("path", res.Path).
		Int("features", len(fc.Features)).
		Msg("Overlay written")

	return res
}

// ProcessGrids runs ProcessGrid for every grid with up to concurrency
// workers. Results keep the order of grids.
func (b *Builder) ProcessGrids(grids []overlay.Grid, concurrency int) []GridResult {
	if concurrency <= 0 {
		concurrency = 1
	}

	jobs := make(chan int, len(grids))
	results := make([]GridResult, len(grids))

	for i := range grids {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(grids); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = b.ProcessGrid(grids[idx])
				if err := results[idx].Err; err != nil {
					log.Error().Err(err).Str("grid", grids[idx].Name).Msg("Failed to process grid")
				}
			}
		}()
	}
	wg.Wait()

	return results
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(dir, path string, fc *geo.GeoJSONFeatureCollection) (err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
