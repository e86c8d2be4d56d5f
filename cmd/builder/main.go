package main

import (
	"os"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/logger"
	"github.com/woozymasta/gridoverlay/internal/overlay"
	"github.com/woozymasta/gridoverlay/internal/processor"
	"github.com/woozymasta/gridoverlay/internal/projection"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	OutDir      string   `short:"o" long:"out"         env:"OUTPUT_DIR"   description:"Directory for generated overlays" default:"overlays"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES"  description:"Limit processing to specific grid names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY"  description:"Concurrency" default:"4"`
	Shapefile   bool     `short:"s" long:"shp"         description:"Also write shapefiles"`
	Force       bool     `short:"f" long:"force"       description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	registry := projection.NewRegistry()
	for id, def := range cfg.CRS {
		if err := registry.Register(id, def); err != nil {
			log.Fatal().Err(err).Str("crs", id).Msg("Invalid CRS definition")
		}
	}

	codec, reprojector, err := projection.NewCodec(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize grid reference codec")
	}

	labels, err := overlay.LabelsFromConfig(cfg.Formats)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid label formats")
	}

	// Filter grids if limit is set
	gridsToProcess := cfg.Grids
	if len(opts.Limit) > 0 {
		gridsToProcess = make([]config.Grid, 0, len(opts.Limit))
		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if g, ok := cfg.FindGrid(limitName); ok {
				gridsToProcess = append(gridsToProcess, g)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Grid specified in --limit not found in configuration")
			}
		}
	}

	grids := make([]overlay.Grid, 0, len(gridsToProcess))
	for _, g := range gridsToProcess {
		grids = append(grids, overlay.GridFromConfig(g))
	}

	log.Info().
		Int("grids_total", len(cfg.Grids)).
		Int("grids_queued", len(grids)).
		Str("out", opts.OutDir).
		Bool("shp", opts.Shapefile).
		Msg("Starting builder")

	builder := &processor.Builder{
		Codec:       codec,
		Reprojector: reprojector,
		Labels:      labels,
		OutDir:      opts.OutDir,
		Force:       opts.Force,
		Shapefile:   opts.Shapefile,
	}

	failed, skipped := 0, 0
	for _, res := range builder.ProcessGrids(grids, opts.Concurrency) {
		switch {
		case res.Err != nil:
			failed++
		case res.Skipped:
			skipped++
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Builder finished with errors")
	}

	log.Info().Int("skipped", skipped).Msg("Builder finished successfully")
}
