package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/logger"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/projection"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file (yaml or toml)"`
	Output     string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Encoding   string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`

	Encode EncodeCommand `command:"encode" description:"Convert map coordinates to grid references"`
	Decode DecodeCommand `command:"decode" description:"Parse grid references and locate their cell centres"`
	Format FormatCommand `command:"format" description:"Render an angle through a format template"`
	Grid   GridCommand   `command:"grid"   description:"Build a grid overlay as GeoJSON and optionally a shapefile"`
}

var opts Options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		opts.Logger.Setup()
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig() (*config.Config, error) {
	if opts.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(opts.ConfigFile)
}

// newCodec builds the codec from the configured reference systems.
// A negative precision keeps the configured one.
func newCodec(cfg *config.Config, precision int) (*mgrs.Codec, *projection.Reprojector, error) {
	registry := projection.NewRegistry()
	for id, def := range cfg.CRS {
		if err := registry.Register(id, def); err != nil {
			return nil, nil, fmt.Errorf("crs %s: %w", id, err)
		}
	}

	if precision < 0 {
		precision = *cfg.MGRS.Precision
	}
	return projection.NewCodec(registry, mgrs.WithPrecision(precision))
}

// writeOutput marshals v with the selected format to --out or stdout.
func writeOutput(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if opts.Encoding == "yaml" {
		data, err = yaml.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	fmt.Println(string(data))
	return nil
}
