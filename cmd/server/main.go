package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/gridoverlay/internal/config"
	"github.com/woozymasta/gridoverlay/internal/logger"
	"github.com/woozymasta/gridoverlay/internal/mgrs"
	"github.com/woozymasta/gridoverlay/internal/projection"
	"github.com/woozymasta/gridoverlay/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE"    description:"Path to configuration file (yaml or toml)"`
	EnvFile    string `short:"e" long:"env-file"  env:"ENV_FILE"       description:"Dotenv file to load before parsing options" default:".env"`
	Addr       string `short:"a" long:"addr"      env:"LISTEN_ADDRESS" description:"Address to listen on"                      default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"      env:"LISTEN_PORT"    description:"Port to listen on"                         default:"8080"`
	Precision  int    `short:"P" long:"precision" env:"MGRS_PRECISION" description:"Override grid reference precision (0-5)"  default:"-1"`
}

func main() {
	// .env values must be in the environment before flags read env tags
	loadEnvFile(os.Args[1:])

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	precision := *cfg.MGRS.Precision
	if opts.Precision >= 0 {
		precision = opts.Precision
	}

	registry := projection.NewRegistry()
	for id, def := range cfg.CRS {
		if err := registry.Register(id, def); err != nil {
			log.Fatal().Err(err).Str("crs", id).Msg("Invalid CRS definition")
		}
	}

	codec, reprojector, err := projection.NewCodec(registry, mgrs.WithPrecision(precision))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize grid reference codec")
	}

	srvCtx, err := server.NewServerContext(cfg, codec, reprojector)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server context")
	}

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mgrs/encode", srvCtx.HandleEncode)
	mux.HandleFunc("/api/mgrs/decode", srvCtx.HandleDecode)
	mux.HandleFunc("/api/angle", srvCtx.HandleAngle)
	mux.HandleFunc("/api/grids", srvCtx.HandleGridsList)
	mux.HandleFunc("/api/grids/", srvCtx.HandleGrid)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("grids_loaded", len(srvCtx.Grids)).
		Int("precision", precision).
		Strs("crs", registry.IDs()).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// loadEnvFile loads the dotenv file named by --env-file/-e, ENV_FILE or .env.
// A missing file is not an error.
func loadEnvFile(args []string) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	for i, arg := range args {
		switch {
		case (arg == "-e" || arg == "--env-file") && i+1 < len(args):
			path = args[i+1]
		default:
			if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
				path = v
			}
		}
	}

	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", path, err)
	}
}
