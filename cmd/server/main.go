package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/woozymasta/landmap/internal/config"
	"github.com/woozymasta/landmap/internal/land"
	"github.com/woozymasta/landmap/internal/logger"
	"github.com/woozymasta/landmap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file (defaults built in when empty)"`
	LandsFile  string `short:"l" long:"lands"  env:"LANDS_FILE"     description:"Path to land parcels JSON (get_lands response or array)" required:"true"`
	TileDir    string `short:"d" long:"tiles"  env:"TILES_DIR"      description:"Directory with rendered tiles" default:"tiles"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"         default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"            default:"8080"`
	Fill       bool   `long:"fill"             env:"FEATURE_FILL"   description:"Add land type fill color to feature properties"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	parcels, err := land.ReadFile(opts.LandsFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.LandsFile).Msg("Failed to load land parcels")
	}

	srvCtx, err := server.NewServerContext(cfg, parcels, opts.TileDir, opts.Fill)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	handler := server.RequestLogger(srvCtx.Routes())

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("parcels_loaded", len(parcels)).
		Int("grid_size", cfg.GridSize).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
