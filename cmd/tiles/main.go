package main

import (
	"os"
	"time"

	"github.com/woozymasta/landmap/internal/config"
	"github.com/woozymasta/landmap/internal/land"
	"github.com/woozymasta/landmap/internal/logger"
	"github.com/woozymasta/landmap/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file (defaults built in when empty)"`
	LandsFile   string `short:"i" long:"in"          env:"LANDS_FILE"  description:"Land parcels JSON. Reads from stdin if empty"`
	TileDir     string `short:"d" long:"tiles"       env:"TILES_DIR"   description:"Output tiles directory" default:"tiles"`
	Concurrency int    `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"20"`
	ZoomLimit   int    `short:"z" long:"zoom-limit"  env:"ZOOM_LIMIT"  description:"Tiles zoom limit, overrides config when set"`
	Force       bool   `short:"f" long:"force"       description:"Force overwrite of existing files"`
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

	if opts.ZoomLimit > 0 {
		cfg.Tiles.ZoomLimit = opts.ZoomLimit
	}

	parcels, err := land.ReadFile(opts.LandsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load land parcels")
	}

	renderer, err := render.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create renderer")
	}

	log.Info().
		Int("parcels", len(parcels)).
		Int("zoom_limit", cfg.Tiles.ZoomLimit).
		Str("dir", opts.TileDir).
		Msg("Starting tile rendering")

	start := time.Now()
	img := renderer.Image(parcels)

	written, err := renderer.WriteTiles(img, opts.TileDir, cfg.Tiles.ZoomLimit, opts.Concurrency, opts.Force)
	if err != nil {
		log.Fatal().Err(err).Int("written", written).Msg("Tile rendering failed")
	}

	log.Info().
		Int("written", written).
		Dur("duration", time.Since(start)).
		Msg("Tile rendering finished successfully")
}
