// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/woozymasta/landmap/internal/geo"
	"github.com/woozymasta/landmap/internal/land"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Colors      land.Palette `yaml:"colors" json:"colors"`
	Attribution string       `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Bounds      geo.Bounds   `yaml:"bounds" json:"bounds"`
	Tiles       Tiles        `yaml:"tiles" json:"-"`
	GridSize    int          `yaml:"grid_size" json:"grid_size"`
	ParcelSize  float64      `yaml:"parcel_size" json:"parcel_size"`
}

// Tiles controls raster rendering of the grid.
type Tiles struct {
	TileSize   int `yaml:"tile_size,omitempty"`
	ZoomLimit  int `yaml:"zoom,omitempty"`
	CellPixels int `yaml:"cell_px,omitempty"`
}

// Default returns the stock registry map: a 20×20 grid over a patch of
// Manhattan with the standard land colors.
func Default() *Config {
	colors := make(land.Palette, len(land.DefaultPalette))
	for t, c := range land.DefaultPalette {
		colors[t] = c
	}

	return &Config{
		Bounds: geo.Bounds{
			North: 40.800776,
			South: 40.764046,
			East:  -73.949297,
			West:  -73.981762,
		},
		GridSize:   20,
		ParcelSize: land.DefaultParcelSize,
		Colors:     colors,
		Tiles: Tiles{
			TileSize:   256,
			ZoomLimit:  4,
			CellPixels: 16,
		},
	}
}

// Load reads the YAML configuration file over Default and validates it.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if err := geo.ValidateResolution(c.GridSize); err != nil {
		errs = append(errs, unwrapMessage(err))
	}
	if err := c.Bounds.Validate(); err != nil {
		errs = append(errs, unwrapMessage(err))
	}
	if c.ParcelSize <= 0 {
		errs = append(errs, fmt.Sprintf("parcel_size must be positive, got %g", c.ParcelSize))
	}
	if err := c.Colors.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Tiles.TileSize <= 0 {
		errs = append(errs, "tiles.tile_size must be positive")
	}
	if c.Tiles.ZoomLimit < 0 {
		errs = append(errs, "tiles.zoom must not be negative")
	}
	if c.Tiles.CellPixels <= 0 {
		errs = append(errs, "tiles.cell_px must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", geo.ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}

	return nil
}

// Transformer builds the grid transformer for this configuration.
func (c *Config) Transformer() (*geo.Transformer, error) {
	return geo.NewTransformer(c.Bounds, c.GridSize)
}

// Serializer builds a parcel serializer for this configuration.
func (c *Config) Serializer(withColors bool) (*land.Serializer, error) {
	t, err := c.Transformer()
	if err != nil {
		return nil, err
	}

	opts := []land.Option{land.WithSize(c.ParcelSize)}
	if withColors {
		opts = append(opts, land.WithColors(c.Colors))
	}

	return land.NewSerializer(t, opts...), nil
}

// unwrapMessage drops the ErrInvalidConfig prefix so it is not repeated per line.
func unwrapMessage(err error) string {
	return strings.TrimPrefix(err.Error(), geo.ErrInvalidConfig.Error()+": ")
}
