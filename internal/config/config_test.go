package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/landmap/internal/geo"
	"github.com/woozymasta/landmap/internal/land"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.GridSize)
	assert.Equal(t, 0.0005, cfg.ParcelSize)
	assert.Equal(t, "#4ade80", cfg.Colors.Color(land.Residential))

	// defaults must not share the package palette
	cfg.Colors[land.Residential] = "#000000"
	assert.Equal(t, "#4ade80", land.DefaultPalette[land.Residential])
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
bounds:
  north: 10
  south: 0
  east: 20
  west: 10
grid_size: 11
colors:
  commercial: "#000000"
tiles:
  zoom: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, geo.Bounds{North: 10, South: 0, East: 20, West: 10}, cfg.Bounds)
	assert.Equal(t, 11, cfg.GridSize)
	assert.Equal(t, land.DefaultParcelSize, cfg.ParcelSize)
	assert.Equal(t, "#000000", cfg.Colors.Color(land.Commercial))
	assert.Equal(t, "#fbbf24", cfg.Colors.Color(land.Agricultural))
	assert.Equal(t, 2, cfg.Tiles.ZoomLimit)
	assert.Equal(t, 256, cfg.Tiles.TileSize)

	tr, err := cfg.Transformer()
	require.NoError(t, err)
	assert.Equal(t, geo.Cell{X: 10, Y: 0}, tr.GeoToGrid(20, 10))
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
bounds: {north: 1, south: 2, east: 0, west: 5}
grid_size: 1
parcel_size: -1
colors: {residential: "green"}
`)

	_, err := Load(path)
	require.ErrorIs(t, err, geo.ErrInvalidConfig)
	msg := err.Error()
	assert.Contains(t, msg, "grid size")
	assert.Contains(t, msg, "north")
	assert.Contains(t, msg, "parcel_size")
	assert.Contains(t, msg, "residential")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSerializer(t *testing.T) {
	cfg := Default()
	s, err := cfg.Serializer(true)
	require.NoError(t, err)

	fc, err := s.Serialize([]land.Parcel{{ID: land.StringID("1"), Type: land.Commercial}})
	require.NoError(t, err)
	assert.Equal(t, "#3b82f6", fc.Features[0].Properties["fill"])

	cfg.GridSize = 1
	_, err = cfg.Serializer(false)
	assert.ErrorIs(t, err, geo.ErrInvalidConfig)
}

func TestLoadExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	want := Default()
	want.Attribution = "Land registry"
	assert.Equal(t, want, cfg)
}
