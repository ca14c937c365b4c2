// Package render rasterizes the land grid and slices it into WebP map tiles.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/woozymasta/landmap/internal/config"
	"github.com/woozymasta/landmap/internal/geo"
	"github.com/woozymasta/landmap/internal/land"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// TileCoordinate represents a specific tile.
type TileCoordinate struct {
	Z, X, Y int
}

// Path returns the z/x/y.webp location of the tile under dir.
func (c TileCoordinate) Path(dir string) string {
	return filepath.Join(dir, strconv.Itoa(c.Z), strconv.Itoa(c.X), strconv.Itoa(c.Y)+".webp")
}

// Renderer draws parcels colored by land type, one square of CellPixels per grid cell.
//
// Bounds places cell centres, so the image covers the bounds padded by half a
// cell on every side (see Extent). Drawn on that extent, cell x is centred at
// x/(N-1) of the bounds width, the same spot GridToGeo puts the parcel polygon.
type Renderer struct {
	colors   map[land.Type]color.Color
	fallback color.Color
	bounds   geo.Bounds
	grid     int
	cellPx   int
	tileSize int
}

// New builds a Renderer from the map configuration.
func New(cfg *config.Config) (*Renderer, error) {
	r := &Renderer{
		colors:   make(map[land.Type]color.Color, len(cfg.Colors)),
		bounds:   cfg.Bounds,
		grid:     cfg.GridSize,
		cellPx:   cfg.Tiles.CellPixels,
		tileSize: cfg.Tiles.TileSize,
	}

	for t := range cfg.Colors {
		c, err := cfg.Colors.RGB(t)
		if err != nil {
			return nil, fmt.Errorf("color for %q: %w", t, err)
		}
		r.colors[t] = c
	}

	fallback, err := cfg.Colors.RGB(land.Unassigned)
	if err != nil {
		return nil, err
	}
	r.fallback = fallback

	return r, nil
}

// Extent returns the geographic box covered by Image and its tiles.
func (r *Renderer) Extent() geo.Bounds {
	halfLon := (r.bounds.East - r.bounds.West) / float64(r.grid-1) / 2
	halfLat := (r.bounds.North - r.bounds.South) / float64(r.grid-1) / 2

	return geo.Bounds{
		North: r.bounds.North + halfLat,
		South: r.bounds.South - halfLat,
		East:  r.bounds.East + halfLon,
		West:  r.bounds.West - halfLon,
	}
}

// Image draws the grid. Cells without a parcel stay transparent; parcels
// outside the grid are skipped and later parcels paint over earlier ones.
func (r *Renderer) Image(parcels []land.Parcel) *image.RGBA {
	side := r.grid * r.cellPx
	img := image.NewRGBA(image.Rect(0, 0, side, side))

	for _, p := range parcels {
		if p.X < 0 || p.X >= r.grid || p.Y < 0 || p.Y >= r.grid {
			log.Trace().
				Stringer("id", p.ID).
				Int("x", p.X).
				Int("y", p.Y).
				Msg("Parcel outside grid, not rendered")
			continue
		}

		c, ok := r.colors[p.Type]
		if !ok {
			c = r.fallback
		}

		cell := image.Rect(p.X*r.cellPx, p.Y*r.cellPx, (p.X+1)*r.cellPx, (p.Y+1)*r.cellPx)
		draw.Draw(img, cell, image.NewUniform(c), image.Point{}, draw.Src)
	}

	return img
}

// WriteTiles scales src to every zoom level up to zoomLimit and writes the
// tiles under dir. Existing non-empty tiles are kept unless force is set.
// It returns the number of tiles written.
func (r *Renderer) WriteTiles(src image.Image, dir string, zoomLimit, concurrency int, force bool) (int, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu      sync.Mutex
		errs    []error
		written int
	)

	for z := 0; z <= zoomLimit; z++ {
		gridSize := 1 << z
		totalPixels := gridSize * r.tileSize

		log.Debug().
			Int("zoom", z).
			Int("grid", gridSize).
			Int("px", totalPixels).
			Msg("Processing zoom level")

		// nearest neighbor keeps cell edges sharp
		dstImg := image.NewRGBA(image.Rect(0, 0, totalPixels, totalPixels))
		xdraw.NearestNeighbor.Scale(dstImg, dstImg.Bounds(), src, src.Bounds(), draw.Src, nil)

		var wg sync.WaitGroup
		sem := make(chan struct{}, concurrency)

		for x := 0; x < gridSize; x++ {
			for y := 0; y < gridSize; y++ {
				wg.Add(1)
				sem <- struct{}{}

				go func(tc TileCoordinate) {
					defer wg.Done()
					defer func() { <-sem }()

					rect := image.Rect(tc.X*r.tileSize, tc.Y*r.tileSize, (tc.X+1)*r.tileSize, (tc.Y+1)*r.tileSize)
					ok, err := writeTile(dstImg.SubImage(rect), tc.Path(dir), force)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						errs = append(errs, fmt.Errorf("tile %d/%d/%d: %w", tc.Z, tc.X, tc.Y, err))
						return
					}
					if ok {
						written++
					}
				}(TileCoordinate{Z: z, X: x, Y: y})
			}
		}
		wg.Wait()
	}

	return written, errors.Join(errs...)
}

// writeTile encodes img to path. It returns false when an existing tile was kept.
func writeTile(img image.Image, path string, force bool) (bool, error) {
	if !force {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}

	f, err := os.Create(path)
	if err != nil {
		return false, err
	}

	if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
		_ = f.Close()
		return false, err
	}

	return true, f.Close()
}
