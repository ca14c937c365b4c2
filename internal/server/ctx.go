package server

import (
	"bytes"
	"image"

	"github.com/woozymasta/landmap/internal/config"
	"github.com/woozymasta/landmap/internal/geo"
	"github.com/woozymasta/landmap/internal/land"
	"github.com/woozymasta/landmap/internal/render"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config          *config.Config
	Transformer     *geo.Transformer
	Serializer      *land.Serializer
	Index           *land.Index
	TileDir         string
	TileBounds      geo.Bounds
	TransparentTile []byte
}

// NewServerContext builds the transformer, serializer and parcel index for
// the handlers. Parcels are served as given; they are never modified.
func NewServerContext(cfg *config.Config, parcels []land.Parcel, tileDir string, fill bool) (*ServerContext, error) {
	log.Info().Int("parcels", len(parcels)).Msg("Initializing server context")

	tr, err := cfg.Transformer()
	if err != nil {
		return nil, err
	}

	serializer, err := cfg.Serializer(fill)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg)
	if err != nil {
		return nil, err
	}

	transparent, err := transparentTile()
	if err != nil {
		return nil, err
	}

	idx := land.NewIndex(parcels)

	log.Info().
		Int("grid_size", tr.Size()).
		Int("indexed", idx.Len()).
		Str("tiles", tileDir).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:          cfg,
		Transformer:     tr,
		Serializer:      serializer,
		Index:           idx,
		TileDir:         tileDir,
		TileBounds:      renderer.Extent(),
		TransparentTile: transparent,
	}, nil
}

// transparentTile encodes the 1×1 placeholder served for missing tiles.
func transparentTile() ([]byte, error) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
