package land

import (
	"errors"

	"github.com/woozymasta/landmap/internal/geo"

	"github.com/paulmach/orb/geojson"
)

// DefaultParcelSize is the half-width in degrees of a rendered parcel square.
const DefaultParcelSize = 0.0005

// Serializer turns parcels into a GeoJSON FeatureCollection of squares.
// It holds no mutable state and is safe for concurrent use.
type Serializer struct {
	transformer *geo.Transformer
	palette     Palette
	size        float64
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithColors adds a "fill" property taken from p to every feature.
func WithColors(p Palette) Option {
	return func(s *Serializer) {
		s.palette = p
	}
}

// WithSize overrides the square half-width.
func WithSize(size float64) Option {
	return func(s *Serializer) {
		if size > 0 {
			s.size = size
		}
	}
}

// NewSerializer returns a Serializer placing parcels with t.
func NewSerializer(t *geo.Transformer, opts ...Option) *Serializer {
	s := &Serializer{
		transformer: t,
		size:        DefaultParcelSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Serialize converts parcels to a FeatureCollection, keeping input order.
// Overlapping parcels are emitted as overlapping polygons. A malformed parcel
// fails the whole batch with a *ParcelError.
func (s *Serializer) Serialize(parcels []Parcel) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	fc.Features = make([]*geojson.Feature, 0, len(parcels))

	for i, p := range parcels {
		if err := p.Validate(); err != nil {
			var pe *ParcelError
			if errors.As(err, &pe) {
				pe.Index = i
			}
			return nil, err
		}
		fc.Append(s.Feature(p))
	}

	return fc, nil
}

// Feature builds the polygon feature for one parcel without validating it.
func (s *Serializer) Feature(p Parcel) *geojson.Feature {
	center := s.transformer.GridToGeo(p.X, p.Y)

	f := geojson.NewFeature(geo.Square(center, s.size))
	f.Properties = geojson.Properties{
		"id":                    p.ID,
		"x_coordinate":          p.X,
		"y_coordinate":          p.Y,
		"land_type":             string(p.Type),
		"owner_user_id":         optional(p.OwnerUserID),
		"owner_organization_id": optional(p.OwnerOrganizationID),
	}
	if s.palette != nil {
		f.Properties["fill"] = s.palette.Color(p.Type)
	}

	return f
}
