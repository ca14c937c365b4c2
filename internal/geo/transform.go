package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Cell is a grid coordinate. Row 0 is the north edge.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Transformer converts between grid cells and lon/lat using a linear mapping
// over Bounds. It is immutable and safe for concurrent use.
type Transformer struct {
	bounds Bounds
	size   int
}

// NewTransformer validates the configuration and returns a Transformer for an
// size×size grid.
func NewTransformer(b Bounds, size int) (*Transformer, error) {
	if err := ValidateResolution(size); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &Transformer{bounds: b, size: size}, nil
}

// Bounds returns the configured bounding box.
func (t *Transformer) Bounds() Bounds { return t.bounds }

// Size returns the grid resolution N.
func (t *Transformer) Size() int { return t.size }

// GridToGeo returns the [lon, lat] of a grid cell.
// Cells outside [0, N-1] are extrapolated beyond the box, not rejected.
func (t *Transformer) GridToGeo(x, y int) orb.Point {
	last := float64(t.size - 1)
	b := t.bounds

	lon := b.West + (float64(x)/last)*(b.East-b.West)
	lat := b.South + ((last-float64(y))/last)*(b.North-b.South)

	return orb.Point{lon, lat}
}

// GeoToGrid returns the grid cell nearest to lon/lat.
// Rounding is half away from zero (math.Round); the result is clamped into
// [0, N-1] so clicks outside the box snap to the edge cell.
func (t *Transformer) GeoToGrid(lon, lat float64) Cell {
	last := float64(t.size - 1)
	b := t.bounds

	x := math.Round(((lon - b.West) / (b.East - b.West)) * last)
	y := math.Round(last - ((lat-b.South)/(b.North-b.South))*last)

	return Cell{X: t.clamp(x), Y: t.clamp(y)}
}

// PointToGrid is GeoToGrid for an orb.Point.
func (t *Transformer) PointToGrid(p orb.Point) Cell {
	return t.GeoToGrid(p.Lon(), p.Lat())
}

// Contains reports whether the cell is inside the grid.
func (t *Transformer) Contains(c Cell) bool {
	return c.X >= 0 && c.X < t.size && c.Y >= 0 && c.Y < t.size
}

func (t *Transformer) clamp(v float64) int {
	// NaN input (e.g. from a malformed click) lands on cell 0
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if limit := float64(t.size - 1); v > limit {
		return t.size - 1
	}

	return int(v)
}
