// Package geo maps a discrete land grid onto a geographic bounding box.
package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrInvalidConfig is returned when bounds or grid resolution cannot describe a grid.
var ErrInvalidConfig = errors.New("invalid map configuration")

// Bounds is the rectangular area in degrees the grid overlays.
type Bounds struct {
	North float64 `yaml:"north" json:"north"`
	South float64 `yaml:"south" json:"south"`
	East  float64 `yaml:"east" json:"east"`
	West  float64 `yaml:"west" json:"west"`
}

// Validate checks north > south and east > west.
func (b Bounds) Validate() error {
	if b.North <= b.South {
		return fmt.Errorf("%w: north (%g) must be greater than south (%g)", ErrInvalidConfig, b.North, b.South)
	}
	if b.East <= b.West {
		return fmt.Errorf("%w: east (%g) must be greater than west (%g)", ErrInvalidConfig, b.East, b.West)
	}

	return nil
}

// Bound returns the box as an orb.Bound (min is south-west, max is north-east).
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

// ValidateResolution checks that an N×N grid has at least two cells per axis.
func ValidateResolution(n int) error {
	if n < 2 {
		return fmt.Errorf("%w: grid size must be at least 2, got %d", ErrInvalidConfig, n)
	}

	return nil
}
