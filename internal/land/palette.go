package land

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette maps land types to hex display colors.
type Palette map[Type]string

// DefaultPalette is the registry's stock color table.
var DefaultPalette = Palette{
	Residential:  "#4ade80",
	Agricultural: "#fbbf24",
	Industrial:   "#6b7280",
	Commercial:   "#3b82f6",
	Unassigned:   "#f3f4f6",
}

// Color returns the hex color for t, falling back to the unassigned color and
// then to the default palette.
func (p Palette) Color(t Type) string {
	if c, ok := p[t]; ok {
		return c
	}
	if c, ok := p[Unassigned]; ok {
		return c
	}
	if c, ok := DefaultPalette[t]; ok {
		return c
	}

	return DefaultPalette[Unassigned]
}

// RGB parses the color for t.
func (p Palette) RGB(t Type) (colorful.Color, error) {
	return colorful.Hex(p.Color(t))
}

// Validate checks that every entry is a parsable hex color.
func (p Palette) Validate() error {
	for t, hex := range p {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("color for %q: %w", t, err)
		}
	}

	return nil
}
