package geo

import "github.com/paulmach/orb"

// Square returns a closed five-vertex polygon of half-width size around center.
// The ring starts at the south-west corner and winds counter-clockwise.
func Square(center orb.Point, size float64) orb.Polygon {
	lon, lat := center.Lon(), center.Lat()

	ring := orb.Ring{
		{lon - size, lat - size},
		{lon + size, lat - size},
		{lon + size, lat + size},
		{lon - size, lat + size},
		{lon - size, lat - size},
	}

	return orb.Polygon{ring}
}
