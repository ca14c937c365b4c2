package land

import (
	"sort"

	"github.com/woozymasta/landmap/internal/geo"

	"github.com/tidwall/rtree"
)

// Index is a spatial index of parcels by grid cell.
// Results are always returned in the order parcels were indexed.
type Index struct {
	tree    rtree.RTreeG[int]
	parcels []Parcel
}

// NewIndex indexes parcels by their grid coordinates.
func NewIndex(parcels []Parcel) *Index {
	idx := &Index{parcels: parcels}
	for i, p := range parcels {
		pt := [2]float64{float64(p.X), float64(p.Y)}
		idx.tree.Insert(pt, pt, i)
	}

	return idx
}

// Len returns the number of indexed parcels.
func (idx *Index) Len() int { return idx.tree.Len() }

// Parcels returns all indexed parcels in input order.
func (idx *Index) Parcels() []Parcel { return idx.parcels }

// At returns the parcels placed on cell c.
func (idx *Index) At(c geo.Cell) []Parcel {
	pt := [2]float64{float64(c.X), float64(c.Y)}
	return idx.search(pt, pt)
}

// Window returns the parcels inside w, bounds inclusive.
func (idx *Index) Window(w Window) []Parcel {
	return idx.search(
		[2]float64{float64(w.MinX), float64(w.MinY)},
		[2]float64{float64(w.MaxX), float64(w.MaxY)},
	)
}

func (idx *Index) search(min, max [2]float64) []Parcel {
	var hits []int
	idx.tree.Search(min, max, func(_, _ [2]float64, i int) bool {
		hits = append(hits, i)
		return true
	})
	sort.Ints(hits)

	result := make([]Parcel, 0, len(hits))
	for _, i := range hits {
		result = append(result, idx.parcels[i])
	}

	return result
}
