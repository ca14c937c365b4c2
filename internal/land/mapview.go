package land

import "strconv"

// Owner kinds reported in a map view.
const (
	OwnerUser         = "user"
	OwnerOrganization = "organization"
	OwnerNone         = "none"
)

// Window is an inclusive range of grid cells.
type Window struct {
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

// DefaultWindow covers the registry's stock 20×20 grid, edges inclusive.
func DefaultWindow() Window {
	return Window{MinX: 0, MaxX: 20, MinY: 0, MaxY: 20}
}

// MapCell is the compact per-cell summary used by the grid view.
type MapCell struct {
	OwnerName *string `json:"owner_name"`
	ID        ID      `json:"id"`
	Type      Type    `json:"type"`
	OwnerType string  `json:"owner_type"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
}

// MapView is a window of the grid keyed by "x,y".
type MapView struct {
	Lands  map[string]MapCell `json:"lands"`
	Bounds Window             `json:"bounds"`
}

// BuildMapView summarizes the parcels of idx inside w.
// When several parcels share a cell the last one indexed wins.
func BuildMapView(idx *Index, w Window) MapView {
	view := MapView{
		Bounds: w,
		Lands:  make(map[string]MapCell),
	}

	for _, p := range idx.Window(w) {
		cell := MapCell{
			ID:        p.ID,
			X:         p.X,
			Y:         p.Y,
			Type:      p.Type,
			OwnerType: OwnerNone,
		}
		switch {
		case p.OwnerUserID != nil:
			cell.OwnerType = OwnerUser
			cell.OwnerName = p.OwnerUserID
		case p.OwnerOrganizationID != nil:
			cell.OwnerType = OwnerOrganization
			cell.OwnerName = p.OwnerOrganizationID
		}
		view.Lands[CellKey(p.X, p.Y)] = cell
	}

	return view
}

// CellKey formats the "x,y" key used by map views.
func CellKey(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}
