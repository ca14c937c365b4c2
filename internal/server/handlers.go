// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/landmap/internal/geo"
	"github.com/woozymasta/landmap/internal/land"
	"github.com/woozymasta/landmap/internal/render"

	"github.com/rs/zerolog/log"
)

const etagCap = 64

type response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Success bool        `json:"success"`
}

type cellResponse struct {
	Lands []land.Parcel `json:"lands"`
	geo.Cell
}

type pointResponse struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type configResponse struct {
	Colors      land.Palette `json:"colors"`
	Attribution string       `json:"attribution,omitempty"`
	Bounds      geo.Bounds   `json:"bounds"`
	TileBounds  geo.Bounds   `json:"tile_bounds"`
	GridSize    int          `json:"grid_size"`
	ParcelSize  float64      `json:"parcel_size"`
	ZoomLimit   int          `json:"zoom"`
}

// Routes registers the API and tile handlers.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/lands.geojson", s.HandleLands)
	mux.HandleFunc("/api/grid", s.HandleGrid)
	mux.HandleFunc("/api/geo", s.HandleGeo)
	mux.HandleFunc("/api/map", s.HandleMap)
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/tiles/", s.HandleTile)

	return mux
}

// HandleLands serves every parcel as a GeoJSON FeatureCollection.
func (s *ServerContext) HandleLands(w http.ResponseWriter, r *http.Request) {
	fc, err := s.Serializer.Serialize(s.Index.Parcels())
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize parcels")
		status := http.StatusInternalServerError
		if errors.Is(err, land.ErrMalformedParcel) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(fc)
}

// HandleGrid resolves a map click (?lng=&lat=) to its grid cell and parcels.
func (s *ServerContext) HandleGrid(w http.ResponseWriter, r *http.Request) {
	lng, err := queryFloat(r, "lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lat, err := queryFloat(r, "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cell := s.Transformer.GeoToGrid(lng, lat)
	writeData(w, cellResponse{Cell: cell, Lands: s.Index.At(cell)})
}

// HandleGeo returns the lon/lat of a grid cell (?x=&y=).
func (s *ServerContext) HandleGeo(w http.ResponseWriter, r *http.Request) {
	x, err := queryInt(r, "x", nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := queryInt(r, "y", nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p := s.Transformer.GridToGeo(x, y)
	writeData(w, pointResponse{Lng: p.Lon(), Lat: p.Lat()})
}

// HandleMap serves the grid window view (?min_x=&max_x=&min_y=&max_y=).
func (s *ServerContext) HandleMap(w http.ResponseWriter, r *http.Request) {
	win := land.DefaultWindow()
	fields := []struct {
		name string
		dst  *int
	}{
		{"min_x", &win.MinX},
		{"max_x", &win.MaxX},
		{"min_y", &win.MinY},
		{"max_y", &win.MaxY},
	}

	for _, f := range fields {
		v, err := queryInt(r, f.name, f.dst)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		*f.dst = v
	}

	writeData(w, land.BuildMapView(s.Index, win))
}

// HandleConfig serves the map parameters a client needs to draw the grid.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeData(w, configResponse{
		Bounds:      s.Config.Bounds,
		GridSize:    s.Config.GridSize,
		ParcelSize:  s.Config.ParcelSize,
		Colors:      s.Config.Colors,
		Attribution: s.Config.Attribution,
		ZoomLimit:   s.Config.Tiles.ZoomLimit,
		TileBounds:  s.TileBounds,
	})
}

// HandleTile serves rendered tiles, falling back to a transparent tile.
func (s *ServerContext) HandleTile(w http.ResponseWriter, r *http.Request) {
	// Path: /tiles/{z}/{x}/{y}.webp
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || !strings.HasSuffix(parts[3], ".webp") {
		http.NotFound(w, r)
		return
	}

	var coords [3]int
	for i, part := range []string{parts[1], parts[2], strings.TrimSuffix(parts[3], ".webp")} {
		// numeric parts only, to prevent path probing
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			http.NotFound(w, r)
			return
		}
		coords[i] = v
	}

	tc := render.TileCoordinate{Z: coords[0], X: coords[1], Y: coords[2]}
	if s.TileDir != "" && s.serveFile(w, r, tc.Path(s.TileDir), "image/webp") {
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(s.TransparentTile)
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, filepath.Clean(path))
	return true
}

// queryFloat reads a required float query parameter.
func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New(name + " is required")
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number")
	}

	return v, nil
}

// queryInt reads an integer query parameter; it is required when def is nil.
func queryInt(r *http.Request, name string, def *int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if def == nil {
			return 0, errors.New(name + " is required")
		}
		return *def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}

	return v, nil
}

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: false, Error: err.Error()})
}
