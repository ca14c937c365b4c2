package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woozymasta/landmap/internal/config"
	"github.com/woozymasta/landmap/internal/land"
	"github.com/woozymasta/landmap/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestServer(t *testing.T, parcels []land.Parcel, tileDir string) http.Handler {
	t.Helper()
	if parcels == nil {
		parcels = []land.Parcel{
			{ID: land.NumberID(1), X: 0, Y: 0, Type: land.Residential, OwnerUserID: strPtr("u1")},
			{ID: land.StringID("2"), X: 19, Y: 19, Type: land.Commercial, OwnerOrganizationID: strPtr("org")},
		}
	}

	srv, err := NewServerContext(config.Default(), parcels, tileDir, false)
	require.NoError(t, err)
	return RequestLogger(srv.Routes())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) {
	t.Helper()
	var resp struct {
		Data    json.RawMessage `json:"data"`
		Success bool            `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, data))
}

func TestHandleLands(t *testing.T) {
	rec := get(t, newTestServer(t, nil, ""), "/api/lands.geojson")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, float64(1), fc.Features[0].Properties["id"])
	assert.Equal(t, "2", fc.Features[1].Properties["id"])
	assert.Equal(t, "org", fc.Features[1].Properties["owner_organization_id"])
}

func TestHandleLandsMalformed(t *testing.T) {
	h := newTestServer(t, []land.Parcel{{ID: land.StringID("1")}}, "")

	rec := get(t, h, "/api/lands.geojson")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestHandleGrid(t *testing.T) {
	h := newTestServer(t, nil, "")

	rec := get(t, h, "/api/grid?lng=-73.9817&lat=40.8007")
	require.Equal(t, http.StatusOK, rec.Code)

	var cell struct {
		Lands []land.Parcel `json:"lands"`
		X     int           `json:"x"`
		Y     int           `json:"y"`
	}
	decodeData(t, rec, &cell)
	assert.Equal(t, 0, cell.X)
	assert.Equal(t, 0, cell.Y)
	require.Len(t, cell.Lands, 1)
	assert.Equal(t, "1", cell.Lands[0].ID.String())

	// clicks outside the box snap to the edge
	rec = get(t, h, "/api/grid?lng=-70&lat=30")
	decodeData(t, rec, &cell)
	assert.Equal(t, 19, cell.X)
	assert.Equal(t, 19, cell.Y)

	for _, target := range []string{"/api/grid?lat=1", "/api/grid?lng=x&lat=1", "/api/grid?lng=1"} {
		assert.Equal(t, http.StatusBadRequest, get(t, h, target).Code, target)
	}
}

func TestHandleGeo(t *testing.T) {
	h := newTestServer(t, nil, "")

	rec := get(t, h, "/api/geo?x=19&y=19")
	require.Equal(t, http.StatusOK, rec.Code)

	var p pointResponse
	decodeData(t, rec, &p)
	assert.InDelta(t, -73.949297, p.Lng, 1e-9)
	assert.InDelta(t, 40.764046, p.Lat, 1e-9)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/geo?x=1").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/geo?x=1.5&y=2").Code)
}

func TestHandleMap(t *testing.T) {
	h := newTestServer(t, nil, "")

	var view land.MapView
	decodeData(t, get(t, h, "/api/map"), &view)
	assert.Equal(t, land.DefaultWindow(), view.Bounds)
	assert.Len(t, view.Lands, 2)
	assert.Equal(t, land.OwnerOrganization, view.Lands["19,19"].OwnerType)

	var east land.MapView
	decodeData(t, get(t, h, "/api/map?min_x=10&min_y=10"), &east)
	assert.Equal(t, 10, east.Bounds.MinX)
	assert.Len(t, east.Lands, 1)
	assert.Contains(t, east.Lands, "19,19")

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/map?max_x=abc").Code)
}

func TestHandleConfig(t *testing.T) {
	var cfg configResponse
	decodeData(t, get(t, newTestServer(t, nil, ""), "/api/config"), &cfg)

	assert.Equal(t, 20, cfg.GridSize)
	assert.Equal(t, config.Default().Bounds, cfg.Bounds)
	assert.Less(t, cfg.TileBounds.West, cfg.Bounds.West)
	assert.Greater(t, cfg.TileBounds.North, cfg.Bounds.North)
	assert.Equal(t, "#6b7280", cfg.Colors.Color(land.Industrial))
}

func TestHandleTile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Tiles.TileSize = 8
	cfg.Tiles.CellPixels = 1

	r, err := render.New(cfg)
	require.NoError(t, err)
	_, err = r.WriteTiles(r.Image(nil), dir, 0, 1, false)
	require.NoError(t, err)

	h := newTestServer(t, nil, dir)

	rec := get(t, h, "/tiles/0/0/0.webp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/tiles/0/0/0.webp", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	// missing tiles fall back to the transparent placeholder
	rec = get(t, h, "/tiles/5/1/1.webp")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.Bytes())
	assert.Empty(t, rec.Header().Get("ETag"))

	for _, target := range []string{"/tiles/0/0/0.png", "/tiles/a/0/0.webp", "/tiles/0/-1/0.webp", "/tiles/0/0"} {
		assert.Equal(t, http.StatusNotFound, get(t, h, target).Code, target)
	}
}
