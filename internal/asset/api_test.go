package asset

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blich-studio/cms/internal/database/dbtest"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	api := NewAPI(NewService(NewStore(dbtest.New(t))))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/games", api.PublicRoutes())
	r.Mount("/admin/games", api.AdminRoutes())

	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}

	return w, out
}

func TestAdminLifecycle(t *testing.T) {
	h := newTestRouter(t)

	w, out := do(t, h, http.MethodPost, "/admin/games",
		`{"title":"Starfall","slug":"starfall","platforms":["windows"],"links":{"itch":"https://blich.itch.io/starfall"}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := out.(map[string]any)
	assert.Equal(t, "game", body["type"])
	assert.Equal(t, "in-development", body["status"])
	assert.Equal(t, false, body["published"])
	id := strconv.FormatInt(int64(body["id"].(float64)), 10)

	// Unpublished assets stay hidden from the public routes.
	w, _ = do(t, h, http.MethodGet, "/games/starfall", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, out = do(t, h, http.MethodPut, "/admin/games/"+id, `{"published":true,"status":"released"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body = out.(map[string]any)
	assert.Equal(t, "Starfall", body["title"])
	assert.Equal(t, "released", body["status"])

	w, out = do(t, h, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out, 1)

	w, out = do(t, h, http.MethodGet, "/games/starfall", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"windows"}, out.(map[string]any)["platforms"])

	w, out = do(t, h, http.MethodDelete, "/admin/games/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asset deleted successfully", out.(map[string]any)["message"])

	w, out = do(t, h, http.MethodGet, "/admin/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Asset not found", out.(map[string]any)["message"])
}

func TestPublishedQueryParam(t *testing.T) {
	h := newTestRouter(t)

	w, _ := do(t, h, http.MethodPost, "/admin/games", `{"title":"Draft","slug":"draft"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	_, out := do(t, h, http.MethodGet, "/games", "")
	assert.Len(t, out, 0)

	_, out = do(t, h, http.MethodGet, "/games?published=false", "")
	assert.Len(t, out, 1)

	w, _ = do(t, h, http.MethodGet, "/games?published=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminErrors(t *testing.T) {
	h := newTestRouter(t)

	w, _ := do(t, h, http.MethodPost, "/admin/games", `{"title":"A","slug":"dup"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		message string
	}{
		{"missing title", http.MethodPost, "/admin/games", `{"slug":"x"}`, http.StatusBadRequest, "Title is required"},
		{"missing slug", http.MethodPost, "/admin/games", `{"title":"X"}`, http.StatusBadRequest, "Slug is required"},
		{"bad type", http.MethodPost, "/admin/games", `{"title":"X","slug":"x","type":"movie"}`, http.StatusBadRequest, "Type must be one of: animation, game, tool, tabletop, article, other"},
		{"bad cover", http.MethodPost, "/admin/games", `{"title":"X","slug":"x","coverImage":"nope"}`, http.StatusBadRequest, "Cover image must be a valid URL"},
		{"duplicate slug", http.MethodPost, "/admin/games", `{"title":"B","slug":"dup"}`, http.StatusConflict, "Asset with this slug already exists"},
		{"bad id", http.MethodGet, "/admin/games/abc", "", http.StatusBadRequest, "Invalid asset ID format"},
		{"missing", http.MethodPut, "/admin/games/999", `{"title":"X"}`, http.StatusNotFound, "Asset not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			body, _ := out.(map[string]any)
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, http.StatusText(tt.status), body["status"])
			assert.NotEmpty(t, body["id"])
		})
	}
}

func TestClearNullableLinks(t *testing.T) {
	h := newTestRouter(t)

	w, out := do(t, h, http.MethodPost, "/admin/games",
		`{"title":"Starfall","slug":"starfall","coverImage":"https://cdn.example.com/a.png","trailerUrl":"https://youtu.be/x"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := strconv.FormatInt(int64(out.(map[string]any)["id"].(float64)), 10)

	// null leaves the column alone, "" clears it
	w, out = do(t, h, http.MethodPut, "/admin/games/"+id, `{"coverImage":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example.com/a.png", out.(map[string]any)["coverImage"])

	w, _ = do(t, h, http.MethodPut, "/admin/games/"+id, `{"coverImage":"","trailerUrl":""}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, out = do(t, h, http.MethodGet, "/admin/games/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := out.(map[string]any)
	assert.Nil(t, body["coverImage"])
	assert.Nil(t, body["trailerUrl"])
}
