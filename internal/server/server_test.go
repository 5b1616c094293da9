package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/blich-studio/cms/internal/config"
)

func testConfig() config.Server {
	return config.Server{
		Env:             "test",
		Addr:            "127.0.0.1:0",
		CORSOrigins:     []string{"http://localhost:5173"},
		ShutdownTimeout: time.Second,
		RequestTimeout:  time.Second,
		OTel:            config.OTel{ServiceName: "test"},
	}
}

func TestNotFound(t *testing.T) {
	r, err := NewRouter(testConfig(), zap.NewNop().Sugar())
	require.NoError(t, err)
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Route GET /nope not found", body["message"])
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestCORS(t *testing.T) {
	r, err := NewRouter(testConfig(), zap.NewNop().Sugar())
	require.NoError(t, err)
	r.Get("/x", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFileServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0o600))

	r, err := NewRouter(testConfig(), zap.NewNop().Sugar())
	require.NoError(t, err)
	FileServer(r, "/media", http.Dir(dir))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/hello.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media", nil))
	assert.Equal(t, http.StatusMovedPermanently, w.Code)

	assert.Panics(t, func() { FileServer(r, "/files/{id}", http.Dir(dir)) })
}

func TestRoutesDoc(t *testing.T) {
	r, err := NewRouter(testConfig(), zap.NewNop().Sugar())
	require.NoError(t, err)
	r.Get("/api/things", func(w http.ResponseWriter, r *http.Request) {})

	doc := RoutesDoc(r, "test")
	assert.Contains(t, doc, "/api/things")
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, testConfig(), http.NotFoundHandler(), nil, zap.NewNop().Sugar())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
