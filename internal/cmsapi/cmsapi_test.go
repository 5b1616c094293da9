package cmsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blich-studio/cms/internal/article"
	"github.com/blich-studio/cms/internal/config"
)

func testConfig() config.CMSAPI {
	return config.CMSAPI{
		Server: config.Server{
			Env:             "test",
			ShutdownTimeout: time.Second,
			OTel:            config.OTel{ServiceName: "cms-api-test"},
		},
		Store:        "memory",
		PingInterval: time.Minute,
	}
}

type downStore struct {
	*article.MemStore
}

func (downStore) Ping(context.Context) error {
	return errors.New("server selection timeout")
}

func get(t *testing.T, h http.Handler, target string) (int, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return w.Code, body
}

func TestRouterHealthy(t *testing.T) {
	r, err := NewRouter(testConfig(), zap.NewNop().Sugar(), article.NewService(article.NewMemStore()))
	require.NoError(t, err)

	code, body := get(t, r, "/api/v1/cms/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "CMS API is healthy", body["message"])

	code, body = get(t, r, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, body = get(t, r, "/api/v1/cms/articles")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "pagination")

	code, body = get(t, r, "/api/v1/unknown")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route GET /api/v1/unknown not found", body["message"])
	assert.Equal(t, "Not Found", body["status"])
}

func TestRouterDatabaseDown(t *testing.T) {
	svc := article.NewService(downStore{article.NewMemStore()})
	r, err := NewRouter(testConfig(), zap.NewNop().Sugar(), svc)
	require.NoError(t, err)

	code, body := get(t, r, "/api/v1/cms/articles")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Database connection failed", body["error"])
	assert.Equal(t, "Service Unavailable", body["status"])

	code, body = get(t, r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	db, _ := body["database"].(map[string]any)
	assert.Equal(t, false, db["connected"])
	assert.Equal(t, "unhealthy", db["status"])
}

func TestCreateThroughRouter(t *testing.T) {
	r, err := NewRouter(testConfig(), zap.NewNop().Sugar(), article.NewService(article.NewMemStore()))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cms/articles", strings.NewReader(
		`{"title":"T","slug":"t","perex":"P","content":"C","authorId":"507f1f77bcf86cd799439011"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	code, body := get(t, r, "/api/v1/cms/articles/not-an-id")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Bad Request", body["status"])
	for _, key := range []string{"error", "message", "id"} {
		assert.Contains(t, body, key)
	}
}
