package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/blich-studio/cms/client"
	"github.com/blich-studio/cms/internal/auth"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/user"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeArticles struct {
	list    *client.ArticleList
	err     error
	pingErr error
	lastQ   url.Values
}

func (f *fakeArticles) ListArticles(_ context.Context, q url.Values) (*client.ArticleList, error) {
	f.lastQ = q
	return f.list, f.err
}

func (f *fakeArticles) GetArticle(_ context.Context, id string) (*client.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.list.Data {
		if f.list.Data[i].ID == id {
			return &f.list.Data[i], nil
		}
	}
	return nil, &client.StatusError{StatusCode: http.StatusNotFound, Body: []byte(`{"message":"Article not found"}`)}
}

func (f *fakeArticles) Ping(context.Context) error { return f.pingErr }

type fakeContent struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeContent) fetch(body string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(body), nil
}

func (f *fakeContent) Games(context.Context, url.Values) (json.RawMessage, error) {
	return f.fetch(`[{"slug":"starfall"}]`)
}

func (f *fakeContent) Game(_ context.Context, slug string) (json.RawMessage, error) {
	return f.fetch(`{"slug":"` + slug + `"}`)
}

func (f *fakeContent) BlogPosts(context.Context, url.Values) (json.RawMessage, error) {
	return f.fetch(`{"meta":{"total":0},"data":[]}`)
}

func (f *fakeContent) BlogPost(_ context.Context, slug string) (json.RawMessage, error) {
	return f.fetch(`{"slug":"` + slug + `"}`)
}

func (f *fakeContent) Ping(context.Context) error { return f.err }

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

var testJWT = config.JWT{Secret: "gateway-secret", Issuer: "blich-test", TTL: time.Hour}

func newTestRouter(t *testing.T, articles *fakeArticles, content *fakeContent, cache Cache) http.Handler {
	t.Helper()

	cfg := config.Gateway{Server: config.Server{Env: "test", OTel: config.OTel{ServiceName: "gateway-test"}}}
	r, err := NewRouter(cfg, zap.NewNop().Sugar(), Deps{
		Articles: articles,
		Content:  content,
		Cache:    cache,
		Tokens:   auth.NewTokens(testJWT, nil),
	})
	require.NoError(t, err)

	return r
}

func sampleArticles() *fakeArticles {
	return &fakeArticles{list: &client.ArticleList{Data: []client.Article{{
		ID:        "507f1f77bcf86cd799439011",
		Title:     "Hello",
		Slug:      "hello",
		Perex:     "Short",
		Content:   "Long",
		Status:    "published",
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000000500,
	}}}}
}

func call(t *testing.T, h http.Handler, method, target, token, body string) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())

	return w.Code, out
}

func TestGraphQLArticles(t *testing.T) {
	articles := sampleArticles()
	h := newTestRouter(t, articles, &fakeContent{}, nil)

	code, body := call(t, h, http.MethodPost, "/graphql", "",
		`{"query":"{ articles(limit: 5, tags: [\"go\", \"cms\"]) { id title createdAt } }"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["errors"])

	data := body["data"].(map[string]any)
	list := data["articles"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "507f1f77bcf86cd799439011", first["id"])
	assert.Equal(t, float64(1700000000000), first["createdAt"])

	assert.Equal(t, "5", articles.lastQ.Get("limit"))
	assert.Equal(t, "go,cms", articles.lastQ.Get("tags"))
}

func TestGraphQLArticleErrors(t *testing.T) {
	h := newTestRouter(t, sampleArticles(), &fakeContent{}, nil)

	code, body := call(t, h, http.MethodGet,
		"/graphql?query="+url.QueryEscape(`{ article(id: "000000000000000000000000") { id } }`), "", "")
	assert.Equal(t, http.StatusOK, code)
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "Article not found", errs[0].(map[string]any)["message"])

	down := sampleArticles()
	down.err = errors.New("connection refused")
	h = newTestRouter(t, down, &fakeContent{}, nil)

	code, body = call(t, h, http.MethodPost, "/graphql", "", `{"query":"{ articles { id } }"}`)
	assert.Equal(t, http.StatusOK, code)
	errs = body["errors"].([]any)
	assert.Equal(t, "Failed to reach cms-api", errs[0].(map[string]any)["message"])

	code, _ = call(t, h, http.MethodPost, "/graphql", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestContentProxyWrapsAndCaches(t *testing.T) {
	content := &fakeContent{}
	cache := &memCache{m: map[string][]byte{}}
	h := newTestRouter(t, sampleArticles(), content, cache)

	for range 2 {
		code, body := call(t, h, http.MethodGet, "/api/v1/content/games/starfall", "", "")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, map[string]any{"slug": "starfall"}, body["data"])
	}
	assert.Equal(t, 1, content.calls)

	code, body := call(t, h, http.MethodGet, "/api/v1/content/blog?page=2", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["data"], "meta")
	assert.Equal(t, 2, content.calls)
}

func TestContentProxyPassesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Asset not found"}`))
	}))
	defer upstream.Close()

	c := client.New(upstream.URL, time.Second)
	defer c.CloseIdleConnections()

	cfg := config.Gateway{Server: config.Server{Env: "test", OTel: config.OTel{ServiceName: "gateway-test"}}}
	r, err := NewRouter(cfg, zap.NewNop().Sugar(), Deps{
		Articles: sampleArticles(),
		Content:  c,
		Tokens:   auth.NewTokens(testJWT, nil),
	})
	require.NoError(t, err)

	code, body := call(t, r, http.MethodGet, "/api/v1/content/games/missing", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Asset not found", body["message"])

	down := &fakeContent{err: errors.New("dial tcp: connection refused")}
	h := newTestRouter(t, sampleArticles(), down, nil)
	code, body = call(t, h, http.MethodGet, "/api/v1/content/blog", "", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to reach cms-backend", body["message"])
}

func TestPublicAndProfile(t *testing.T) {
	h := newTestRouter(t, sampleArticles(), &fakeContent{}, nil)

	code, body := call(t, h, http.MethodGet, "/api/v1/public", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"message": "This is public"}, body["data"])

	code, _ = call(t, h, http.MethodGet, "/api/v1/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	token, _, err := auth.NewTokens(testJWT, nil).Issue(&user.User{ID: 9, Email: "ada@blich.studio"})
	require.NoError(t, err)

	code, body = call(t, h, http.MethodGet, "/api/v1/profile", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"userId": "9", "username": "ada@blich.studio"}, body["data"])
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, sampleArticles(), &fakeContent{}, nil)

	code, body := call(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	articles := sampleArticles()
	articles.pingErr = errors.New("timeout")
	h = newTestRouter(t, articles, &fakeContent{}, nil)

	code, body = call(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	ups := body["upstreams"].(map[string]any)
	assert.Equal(t, "unhealthy", ups["cms-api"].(map[string]any)["status"])
	assert.Equal(t, "healthy", ups["cms-backend"].(map[string]any)["status"])
}
