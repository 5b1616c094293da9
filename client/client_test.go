package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newUpstream(t *testing.T) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "published", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"data":[{"_id":"507f1f77bcf86cd799439011","title":"Hi","createdAt":1700000000000}],
			"pagination":{"page":1,"limit":10,"total":1,"totalPages":1,"hasNext":false,"hasPrev":false}}`))
	})
	mux.HandleFunc("GET /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found","message":"Article not found","id":"x"}`))
	})
	mux.HandleFunc("GET /games/{slug}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"slug":"` + r.PathValue("slug") + `"}`))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/", time.Second)
	t.Cleanup(c.CloseIdleConnections)

	return c
}

func TestListArticles(t *testing.T) {
	c := newUpstream(t)

	list, err := c.ListArticles(context.Background(), url.Values{"status": {"published"}})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "507f1f77bcf86cd799439011", list.Data[0].ID)
	assert.Equal(t, float64(1700000000000), list.Data[0].CreatedAt)
	assert.EqualValues(t, 1, list.Pagination.Total)
}

func TestStatusError(t *testing.T) {
	c := newUpstream(t)

	_, err := c.GetArticle(context.Background(), "507f1f77bcf86cd799439011")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Article not found", se.Message())
	assert.EqualError(t, err, "upstream status 404: Article not found")
}

func TestRawContent(t *testing.T) {
	c := newUpstream(t)

	body, err := c.Game(context.Background(), "starfall")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"starfall"}`, string(body))

	require.NoError(t, c.Ping(context.Background()))
}

func TestResponseTooLarge(t *testing.T) {
	c := newUpstream(t)

	// {"slug":"starfall"} is 19 bytes
	c.MaxBodyBytes = 19
	_, err := c.Game(context.Background(), "starfall")
	require.NoError(t, err)

	c.MaxBodyBytes = 18
	_, err = c.Game(context.Background(), "starfall")
	require.ErrorIs(t, err, ErrResponseTooLarge)
}
