// Package client talks to the CMS services over HTTP. The gateway uses one
// Client per upstream: cms-api for articles and cms-backend for games and
// blog posts.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodyBytes = 10 << 20

// ErrResponseTooLarge is returned when an upstream body exceeds MaxBodyBytes.
var ErrResponseTooLarge = errors.New("upstream response too large")

type Client struct {
	http.Client
	Addr string
	// MaxBodyBytes caps response bodies; zero means 10MB.
	MaxBodyBytes int64
}

// New returns a Client for the service rooted at addr whose requests are
// traced through otelhttp.
func New(addr string, timeout time.Duration) *Client {
	return &Client{
		Client: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		Addr: strings.TrimSuffix(addr, "/"),
	}
}

// StatusError is returned for any non-2xx answer. Body holds the upstream
// response as received.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// Message returns the "message" field of a JSON error body, if any.
func (e *StatusError) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	return body.Message
}

// Article as served by cms-api. Timestamps are unix milliseconds.
type Article struct {
	ID        string   `json:"_id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Perex     string   `json:"perex"`
	Content   string   `json:"content"`
	AuthorID  string   `json:"authorId"`
	Status    string   `json:"status"`
	Tags      []string `json:"tags"`
	CreatedAt float64  `json:"createdAt"`
	UpdatedAt float64  `json:"updatedAt"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type ArticleList struct {
	Data       []Article  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListArticles fetches one page of articles. query is passed through.
func (c *Client) ListArticles(ctx context.Context, query url.Values) (*ArticleList, error) {
	var list ArticleList
	if err := c.getJSON(ctx, "/articles", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetArticle(ctx context.Context, id string) (*Article, error) {
	var a Article
	if err := c.getJSON(ctx, "/articles/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Ping succeeds when the service health route answers 2xx.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/health", nil)
	return err
}

func (c *Client) Games(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/games", query)
}

func (c *Client) Game(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.get(ctx, "/games/"+url.PathEscape(slug), nil)
}

func (c *Client) BlogPosts(ctx context.Context, query url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/blog", query)
}

func (c *Client) BlogPost(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.get(ctx, "/blog/"+url.PathEscape(slug), nil)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	target := c.Addr + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("GET %s: %w (over %d bytes)", path, ErrResponseTooLarge, limit)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}
