package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/client"
	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/logger"
)

// ContentSource is the part of cms-backend the gateway proxies.
type ContentSource interface {
	Games(ctx context.Context, query url.Values) (json.RawMessage, error)
	Game(ctx context.Context, slug string) (json.RawMessage, error)
	BlogPosts(ctx context.Context, query url.Values) (json.RawMessage, error)
	BlogPost(ctx context.Context, slug string) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

// DataResponse wraps a proxied body as {"data": ...}.
type DataResponse struct {
	Data any `json:"data"`
}

func (d *DataResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ContentAPI struct {
	src   ContentSource
	cache Cache
}

func NewContentAPI(src ContentSource, cache Cache) *ContentAPI {
	if cache == nil {
		cache = NopCache{}
	}
	return &ContentAPI{src: src, cache: cache}
}

// Routes serves /content.
func (c *ContentAPI) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/games", c.proxy("games", func(r *http.Request) (json.RawMessage, error) {
		return c.src.Games(r.Context(), r.URL.Query())
	}))
	r.Get("/games/{slug}", c.proxy("game", func(r *http.Request) (json.RawMessage, error) {
		return c.src.Game(r.Context(), chi.URLParam(r, "slug"))
	}))
	r.Get("/blog", c.proxy("blog", func(r *http.Request) (json.RawMessage, error) {
		return c.src.BlogPosts(r.Context(), r.URL.Query())
	}))
	r.Get("/blog/{slug}", c.proxy("post", func(r *http.Request) (json.RawMessage, error) {
		return c.src.BlogPost(r.Context(), chi.URLParam(r, "slug"))
	}))

	return r
}

// proxy answers from the cache when it can, otherwise from fetch. Only
// successful bodies are cached. Cache failures are logged and bypassed.
func (c *ContentAPI) proxy(kind string, fetch func(r *http.Request) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)
		key := kind + ":" + r.URL.Path + "?" + r.URL.Query().Encode()

		body, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Warnw("cache get", "key", key, "error", err)
		}

		if !hit {
			body, err = fetch(r)
			if err != nil {
				errresponse.Respond(w, r, upstreamError(err, "cms-backend"))
				return
			}
			if err := c.cache.Set(ctx, key, body); err != nil {
				log.Warnw("cache set", "key", key, "error", err)
			}
		}

		if err := render.Render(w, r, &DataResponse{Data: json.RawMessage(body)}); err != nil {
			errresponse.RespondRender(w, r, err)
		}
	}
}

// upstreamError keeps the upstream status and message of a StatusError and
// turns transport failures into a 500.
func upstreamError(err error, service string) error {
	var se *client.StatusError
	if errors.As(err, &se) {
		msg := se.Message()
		if msg == "" {
			msg = http.StatusText(se.StatusCode)
		}
		return apperr.Upstream(se.StatusCode, msg, err)
	}

	return apperr.Upstream(http.StatusInternalServerError, "Failed to reach "+service, err)
}
