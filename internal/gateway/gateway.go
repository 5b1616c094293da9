// Package gateway serves the public site: a GraphQL view of the articles
// in cms-api and a REST proxy in front of the cms-backend content routes.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blich-studio/cms/internal/auth"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/server"
)

// Deps are the upstreams and helpers the gateway routes need.
type Deps struct {
	Articles ArticleSource
	Content  ContentSource
	Cache    Cache
	Tokens   *auth.Tokens
}

func NewRouter(cfg config.Gateway, log *zap.SugaredLogger, deps Deps) (chi.Router, error) {
	r, err := server.NewRouter(cfg.Server, log)
	if err != nil {
		return nil, err
	}

	schema, err := NewSchema(deps.Articles)
	if err != nil {
		return nil, err
	}

	r.Get("/health", HealthHandler(deps.Articles, deps.Content))

	gql := GraphQLHandler(schema)
	r.Get("/graphql", gql)
	r.Post("/graphql", gql)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/public", Public)
		r.With(auth.Authenticate(deps.Tokens)).Get("/profile", Profile)
		r.Mount("/content", NewContentAPI(deps.Content, deps.Cache).Routes())
	})

	return r, nil
}

func Public(w http.ResponseWriter, r *http.Request) {
	resp := &DataResponse{Data: map[string]string{"message": "This is public"}}
	if err := render.Render(w, r, resp); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

type profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Profile echoes the identity carried by the bearer token.
func Profile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	resp := &DataResponse{Data: profile{UserID: claims.Subject, Username: claims.Username}}
	if err := render.Render(w, r, resp); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

type upstreamStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Success   bool                      `json:"success"`
	Upstreams map[string]upstreamStatus `json:"upstreams"`
	Timestamp string                    `json:"timestamp"`
}

const healthTimeout = 3 * time.Second

// HealthHandler pings both upstreams concurrently. Any failure answers 503.
func HealthHandler(articles, content pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		targets := []struct {
			name string
			p    pinger
		}{
			{"cms-api", articles},
			{"cms-backend", content},
		}
		results := make([]error, len(targets))

		var g errgroup.Group
		for i, t := range targets {
			g.Go(func() error {
				results[i] = t.p.Ping(ctx)
				return nil
			})
		}
		_ = g.Wait()

		resp := healthResponse{
			Success:   true,
			Upstreams: make(map[string]upstreamStatus, len(targets)),
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}
		for i, t := range targets {
			if err := results[i]; err != nil {
				resp.Success = false
				resp.Upstreams[t.name] = upstreamStatus{Status: "unhealthy", Error: err.Error()}
				continue
			}
			resp.Upstreams[t.name] = upstreamStatus{Status: "healthy"}
		}

		if !resp.Success {
			render.Status(r, http.StatusServiceUnavailable)
		}
		render.JSON(w, r, resp)
	}
}
