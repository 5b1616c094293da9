// Package cmsapi assembles the article service router.
package cmsapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/blich-studio/cms/internal/article"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/health"
	"github.com/blich-studio/cms/internal/server"
)

type statusResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewRouter mounts the article API under /api/v1/cms. Everything under
// that prefix answers 503 while the store is unreachable.
func NewRouter(cfg config.CMSAPI, log *zap.SugaredLogger, svc *article.Service) (chi.Router, error) {
	r, err := server.NewRouter(cfg.Server, log)
	if err != nil {
		return nil, err
	}

	checker := health.NewChecker(svc.Ping, cfg.PingInterval)

	r.Get("/health", health.Handler(checker))

	r.Route("/api/v1/cms", func(r chi.Router) {
		r.Use(health.Require(checker))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, statusResponse{
				Message:   "CMS API is healthy",
				Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			})
		})
		r.Mount("/articles", article.NewAPI(svc).Routes())
	})

	return r, nil
}
