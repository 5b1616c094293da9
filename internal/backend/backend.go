// Package backend assembles the cms-backend router: public content under
// /api/cms, the authenticated admin API under /api/cms/admin, sign-in under
// /api/auth and uploaded files under /media.
package backend

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/blich-studio/cms/internal/asset"
	"github.com/blich-studio/cms/internal/auth"
	"github.com/blich-studio/cms/internal/blog"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/health"
	"github.com/blich-studio/cms/internal/media"
	"github.com/blich-studio/cms/internal/server"
	"github.com/blich-studio/cms/internal/studio"
	"github.com/blich-studio/cms/internal/user"
)

const mediaPath = "/media"

func NewRouter(cfg config.CMSBackend, log *zap.SugaredLogger, db *database.DB) (chi.Router, error) {
	r, err := server.NewRouter(cfg.Server, log)
	if err != nil {
		return nil, err
	}

	revoked := auth.NewRevocationStore(db)
	tokens := auth.NewTokens(cfg.JWT, revoked)

	assets := asset.NewAPI(asset.NewService(asset.NewStore(db)))
	posts := blog.NewAPI(blog.NewService(blog.NewStore(db)))
	profile := studio.NewAPI(studio.NewService(studio.NewStore(db)))
	files := media.NewAPI(media.NewService(media.NewStore(db), media.Options{
		Root:     cfg.MediaRoot,
		BaseURL:  cfg.MediaBaseURL,
		MaxBytes: cfg.MediaMaxBytes,
	}))

	checker := health.NewChecker(db.PingContext, cfg.PingInterval)
	r.Get("/health", health.Handler(checker))

	r.Route("/api/cms", func(r chi.Router) {
		r.Get("/health", health.Handler(checker))
		r.Mount("/games", assets.PublicRoutes())
		r.Mount("/blog", posts.PublicRoutes())
		r.Mount("/studio", profile.PublicRoutes())

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Authenticate(tokens))
			r.Mount("/games", assets.AdminRoutes())
			r.Mount("/blog", posts.AdminRoutes())
			r.Mount("/studio", profile.AdminRoutes())
			r.Mount("/media", files.Routes())
		})
	})

	r.Mount("/api/auth", auth.NewAPI(user.NewStore(db), tokens, revoked).Routes())

	server.FileServer(r, mediaPath, http.Dir(cfg.MediaRoot))

	return r, nil
}
