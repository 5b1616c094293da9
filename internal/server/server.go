// Package server holds the HTTP plumbing every binary shares: the base
// middleware stack, the diagnostics router and the listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/telemetry"
)

const maxBodyBytes = 10 << 20

// NewRouter returns a chi router with the base middleware stack installed.
func NewRouter(cfg config.Server, log *zap.SugaredLogger) (chi.Router, error) {
	metrics, err := telemetry.NewHTTPMetrics(otel.Meter(cfg.OTel.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("create http metrics: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	limit := cfg.MaxBodyBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	r.Use(middleware.RequestSize(limit))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if err := render.Render(w, r, errresponse.ErrRouteNotFound(r)); err != nil {
			logger.FromContext(r.Context()).Errorw("render not found", "error", err)
		}
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if err := render.Render(w, r, errresponse.ErrRouteNotFound(r)); err != nil {
			logger.FromContext(r.Context()).Errorw("render not found", "error", err)
		}
	})

	errresponse.ExposeInternalErrors(cfg.IsDevelopment())

	return r, nil
}

// DiagRouter serves metrics and liveness on the diagnostics listener.
func DiagRouter(t *telemetry.Telemetry) chi.Router {
	r := chi.NewRouter()
	r.Get("/metrics", t.MetricsHandler().ServeHTTP)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	return r
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

// RoutesDoc renders the router as markdown for the -routes flag.
func RoutesDoc(r chi.Router, service string) string {
	return docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/blich-studio/cms",
		Intro:       "Generated route documentation for " + service + ".",
	})
}

// Run serves handler on cfg.Addr and the diagnostics router on
// cfg.DiagAddr until ctx is cancelled, then shuts both down within
// cfg.ShutdownTimeout.
func Run(ctx context.Context, cfg config.Server, handler, diag http.Handler, log *zap.SugaredLogger) error {
	if cfg.OTel.Enabled() {
		handler = otelhttp.NewHandler(handler, cfg.OTel.ServiceName)
	}

	servers := []*http.Server{
		{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second},
	}
	if cfg.DiagAddr != "" && diag != nil {
		servers = append(servers, &http.Server{Addr: cfg.DiagAddr, Handler: diag, ReadHeaderTimeout: 10 * time.Second})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		log.Infow("servers stopped")

		return errors.Join(errs...)
	})

	return g.Wait()
}
