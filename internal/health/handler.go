package health

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/logger"
)

type DatabaseStatus struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
}

type Response struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Database  DatabaseStatus `json:"database"`
	Timestamp string         `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
}

// Handler reports database health: 200 when the ping succeeds, 503 otherwise.
func Handler(c *Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := Response{
			Success:   true,
			Message:   "Service is healthy",
			Database:  DatabaseStatus{Connected: true, Status: "healthy"},
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		if err := c.Check(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warnw("health check failed", "error", err)
			resp.Success = false
			resp.Message = "Database connection issues"
			resp.Database = DatabaseStatus{Connected: false, Status: "unhealthy"}
			resp.Error = err.Error()
			render.Status(r, http.StatusServiceUnavailable)
		}

		render.JSON(w, r, resp)
	}
}

// Require answers 503 for every request while the dependency is down. A
// handler that fails with a 5xx drops the cached result so the next request
// pings again.
func Require(c *Checker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := c.Check(r.Context()); err != nil {
				errresponse.Respond(w, r, apperr.Unavailable("Database connection failed", err))
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ww.Status() >= http.StatusInternalServerError {
				c.Invalidate()
			}
		})
	}
}
