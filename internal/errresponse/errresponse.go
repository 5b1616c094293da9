package errresponse

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/logger"
)

// ErrResponse renderer type for handling all sorts of errors.
//
// Err is never serialized; it is kept for logging. ID is the request id so
// that a client report can be matched with the server log line.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string              `json:"status"` // http status text, e.g. "Not Found"
	ErrorText  string              `json:"error"`
	Message    string              `json:"message"`
	ID         string              `json:"id"`
	Details    []apperr.FieldError `json:"details,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if e.StatusText == "" {
		e.StatusText = http.StatusText(e.HTTPStatusCode)
	}
	e.ID = middleware.GetReqID(r.Context())
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		ErrorText:      "Invalid request",
		Message:        err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		ErrorText:      "Error rendering response",
		Message:        err.Error(),
	}
}

// ErrRouteNotFound answers requests that matched no route.
func ErrRouteNotFound(r *http.Request) render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusNotFound,
		ErrorText:      "Not found",
		Message:        "Route " + r.Method + " " + r.URL.Path + " not found",
	}
}

// FromError classifies err through the apperr taxonomy. Unclassified errors
// become a 500 whose message is only exposed when expose is set.
func FromError(err error, expose bool) *ErrResponse {
	var (
		validation   *apperr.ValidationError
		notFound     *apperr.NotFoundError
		conflict     *apperr.ConflictError
		unauthorized *apperr.UnauthorizedError
		unavailable  *apperr.UnavailableError
		database     *apperr.DatabaseError
		upstream     *apperr.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			ErrorText:      "Validation failed",
			Message:        validation.Message,
			Details:        validation.Fields,
		}
	case errors.As(err, &notFound):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusNotFound,
			ErrorText:      "Not found",
			Message:        notFound.Error(),
		}
	case errors.As(err, &conflict):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusConflict,
			ErrorText:      "Resource already exists",
			Message:        conflict.Message,
		}
	case errors.As(err, &unauthorized):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusUnauthorized,
			ErrorText:      "Unauthorized",
			Message:        unauthorized.Message,
		}
	case errors.As(err, &unavailable):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusServiceUnavailable,
			ErrorText:      unavailable.Message,
			Message:        "Service temporarily unavailable",
		}
	case errors.As(err, &database):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusInternalServerError,
			ErrorText:      "Database operation failed",
			Message:        database.Message,
		}
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: status,
			ErrorText:      http.StatusText(status),
			Message:        upstream.Message,
		}
	}

	message := "Internal server error"
	if expose {
		message = err.Error()
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorText:      "Internal server error",
		Message:        message,
	}
}

// Respond renders err and logs it on the request logger. Server-side
// failures are logged at error level, client mistakes at debug.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	resp := FromError(err, exposeInternal)
	log := logger.FromContext(r.Context())
	if resp.HTTPStatusCode >= http.StatusInternalServerError {
		log.Errorw("request failed", "status", resp.HTTPStatusCode, "error", err)
	} else {
		log.Debugw("request rejected", "status", resp.HTTPStatusCode, "error", err)
	}

	if rerr := render.Render(w, r, resp); rerr != nil {
		log.Errorw("render error response", "error", rerr)
	}
}

// RespondBind answers a request body that render.Bind rejected. Bind hooks
// may return a classified error, which keeps its own status; anything else
// is a malformed body.
func RespondBind(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.IsClassified(err) {
		Respond(w, r, err)
		return
	}

	if rerr := render.Render(w, r, ErrInvalidRequest(err)); rerr != nil {
		logger.FromContext(r.Context()).Errorw("render error response", "error", rerr)
	}
}

// RespondRender answers a failed render of a success payload.
func RespondRender(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Errorw("render response", "error", err)

	if rerr := render.Render(w, r, ErrRender(err)); rerr != nil {
		logger.FromContext(r.Context()).Errorw("render error response", "error", rerr)
	}
}

var exposeInternal bool

// ExposeInternalErrors toggles whether unclassified error messages reach
// clients. Development builds turn it on.
func ExposeInternalErrors(on bool) {
	exposeInternal = on
}
