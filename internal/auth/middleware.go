package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/logger"
)

type ctxKey int8

const ctxKeyClaims ctxKey = iota

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate rejects requests without a valid bearer token and puts the
// verified claims on the request context.
func Authenticate(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				errresponse.Respond(w, r, apperr.Unauthorized("Missing bearer token"))
				return
			}

			claims, err := tokens.Verify(r.Context(), raw)
			if err != nil {
				logger.FromContext(r.Context()).Debugw("token rejected", "error", err)
				errresponse.Respond(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("userId", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(*Claims)
	return c, ok
}
