package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/user"
	"github.com/blich-studio/cms/internal/userpayload"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func (m *MessageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// API serves /api/auth.
type API struct {
	users   *user.Store
	tokens  *Tokens
	revoked *RevocationStore
}

func NewAPI(users *user.Store, tokens *Tokens, revoked *RevocationStore) *API {
	return &API{users: users, tokens: tokens, revoked: revoked}
}

func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", a.Login)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(a.tokens))
		r.Post("/logout", a.Logout)
		r.Get("/me", a.Me)
	})

	return r
}

// Login exchanges email and password for a bearer token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	data := &userpayload.LoginRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	u, err := a.users.Authenticate(r.Context(), data.Email, data.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			logger.FromContext(r.Context()).Infow("login failed", "email", data.Email)
			errresponse.Respond(w, r, apperr.Unauthorized("Invalid credentials"))
			return
		}
		errresponse.Respond(w, r, apperr.Database("Failed to sign in", err))
		return
	}

	token, claims, err := a.tokens.Issue(u)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Infow("login", "userId", u.ID, "jti", claims.ID)

	if err := render.Render(w, r, userpayload.NewLoginResponse(token, u)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// Logout revokes the presented token until it expires.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	if err := a.revoked.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		errresponse.Respond(w, r, apperr.Database("Failed to sign out", err))
		return
	}

	logger.FromContext(r.Context()).Infow("logout", "jti", claims.ID)

	if err := render.Render(w, r, &MessageResponse{Message: "Logged out successfully"}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, err := claims.UserID()
	if err != nil {
		errresponse.Respond(w, r, apperr.Unauthorized("Invalid token"))
		return
	}

	u, err := a.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			errresponse.Respond(w, r, apperr.Unauthorized("User no longer exists"))
			return
		}
		errresponse.Respond(w, r, apperr.Database("Failed to fetch user", err))
		return
	}

	if err := render.Render(w, r, userpayload.NewUserPayloadResponse(u)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}
