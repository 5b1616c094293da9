package userpayload

import (
	"net/http"
	"strings"

	"github.com/blich-studio/cms/internal/user"
	"github.com/blich-studio/cms/internal/validate"
)

//--
// Request and Response payloads for the auth routes.
//--

// RoleAdmin is the only role cms-backend knows about.
const RoleAdmin = "admin"

type UserPayload struct {
	*user.User
	Role string `json:"role"`
}

func NewUserPayloadResponse(u *user.User) *UserPayload {
	return &UserPayload{User: u}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	u.Role = RoleAdmin

	return nil
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Bind on LoginRequest runs after the body is decoded.
func (l *LoginRequest) Bind(r *http.Request) error {
	l.Email = strings.TrimSpace(l.Email)

	return validate.Struct(l)
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserPayload `json:"user"`
}

func NewLoginResponse(token string, u *user.User) *LoginResponse {
	return &LoginResponse{Token: token, User: NewUserPayloadResponse(u)}
}

// Render on LoginResponse leaves the nested UserPayload to render, which
// walks Renderer fields on its own.
func (l *LoginResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
