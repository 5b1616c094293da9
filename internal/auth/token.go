// Package auth issues and verifies the HS256 bearer tokens of the admin
// API. cms-backend issues them; the gateway only verifies.
package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/config"
	"github.com/blich-studio/cms/internal/user"
)

// Claims carried by every token. Subject is the decimal user id.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Revoker reports whether a token id has been revoked.
type Revoker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Tokens struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked Revoker
	now     func() time.Time
}

// NewTokens builds an issuer and verifier from cfg. revoked may be nil
// when the caller has no revocation list.
func NewTokens(cfg config.JWT, revoked Revoker) *Tokens {
	return &Tokens{
		secret:  []byte(cfg.Secret),
		issuer:  cfg.Issuer,
		ttl:     cfg.TTL,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue signs a token for u that expires after the configured TTL.
func (t *Tokens) Issue(u *user.User) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Email:    u.Email,
		Username: u.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}

	return signed, claims, nil
}

// Verify parses raw and checks signature, algorithm, expiry, issuer and
// revocation.
func (t *Tokens) Verify(ctx context.Context, raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperr.Unauthorized("Missing bearer token")
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, apperr.Unauthorized("Invalid token")
	}

	if t.revoked != nil {
		revoked, err := t.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperr.Database("Failed to check token", err)
		}
		if revoked {
			return nil, apperr.Unauthorized("Token has been revoked")
		}
	}

	return claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperr.Unauthorized("Invalid token signature")
	}
	return apperr.Unauthorized("Invalid token")
}
