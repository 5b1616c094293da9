// Package user stores the administrators that sign in to cms-backend.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blich-studio/cms/internal/database"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("user email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User data model. PasswordHash never leaves the process.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store struct {
	db   database.Querier
	cost int
	now  func() time.Time
}

func NewStore(db database.Querier) *Store {
	return &Store{db: db, cost: bcrypt.DefaultCost, now: time.Now}
}

// dummyHash is compared against when the email is unknown so that a miss
// costs as much as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes password and inserts a new user.
func (s *Store) Create(ctx context.Context, email, fullName, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        normalizeEmail(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	err = s.db.QueryRowContext(ctx, `INSERT INTO users (email, full_name, password_hash, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`,
		u.Email, u.FullName, u.PasswordHash, database.ToMillis(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*User, error) {
	return s.one(ctx, `SELECT id, email, full_name, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.one(ctx, `SELECT id, email, full_name, password_hash, created_at FROM users WHERE email = ?`,
		normalizeEmail(email))
}

func (s *Store) one(ctx context.Context, query string, args ...any) (*User, error) {
	var (
		u         User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = database.FromMillis(createdAt)

	return &u, nil
}

// Authenticate returns the user when password matches. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
