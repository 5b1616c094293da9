package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/blich-studio/cms/internal/database"
)

// RevocationStore keeps revoked token ids until the token would have
// expired anyway.
type RevocationStore struct {
	db  database.Querier
	now func() time.Time
}

func NewRevocationStore(db database.Querier) *RevocationStore {
	return &RevocationStore{db: db, now: time.Now}
}

// Revoke records jti. Revoking twice is not an error.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?`, jti).Scan(&n); err != nil {
		return fmt.Errorf("check revoked token: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, database.ToMillis(expiresAt))
	if err != nil && !database.IsUniqueViolation(err) {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE jti = ? AND expires_at > ?`,
		jti, database.ToMillis(s.now())).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

// Purge drops entries whose tokens have expired.
func (s *RevocationStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= ?`, database.ToMillis(s.now()))
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return res.RowsAffected()
}
