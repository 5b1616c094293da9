// Package studio keeps the single studio profile row.
package studio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/model"
)

var ErrNotFound = errors.New("studio not found")

type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Get returns the oldest studio row. There is normally exactly one.
func (s *Store) Get(ctx context.Context) (*model.Studio, error) {
	return get(ctx, s.db)
}

func get(ctx context.Context, q database.Querier) (*model.Studio, error) {
	var (
		st        model.Studio
		logo      sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := q.QueryRowContext(ctx, `SELECT id, name, description, logo, founded_year, team_members,
		social_links, created_at, updated_at
		FROM studio ORDER BY id LIMIT 1`,
	).Scan(&st.ID, &st.Name, &st.Description, &logo, &st.FoundedYear, &st.TeamMembers,
		&st.SocialLinks, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get studio: %w", err)
	}

	st.Logo = database.StringPtr(logo)
	st.CreatedAt = database.FromMillis(createdAt)
	st.UpdatedAt = database.FromMillis(updatedAt)
	if st.TeamMembers == nil {
		st.TeamMembers = model.TeamMembers{}
	}

	return &st, nil
}

// Upsert loads the studio row inside a transaction, lets apply change it and
// writes it back, inserting the row when none exists yet. An error from
// apply rolls back and is returned as is.
func (s *Store) Upsert(ctx context.Context, apply func(st *model.Studio, created bool) error) (*model.Studio, error) {
	var out *model.Studio

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		st, err := get(ctx, tx)
		created := false
		switch {
		case errors.Is(err, ErrNotFound):
			st = &model.Studio{TeamMembers: model.TeamMembers{}}
			created = true
		case err != nil:
			return err
		}

		if err := apply(st, created); err != nil {
			return err
		}

		if created {
			err = tx.QueryRowContext(ctx, `INSERT INTO studio
				(name, description, logo, founded_year, team_members, social_links, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				RETURNING id`,
				st.Name, st.Description, database.NullString(st.Logo), st.FoundedYear, st.TeamMembers,
				st.SocialLinks, database.ToMillis(st.CreatedAt), database.ToMillis(st.UpdatedAt),
			).Scan(&st.ID)
			if err != nil {
				return fmt.Errorf("insert studio: %w", err)
			}
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE studio SET
				name = ?, description = ?, logo = ?, founded_year = ?, team_members = ?,
				social_links = ?, updated_at = ?
				WHERE id = ?`,
				st.Name, st.Description, database.NullString(st.Logo), st.FoundedYear, st.TeamMembers,
				st.SocialLinks, database.ToMillis(st.UpdatedAt), st.ID,
			)
			if err != nil {
				return fmt.Errorf("update studio: %w", err)
			}
		}

		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
