package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/model"
)

var (
	ErrNotFound      = errors.New("asset not found")
	ErrDuplicateSlug = errors.New("asset slug already exists")
)

const columns = `id, title, slug, description, cover_image, screenshots, trailer_url, type, status,
	platforms, release_date, links, published, created_at, updated_at`

// Store persists assets in the "assets" table.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row scanner) (*model.Asset, error) {
	var (
		a           model.Asset
		cover       sql.NullString
		trailer     sql.NullString
		releaseDate sql.NullInt64
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Description, &cover, &a.Screenshots, &trailer,
		&a.Type, &a.Status, &a.Platforms, &releaseDate, &a.Links, &a.Published, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.CoverImage = database.StringPtr(cover)
	a.TrailerURL = database.StringPtr(trailer)
	a.ReleaseDate = database.TimePtr(releaseDate)
	a.CreatedAt = database.FromMillis(createdAt)
	a.UpdatedAt = database.FromMillis(updatedAt)
	if a.Screenshots == nil {
		a.Screenshots = model.StringList{}
	}
	if a.Platforms == nil {
		a.Platforms = model.StringList{}
	}

	return &a, nil
}

// List returns assets newest first, optionally only the published ones.
func (s *Store) List(ctx context.Context, publishedOnly bool) ([]*model.Asset, error) {
	query := `SELECT ` + columns + ` FROM assets`
	var args []any
	if publishedOnly {
		query += ` WHERE published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []*model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	return assets, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*model.Asset, error) {
	return s.one(ctx, `SELECT `+columns+` FROM assets WHERE id = ?`, id)
}

// GetPublishedBySlug only returns an asset whose published flag is set.
func (s *Store) GetPublishedBySlug(ctx context.Context, slug string) (*model.Asset, error) {
	return s.one(ctx, `SELECT `+columns+` FROM assets WHERE slug = ? AND published = ?`, slug, true)
}

func (s *Store) one(ctx context.Context, query string, args ...any) (*model.Asset, error) {
	a, err := scanAsset(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// Create inserts a and sets its ID.
func (s *Store) Create(ctx context.Context, a *model.Asset) error {
	err := s.db.QueryRowContext(ctx, `INSERT INTO assets
		(title, slug, description, cover_image, screenshots, trailer_url, type, status,
		 platforms, release_date, links, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		a.Title, a.Slug, a.Description, database.NullString(a.CoverImage), a.Screenshots,
		database.NullString(a.TrailerURL), string(a.Type), string(a.Status), a.Platforms,
		database.NullMillis(a.ReleaseDate), a.Links, a.Published,
		database.ToMillis(a.CreatedAt), database.ToMillis(a.UpdatedAt),
	).Scan(&a.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert asset: %w", err)
	}

	return nil
}

// Update writes every column of a.
func (s *Store) Update(ctx context.Context, a *model.Asset) error {
	res, err := s.db.ExecContext(ctx, `UPDATE assets SET
		title = ?, slug = ?, description = ?, cover_image = ?, screenshots = ?, trailer_url = ?,
		type = ?, status = ?, platforms = ?, release_date = ?, links = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Slug, a.Description, database.NullString(a.CoverImage), a.Screenshots,
		database.NullString(a.TrailerURL), string(a.Type), string(a.Status), a.Platforms,
		database.NullMillis(a.ReleaseDate), a.Links, a.Published, database.ToMillis(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update asset: %w", err)
	}

	return requireRow(res)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
