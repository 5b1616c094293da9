package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/model"
)

var ErrNotFound = errors.New("media file not found")

const columns = `id, folder, original_name, stored_name, content_type, size, url, created_at`

type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*model.MediaFile, error) {
	var (
		f         model.MediaFile
		createdAt int64
	)
	if err := row.Scan(&f.ID, &f.Folder, &f.OriginalName, &f.StoredName, &f.ContentType,
		&f.Size, &f.URL, &createdAt); err != nil {
		return nil, err
	}
	f.CreatedAt = database.FromMillis(createdAt)
	return &f, nil
}

// Create inserts f. The id is assigned by the caller.
func (s *Store) Create(ctx context.Context, f *model.MediaFile) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO media (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Folder, f.OriginalName, f.StoredName, f.ContentType, f.Size, f.URL,
		database.ToMillis(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

// List returns files newest first, optionally within one folder.
func (s *Store) List(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	query := `SELECT ` + columns + ` FROM media`
	var args []any
	if folder != "" {
		query += ` WHERE folder = ?`
		args = append(args, folder)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rows.Close()

	files := []*model.MediaFile{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}

	return files, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*model.MediaFile, error) {
	f, err := scanFile(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM media WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
