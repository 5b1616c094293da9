package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/model"
)

var (
	ErrNotFound      = errors.New("blog post not found")
	ErrDuplicateSlug = errors.New("blog post slug already exists")
)

const columns = `id, title, slug, content, excerpt, featured_image, tags, status, published_at, created_at, updated_at`

// Store persists posts in the "blog_posts" table.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*model.BlogPost, error) {
	var (
		p           model.BlogPost
		excerpt     sql.NullString
		image       sql.NullString
		publishedAt sql.NullInt64
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &excerpt, &image, &p.Tags,
		&p.Status, &publishedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.Excerpt = database.StringPtr(excerpt)
	p.FeaturedImage = database.StringPtr(image)
	p.PublishedAt = database.TimePtr(publishedAt)
	p.CreatedAt = database.FromMillis(createdAt)
	p.UpdatedAt = database.FromMillis(updatedAt)
	if p.Tags == nil {
		p.Tags = model.StringList{}
	}

	return &p, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*model.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blog posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blog posts: %w", err)
	}

	return posts, nil
}

// ListPublished returns one page of published posts, latest publication
// first, and the number of published posts overall.
func (s *Store) ListPublished(ctx context.Context, page, perPage int) ([]*model.BlogPost, int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts WHERE status = ?`,
		string(model.PostPublished)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count blog posts: %w", err)
	}

	posts, err := s.query(ctx, `SELECT `+columns+` FROM blog_posts
		WHERE status = ?
		ORDER BY published_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		string(model.PostPublished), perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// List returns every post, newest first.
func (s *Store) List(ctx context.Context) ([]*model.BlogPost, error) {
	return s.query(ctx, `SELECT `+columns+` FROM blog_posts ORDER BY created_at DESC, id DESC`)
}

func (s *Store) Get(ctx context.Context, id int64) (*model.BlogPost, error) {
	return s.one(ctx, `SELECT `+columns+` FROM blog_posts WHERE id = ?`, id)
}

func (s *Store) GetPublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	return s.one(ctx, `SELECT `+columns+` FROM blog_posts WHERE slug = ? AND status = ?`,
		slug, string(model.PostPublished))
}

func (s *Store) one(ctx context.Context, query string, args ...any) (*model.BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p *model.BlogPost) error {
	err := s.db.QueryRowContext(ctx, `INSERT INTO blog_posts
		(title, slug, content, excerpt, featured_image, tags, status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		p.Title, p.Slug, p.Content, database.NullString(p.Excerpt), database.NullString(p.FeaturedImage),
		p.Tags, string(p.Status), database.NullMillis(p.PublishedAt),
		database.ToMillis(p.CreatedAt), database.ToMillis(p.UpdatedAt),
	).Scan(&p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert blog post: %w", err)
	}

	return nil
}

func (s *Store) Update(ctx context.Context, p *model.BlogPost) error {
	res, err := s.db.ExecContext(ctx, `UPDATE blog_posts SET
		title = ?, slug = ?, content = ?, excerpt = ?, featured_image = ?, tags = ?,
		status = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Slug, p.Content, database.NullString(p.Excerpt), database.NullString(p.FeaturedImage),
		p.Tags, string(p.Status), database.NullMillis(p.PublishedAt), database.ToMillis(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update blog post: %w", err)
	}

	return requireRow(res)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
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
