package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/model"
	"github.com/blich-studio/cms/internal/validate"
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Page is a page of published posts.
type Page struct {
	Meta  model.LucidMeta   `json:"meta"`
	Posts []*model.BlogPost `json:"data"`
}

func (s *Service) ListPublished(ctx context.Context, page, perPage int) (*Page, error) {
	posts, total, err := s.store.ListPublished(ctx, page, perPage)
	if err != nil {
		return nil, classify(err, "Failed to fetch blog posts")
	}

	logger.FromContext(ctx).Debugw("blog posts fetched", "count", len(posts), "page", page)

	return &Page{Meta: model.NewLucidMeta(page, perPage, total), Posts: posts}, nil
}

func (s *Service) List(ctx context.Context) ([]*model.BlogPost, error) {
	posts, err := s.store.List(ctx)
	if err != nil {
		return nil, classify(err, "Failed to fetch blog posts")
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.BlogPost, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "Failed to fetch blog post")
	}
	return p, nil
}

func (s *Service) GetPublished(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, err := s.store.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, classify(err, "Failed to fetch blog post")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in *model.BlogPostInput) (*model.BlogPost, error) {
	if in == nil || in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.ValidationField("title", "Title is required")
	}
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
		return nil, apperr.ValidationField("slug", "Slug is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &model.BlogPost{
		Status:    model.PostDraft,
		Tags:      model.StringList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Merge(p, now)

	if err := s.store.Create(ctx, p); err != nil {
		return nil, classify(err, "Failed to create blog post")
	}

	logger.FromContext(ctx).Infow("blog post created", "id", p.ID, "slug", p.Slug, "status", p.Status)

	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in *model.BlogPostInput) (*model.BlogPost, error) {
	if in == nil {
		return nil, apperr.Validation("No update data provided")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.ValidationField("title", "Title is required")
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) == "" {
		return nil, apperr.ValidationField("slug", "Slug is required")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "Failed to update blog post")
	}

	now := s.now().UTC()
	in.Merge(p, now)
	p.UpdatedAt = now

	if err := s.store.Update(ctx, p); err != nil {
		return nil, classify(err, "Failed to update blog post")
	}

	logger.FromContext(ctx).Infow("blog post updated", "id", id, "status", p.Status)

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return classify(err, "Failed to delete blog post")
	}

	logger.FromContext(ctx).Infow("blog post deleted", "id", id)

	return nil
}

func classify(err error, message string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Blog post")
	case errors.Is(err, ErrDuplicateSlug):
		return apperr.Conflict("Blog post with this slug already exists")
	case apperr.IsClassified(err):
		return err
	}

	return apperr.Database(message, err)
}
