package asset

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

func (s *Service) List(ctx context.Context, publishedOnly bool) ([]*model.Asset, error) {
	assets, err := s.store.List(ctx, publishedOnly)
	if err != nil {
		return nil, classify(err, "Failed to fetch assets")
	}
	return assets, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Asset, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "Failed to fetch asset")
	}
	return a, nil
}

func (s *Service) GetPublished(ctx context.Context, slug string) (*model.Asset, error) {
	a, err := s.store.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, classify(err, "Failed to fetch asset")
	}
	return a, nil
}

// Create requires a title and a slug; everything else falls back to the
// column defaults of an unpublished game in development.
func (s *Service) Create(ctx context.Context, in *model.AssetInput) (*model.Asset, error) {
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
	a := &model.Asset{
		Type:        model.AssetGame,
		Status:      model.AssetInDevelopment,
		Screenshots: model.StringList{},
		Platforms:   model.StringList{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	in.Merge(a)

	if err := s.store.Create(ctx, a); err != nil {
		return nil, classify(err, "Failed to create asset")
	}

	logger.FromContext(ctx).Infow("asset created", "id", a.ID, "slug", a.Slug)

	return a, nil
}

func (s *Service) Update(ctx context.Context, id int64, in *model.AssetInput) (*model.Asset, error) {
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

	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "Failed to update asset")
	}

	in.Merge(a)
	a.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, a); err != nil {
		return nil, classify(err, "Failed to update asset")
	}

	logger.FromContext(ctx).Infow("asset updated", "id", id)

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return classify(err, "Failed to delete asset")
	}

	logger.FromContext(ctx).Infow("asset deleted", "id", id)

	return nil
}

func classify(err error, message string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Asset")
	case errors.Is(err, ErrDuplicateSlug):
		return apperr.Conflict("Asset with this slug already exists")
	case apperr.IsClassified(err):
		return err
	}

	return apperr.Database(message, err)
}
