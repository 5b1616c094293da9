package article

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/logger"
	"github.com/blich-studio/cms/internal/model"
	"github.com/blich-studio/cms/internal/validate"
)

// Service validates article input and classifies store failures.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ParseID rejects anything that is not a 24 character hex ObjectId.
func ParseID(id string) (bson.ObjectID, error) {
	if !validate.IsObjectID(id) {
		return bson.ObjectID{}, apperr.Validation("Invalid article ID format")
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, apperr.Validation("Invalid article ID format")
	}

	return oid, nil
}

func (s *Service) Create(ctx context.Context, in *model.ArticleInput) (string, error) {
	log := logger.FromContext(ctx)

	if err := validate.Struct(in); err != nil {
		log.Debugw("article validation failed", "error", err)
		return "", err
	}

	now := s.now().UnixMilli()
	a := &model.Article{
		Title:     in.Title,
		Slug:      in.Slug,
		Perex:     in.Perex,
		Content:   in.Content,
		AuthorID:  in.AuthorID,
		Status:    in.Status,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if a.Status == "" {
		a.Status = model.ArticleDraft
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}

	id, err := s.store.Create(ctx, a)
	if err != nil {
		return "", classify(err, "Failed to create article")
	}

	log.Infow("article created", "id", id.Hex())

	return id.Hex(), nil
}

func (s *Service) List(ctx context.Context, p model.Pagination, f model.ArticleFilter) (*model.ArticlePage, error) {
	articles, total, err := s.store.List(ctx, p, f)
	if err != nil {
		return nil, classify(err, "Failed to fetch articles")
	}

	page := &model.ArticlePage{
		Articles: articles,
		Meta:     model.NewPageMeta(p, total),
	}
	logger.FromContext(ctx).Debugw("articles fetched",
		"count", len(articles),
		"page", p.Page,
		"totalPages", page.Meta.TotalPages,
	)

	return page, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Article, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	a, err := s.store.Get(ctx, oid)
	if err != nil {
		return nil, classify(err, "Failed to fetch article")
	}

	return a, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	a, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, classify(err, "Failed to fetch article")
	}

	return a, nil
}

func (s *Service) Update(ctx context.Context, id string, u *model.ArticleUpdate) (*model.Article, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Empty() {
		return nil, apperr.Validation("No update data provided")
	}
	if err := validate.Struct(u); err != nil {
		return nil, err
	}

	a, err := s.store.Update(ctx, oid, *u, s.now().UnixMilli())
	if err != nil {
		return nil, classify(err, "Failed to update article")
	}

	logger.FromContext(ctx).Infow("article updated", "id", id)

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, oid); err != nil {
		return classify(err, "Failed to delete article")
	}

	logger.FromContext(ctx).Infow("article deleted", "id", id)

	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func classify(err error, message string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Article")
	case errors.Is(err, ErrDuplicateSlug):
		return apperr.Conflict("Article with this slug already exists")
	case apperr.IsClassified(err):
		return err
	}

	return apperr.Database(message, err)
}
