package studio

import (
	"context"
	"errors"
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

func (s *Service) Get(ctx context.Context) (*model.Studio, error) {
	st, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Studio")
		}
		return nil, apperr.Database("Failed to fetch studio", err)
	}
	return st, nil
}

// Save merges in into the studio profile, creating it on first use. A new
// profile needs a name.
func (s *Service) Save(ctx context.Context, in *model.StudioInput) (*model.Studio, error) {
	if in == nil {
		return nil, apperr.Validation("No update data provided")
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	st, err := s.store.Upsert(ctx, func(st *model.Studio, created bool) error {
		in.Merge(st)
		st.UpdatedAt = now
		if created {
			st.CreatedAt = now
		}
		if st.Name == "" {
			return apperr.ValidationField("name", "Name is required")
		}
		return nil
	})
	if err != nil {
		if apperr.IsClassified(err) {
			return nil, err
		}
		return nil, apperr.Database("Failed to save studio", err)
	}

	logger.FromContext(ctx).Infow("studio saved", "id", st.ID)

	return st, nil
}
