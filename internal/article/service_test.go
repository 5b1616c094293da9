package article

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/model"
)

const authorID = "507f1f77bcf86cd799439011"

func newInput(slug string) *model.ArticleInput {
	return &model.ArticleInput{
		Title:    "Title " + slug,
		Slug:     slug,
		Perex:    "Perex",
		Content:  "Content",
		AuthorID: authorID,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc := NewService(NewMemStore())
	clock := time.UnixMilli(1_700_000_000_000)
	svc.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	return svc
}

func TestServiceCreateAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	id, err := svc.Create(ctx, newInput("first"))
	require.NoError(t, err)

	a, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleDraft, a.Status)
	assert.Equal(t, []string{}, a.Tags)
	assert.NotZero(t, a.CreatedAt)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService(t)

	in := newInput("x")
	in.Title = ""
	_, err := svc.Create(context.Background(), in)

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Title is required", verr.Message)

	in = newInput("x")
	in.AuthorID = "123"
	_, err = svc.Create(context.Background(), in)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Invalid MongoDB ObjectId", verr.Message)
}

func TestServiceCreateDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, newInput("dup"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newInput("dup"))
	var conflict *apperr.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 15; i++ {
		in := newInput(string(rune('a'+i)) + "-post")
		if i%3 == 0 {
			in.Status = model.ArticlePublished
			in.Tags = []string{"go"}
		}
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, model.Pagination{Page: 2, Limit: 5, Sort: "createdAt", Order: model.SortDesc}, model.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Articles, 5)
	assert.Equal(t, int64(15), page.Meta.Total)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.True(t, page.Meta.HasNext)
	assert.True(t, page.Meta.HasPrev)
	assert.Greater(t, page.Articles[0].CreatedAt, page.Articles[1].CreatedAt)

	page, err = svc.List(ctx, model.Pagination{Page: 1, Limit: 10, Sort: "createdAt", Order: model.SortDesc},
		model.ArticleFilter{Status: model.ArticlePublished})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Meta.Total)

	page, err = svc.List(ctx, model.Pagination{Page: 1, Limit: 10, Sort: "createdAt", Order: model.SortDesc},
		model.ArticleFilter{Tags: []string{"rust", "go"}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Meta.Total)

	page, err = svc.List(ctx, model.Pagination{Page: 1, Limit: 10, Sort: "slug", Order: model.SortAsc},
		model.ArticleFilter{Search: "TITLE B"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Meta.Total)
	assert.Equal(t, "b-post", page.Articles[0].Slug)
}

func TestServiceGet(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "not-an-id")
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Invalid article ID format", verr.Message)

	_, err = svc.Get(context.Background(), authorID)
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Article not found", nf.Error())
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	id, err := svc.Create(ctx, newInput("upd"))
	require.NoError(t, err)
	before, err := svc.Get(ctx, id)
	require.NoError(t, err)

	_, err = svc.Update(ctx, id, &model.ArticleUpdate{})
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "No update data provided", verr.Message)

	long := strings.Repeat("a", 31)
	_, err = svc.Update(ctx, id, &model.ArticleUpdate{Slug: &long})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Slug must be less than 30 characters", verr.Message)

	title := "Renamed"
	after, err := svc.Update(ctx, id, &model.ArticleUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", after.Title)
	assert.Equal(t, before.Slug, after.Slug)
	assert.Greater(t, after.UpdatedAt, before.UpdatedAt)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	_, err = svc.Update(ctx, authorID, &model.ArticleUpdate{Title: &title})
	var nf *apperr.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	id, err := svc.Create(ctx, newInput("del"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	var nf *apperr.NotFoundError
	assert.True(t, errors.As(svc.Delete(ctx, id), &nf))
}

type failingStore struct {
	MemStore
	err error
}

func (s *failingStore) List(context.Context, model.Pagination, model.ArticleFilter) ([]*model.Article, int64, error) {
	return nil, 0, s.err
}

func TestServiceWrapsStoreErrors(t *testing.T) {
	svc := NewService(&failingStore{err: errors.New("connection reset")})

	_, err := svc.List(context.Background(), model.Pagination{Page: 1, Limit: 10}, model.ArticleFilter{})

	var dberr *apperr.DatabaseError
	require.True(t, errors.As(err, &dberr))
	assert.Equal(t, "Failed to fetch articles", dberr.Message)
}
