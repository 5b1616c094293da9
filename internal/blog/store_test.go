package blog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blich-studio/cms/internal/database/dbtest"
	"github.com/blich-studio/cms/internal/model"
)

func newPost(slug string, status model.PostStatus, publishedAt *time.Time) *model.BlogPost {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &model.BlogPost{
		Title:       "Post " + slug,
		Slug:        slug,
		Content:     "Body",
		Tags:        model.StringList{"devlog"},
		Status:      status,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestStoreListPublished(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.New(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, s.Create(ctx, newPost(fmt.Sprintf("post-%d", i), model.PostPublished, &at)))
	}
	require.NoError(t, s.Create(ctx, newPost("draft", model.PostDraft, nil)))

	posts, total, err := s.ListPublished(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "post-4", posts[0].Slug)
	assert.Equal(t, "post-3", posts[1].Slug)

	posts, _, err = s.ListPublished(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-0", posts[0].Slug)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	_, err = s.GetPublishedBySlug(ctx, "draft")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRoundTripAndUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.New(t))

	excerpt := "Short"
	p := newPost("hello", model.PostDraft, nil)
	p.Excerpt = &excerpt
	require.NoError(t, s.Create(ctx, p))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Short", *got.Excerpt)
	assert.Nil(t, got.FeaturedImage)
	assert.Nil(t, got.PublishedAt)
	assert.Equal(t, model.StringList{"devlog"}, got.Tags)

	assert.ErrorIs(t, s.Create(ctx, newPost("hello", model.PostDraft, nil)), ErrDuplicateSlug)

	require.NoError(t, s.Delete(ctx, p.ID))
	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
