package asset

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blich-studio/cms/internal/database/dbtest"
	"github.com/blich-studio/cms/internal/model"
)

func newAsset(slug string, published bool, created time.Time) *model.Asset {
	cover := "https://cdn.example.com/" + slug + ".png"
	return &model.Asset{
		Title:       "Title " + slug,
		Slug:        slug,
		Description: "About " + slug,
		CoverImage:  &cover,
		Screenshots: model.StringList{"https://cdn.example.com/1.png"},
		Type:        model.AssetGame,
		Status:      model.AssetDemo,
		Platforms:   model.StringList{"windows", "linux"},
		Links:       model.AssetLinks{Steam: "https://store.steampowered.com/app/1"},
		Published:   published,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.New(t))

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	release := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := newAsset("starfall", true, created)
	a.ReleaseDate = &release

	require.NoError(t, s.Create(ctx, a))
	require.NotZero(t, a.ID)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "starfall", got.Slug)
	assert.Equal(t, model.StringList{"windows", "linux"}, got.Platforms)
	assert.Equal(t, "https://store.steampowered.com/app/1", got.Links.Steam)
	assert.Equal(t, *a.CoverImage, *got.CoverImage)
	assert.Nil(t, got.TrailerURL)
	require.NotNil(t, got.ReleaseDate)
	assert.True(t, release.Equal(*got.ReleaseDate))
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, got.Published)

	got.Title = "Renamed"
	got.Published = false
	require.NoError(t, s.Update(ctx, got))

	_, err = s.GetPublishedBySlug(ctx, "starfall")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)
}

func TestStoreUniqueSlug(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.New(t))

	now := time.Now()
	require.NoError(t, s.Create(ctx, newAsset("dup", true, now)))
	assert.ErrorIs(t, s.Create(ctx, newAsset("dup", false, now)), ErrDuplicateSlug)
}

func TestStoreListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.New(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, newAsset("old", true, base)))
	require.NoError(t, s.Create(ctx, newAsset("hidden", false, base.Add(time.Hour))))
	require.NoError(t, s.Create(ctx, newAsset("new", true, base.Add(2*time.Hour))))

	published, err := s.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "new", published[0].Slug)
	assert.Equal(t, "old", published[1].Slug)

	all, err := s.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
