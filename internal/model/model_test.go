package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListColumn(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["PC","Switch"]`)))
	assert.Equal(t, StringList{"PC", "Switch"}, l)

	require.NoError(t, l.Scan(`["Mac"]`))
	assert.Equal(t, StringList{"Mac"}, l)

	assert.Error(t, l.Scan(42))

	b, err := json.Marshal(struct{ L StringList }{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"L":[]}`, string(b))
}

func TestLinksColumn(t *testing.T) {
	in := AssetLinks{Steam: "https://store.steampowered.com/app/1"}
	v, err := in.Value()
	require.NoError(t, err)

	var out AssetLinks
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestAssetInputMerge(t *testing.T) {
	a := &Asset{Title: "Old", Slug: "old", Published: true}
	title := "New"
	cover := ""
	published := false

	AssetInput{Title: &title, CoverImage: &cover, Published: &published}.Merge(a)

	assert.Equal(t, "New", a.Title)
	assert.Equal(t, "old", a.Slug)
	assert.Nil(t, a.CoverImage)
	assert.False(t, a.Published)
}

func TestBlogPostInputMergeStampsPublishedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := PostPublished

	p := &BlogPost{Status: PostDraft}
	BlogPostInput{Status: &status}.Merge(p, now)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, now, *p.PublishedAt)

	earlier := now.Add(-time.Hour)
	p = &BlogPost{Status: PostPublished, PublishedAt: &earlier}
	BlogPostInput{}.Merge(p, now)
	assert.Equal(t, earlier, *p.PublishedAt)
}
