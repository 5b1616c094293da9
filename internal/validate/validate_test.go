package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blich-studio/cms/internal/apperr"
)

type sample struct {
	Title    string  `json:"title" validate:"required,max=200"`
	Slug     string  `json:"slug" validate:"required,slug,max=30"`
	AuthorID string  `json:"authorId" validate:"required,objectid"`
	Status   string  `json:"status" validate:"omitempty,oneof=draft published"`
	Perex    *string `json:"perex" validate:"omitempty,min=1,max=200"`
}

func ptr(s string) *string { return &s }

func TestStruct(t *testing.T) {
	valid := sample{Title: "Hello", Slug: "hello-world", AuthorID: "507f1f77bcf86cd799439011"}

	tests := []struct {
		name    string
		mutate  func(*sample)
		field   string
		message string
	}{
		{"missing title", func(s *sample) { s.Title = "" }, "title", "Title is required"},
		{"long title", func(s *sample) { s.Title = strings.Repeat("a", 201) }, "title", "Title must be less than 200 characters"},
		{"bad slug", func(s *sample) { s.Slug = "Hello World" }, "slug", "Slug may only contain lowercase letters, digits and dashes"},
		{"bad author", func(s *sample) { s.AuthorID = "nope" }, "authorId", "Invalid MongoDB ObjectId"},
		{"bad status", func(s *sample) { s.Status = "gone" }, "status", "Status must be one of: draft, published"},
		{"empty optional perex", func(s *sample) { s.Perex = ptr("") }, "perex", "Perex is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := Struct(s)
			require.Error(t, err)

			var verr *apperr.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	require.NoError(t, Struct(valid))
}

func TestStructCollectsAllFields(t *testing.T) {
	err := Struct(sample{})

	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, "Title is required", verr.Message)
}

func TestIsObjectID(t *testing.T) {
	assert.True(t, IsObjectID("507f1f77bcf86cd799439011"))
	assert.True(t, IsObjectID("507F1F77BCF86CD799439011"))
	assert.False(t, IsObjectID("507f1f77bcf86cd79943901"))
	assert.False(t, IsObjectID("zzzf1f77bcf86cd799439011"))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Cover image", humanize("coverImage"))
	assert.Equal(t, "Title", humanize("title"))
}

func TestURLOrEmpty(t *testing.T) {
	type link struct {
		Cover *string `json:"coverImage" validate:"omitempty,urlorempty"`
	}

	require.NoError(t, Struct(link{}))
	require.NoError(t, Struct(link{Cover: ptr("")}))
	require.NoError(t, Struct(link{Cover: ptr("https://cdn.example.com/a.png")}))

	var verr *apperr.ValidationError
	require.True(t, errors.As(Struct(link{Cover: ptr("not a url")}), &verr))
	assert.Equal(t, "Cover image must be a valid URL", verr.Message)
}
