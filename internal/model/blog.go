package model

import "time"

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

type BlogPost struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	FeaturedImage *string    `json:"featuredImage"`
	Tags          StringList `json:"tags"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type BlogPostInput struct {
	Title         *string     `json:"title" validate:"omitempty,min=1,max=255"`
	Slug          *string     `json:"slug" validate:"omitempty,min=1,max=255,slug"`
	Content       *string     `json:"content"`
	Excerpt       *string     `json:"excerpt" validate:"omitempty,max=500"`
	FeaturedImage *string     `json:"featuredImage" validate:"omitempty,urlorempty"`
	Tags          *[]string   `json:"tags"`
	Status        *PostStatus `json:"status" validate:"omitempty,oneof=draft published"`
	PublishedAt   *time.Time  `json:"publishedAt"`
}

// Merge applies the set fields of in onto p. A post that ends up published
// without a publication time is stamped with now.
func (in BlogPostInput) Merge(p *BlogPost, now time.Time) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Excerpt != nil {
		p.Excerpt = nullIfEmpty(*in.Excerpt)
	}
	if in.FeaturedImage != nil {
		p.FeaturedImage = nullIfEmpty(*in.FeaturedImage)
	}
	if in.Tags != nil {
		p.Tags = append(StringList{}, (*in.Tags)...)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.PublishedAt != nil {
		t := in.PublishedAt.UTC()
		p.PublishedAt = &t
	}

	if p.Status == PostPublished && p.PublishedAt == nil {
		t := now.UTC()
		p.PublishedAt = &t
	}
}
