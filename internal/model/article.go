package model

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
	ArticleArchived  ArticleStatus = "archived"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleDraft, ArticlePublished, ArticleArchived:
		return true
	}
	return false
}

// Article data model. Timestamps are unix milliseconds.
type Article struct {
	ID        bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title     string        `json:"title" bson:"title"`
	Slug      string        `json:"slug" bson:"slug"`
	Perex     string        `json:"perex" bson:"perex"`
	Content   string        `json:"content" bson:"content"`
	AuthorID  string        `json:"authorId" bson:"authorId"`
	Status    ArticleStatus `json:"status" bson:"status"`
	Tags      []string      `json:"tags" bson:"tags"`
	CreatedAt int64         `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64         `json:"updatedAt" bson:"updatedAt"`
}

// ArticleInput is the accepted shape of a new article.
type ArticleInput struct {
	Title    string        `json:"title" validate:"required,max=200"`
	Slug     string        `json:"slug" validate:"required,max=30"`
	Perex    string        `json:"perex" validate:"required,max=200"`
	Content  string        `json:"content" validate:"required"`
	AuthorID string        `json:"authorId" validate:"required,objectid"`
	Status   ArticleStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
	Tags     []string      `json:"tags"`
}

// ArticleUpdate carries the fields of a partial update. Nil means "leave
// unchanged".
type ArticleUpdate struct {
	Title    *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Slug     *string        `json:"slug" validate:"omitempty,min=1,max=30"`
	Perex    *string        `json:"perex" validate:"omitempty,min=1,max=200"`
	Content  *string        `json:"content" validate:"omitempty,min=1"`
	AuthorID *string        `json:"authorId" validate:"omitempty,objectid"`
	Status   *ArticleStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
	Tags     *[]string      `json:"tags"`
}

func (u ArticleUpdate) Empty() bool {
	return u.Title == nil && u.Slug == nil && u.Perex == nil && u.Content == nil &&
		u.AuthorID == nil && u.Status == nil && u.Tags == nil
}

// Apply copies the set fields onto a.
func (u ArticleUpdate) Apply(a *Article) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Slug != nil {
		a.Slug = *u.Slug
	}
	if u.Perex != nil {
		a.Perex = *u.Perex
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.AuthorID != nil {
		a.AuthorID = *u.AuthorID
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Tags != nil {
		a.Tags = append([]string{}, (*u.Tags)...)
	}
}

// ArticleFilter narrows an article listing. Zero values do not filter.
type ArticleFilter struct {
	Status   ArticleStatus
	AuthorID string
	Tags     []string
	Search   string
}
