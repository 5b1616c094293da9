package model

import "time"

type AssetType string

const (
	AssetAnimation AssetType = "animation"
	AssetGame      AssetType = "game"
	AssetTool      AssetType = "tool"
	AssetTabletop  AssetType = "tabletop"
	AssetArticle   AssetType = "article"
	AssetOther     AssetType = "other"
)

type AssetStatus string

const (
	AssetInDevelopment AssetStatus = "in-development"
	AssetDemo          AssetStatus = "demo"
	AssetEarlyAccess   AssetStatus = "early-access"
	AssetReleased      AssetStatus = "released"
)

// Asset is a studio production: a game, tool, animation and so on.
type Asset struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	CoverImage  *string     `json:"coverImage"`
	Screenshots StringList  `json:"screenshots"`
	TrailerURL  *string     `json:"trailerUrl"`
	Type        AssetType   `json:"type"`
	Status      AssetStatus `json:"status"`
	Platforms   StringList  `json:"platforms"`
	ReleaseDate *time.Time  `json:"releaseDate"`
	Links       AssetLinks  `json:"links"`
	Published   bool        `json:"published"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// AssetInput is used for both create and update. On update only the
// non-nil fields are merged into the stored row.
type AssetInput struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Slug        *string      `json:"slug" validate:"omitempty,min=1,max=255,slug"`
	Description *string      `json:"description"`
	CoverImage  *string      `json:"coverImage" validate:"omitempty,urlorempty"`
	Screenshots *[]string    `json:"screenshots" validate:"omitempty,dive,url"`
	TrailerURL  *string      `json:"trailerUrl" validate:"omitempty,urlorempty"`
	Type        *AssetType   `json:"type" validate:"omitempty,oneof=animation game tool tabletop article other"`
	Status      *AssetStatus `json:"status" validate:"omitempty,oneof=in-development demo early-access released"`
	Platforms   *[]string    `json:"platforms"`
	ReleaseDate *time.Time   `json:"releaseDate"`
	Links       *AssetLinks  `json:"links"`
	Published   *bool        `json:"published"`
}

// Merge applies the set fields of in onto a.
func (in AssetInput) Merge(a *Asset) {
	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Slug != nil {
		a.Slug = *in.Slug
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.CoverImage != nil {
		a.CoverImage = nullIfEmpty(*in.CoverImage)
	}
	if in.Screenshots != nil {
		a.Screenshots = append(StringList{}, (*in.Screenshots)...)
	}
	if in.TrailerURL != nil {
		a.TrailerURL = nullIfEmpty(*in.TrailerURL)
	}
	if in.Type != nil {
		a.Type = *in.Type
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.Platforms != nil {
		a.Platforms = append(StringList{}, (*in.Platforms)...)
	}
	if in.ReleaseDate != nil {
		t := in.ReleaseDate.UTC()
		a.ReleaseDate = &t
	}
	if in.Links != nil {
		a.Links = *in.Links
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
