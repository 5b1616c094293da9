package model

import "time"

type Studio struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Logo        *string     `json:"logo"`
	FoundedYear int         `json:"foundedYear"`
	TeamMembers TeamMembers `json:"teamMembers"`
	SocialLinks SocialLinks `json:"socialLinks"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// StudioInput doubles as the seed file format of cmsctl.
type StudioInput struct {
	Name        *string       `json:"name" yaml:"name" validate:"omitempty,min=1,max=255"`
	Description *string       `json:"description" yaml:"description"`
	Logo        *string       `json:"logo" yaml:"logo" validate:"omitempty,urlorempty"`
	FoundedYear *int          `json:"foundedYear" yaml:"foundedYear" validate:"omitempty,gte=1900,lte=2100"`
	TeamMembers *[]TeamMember `json:"teamMembers" yaml:"teamMembers" validate:"omitempty,dive"`
	SocialLinks *SocialLinks  `json:"socialLinks" yaml:"socialLinks"`
}

func (in StudioInput) Merge(s *Studio) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Logo != nil {
		s.Logo = nullIfEmpty(*in.Logo)
	}
	if in.FoundedYear != nil {
		s.FoundedYear = *in.FoundedYear
	}
	if in.TeamMembers != nil {
		s.TeamMembers = append(TeamMembers{}, (*in.TeamMembers)...)
	}
	if in.SocialLinks != nil {
		s.SocialLinks = *in.SocialLinks
	}
}
