package articlerequest

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/model"
)

// ArticleRequest is the request payload for creating an Article.
//
// ProtectedID shadows the "_id" key so a client cannot choose the
// identifier of a new document.
type ArticleRequest struct {
	*model.ArticleInput

	ProtectedID string `json:"_id,omitempty"`
}

func (a *ArticleRequest) Bind(r *http.Request) error {
	// a.ArticleInput is nil when the body carries none of its fields. Leave
	// the reporting of missing fields to validation.
	if a.ArticleInput == nil {
		a.ArticleInput = &model.ArticleInput{}
	}

	a.ProtectedID = ""
	a.Title = strings.TrimSpace(a.Title)
	a.Slug = strings.TrimSpace(a.Slug)
	a.Perex = strings.TrimSpace(a.Perex)
	a.AuthorID = strings.TrimSpace(a.AuthorID)

	return nil
}

// ArticleUpdateRequest is the request payload for a partial update.
type ArticleUpdateRequest struct {
	*model.ArticleUpdate

	ProtectedID string `json:"_id,omitempty"`
}

func (a *ArticleUpdateRequest) Bind(r *http.Request) error {
	if a.ArticleUpdate == nil || a.ArticleUpdate.Empty() {
		return apperr.Validation("No update data provided")
	}

	a.ProtectedID = ""
	trim(a.Title)
	trim(a.Slug)
	trim(a.Perex)
	trim(a.AuthorID)

	return nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

var sortable = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"slug":      true,
	"status":    true,
}

// ParseList reads pagination and filter parameters from a listing query.
func ParseList(q url.Values) (model.Pagination, model.ArticleFilter, error) {
	p := model.Pagination{
		Page:  model.DefaultPage,
		Limit: model.DefaultLimit,
		Sort:  "createdAt",
		Order: model.SortDesc,
	}
	var f model.ArticleFilter

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, f, apperr.ValidationField("page", "Page must be a positive integer")
		}
		p.Page = n
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > model.MaxLimit {
			return p, f, apperr.ValidationField("limit", "Limit must be between 1 and 100")
		}
		p.Limit = n
	}

	if v := q.Get("sort"); v != "" {
		if !sortable[v] {
			return p, f, apperr.ValidationField("sort", "Sort must be one of: createdAt, updatedAt, title, slug, status")
		}
		p.Sort = v
	}

	if v := q.Get("order"); v != "" {
		switch model.SortOrder(v) {
		case model.SortAsc, model.SortDesc:
			p.Order = model.SortOrder(v)
		default:
			return p, f, apperr.ValidationField("order", "Order must be one of: asc, desc")
		}
	}

	if v := q.Get("status"); v != "" {
		status := model.ArticleStatus(v)
		if !status.Valid() {
			return p, f, apperr.ValidationField("status", "Status must be one of: draft, published, archived")
		}
		f.Status = status
	}

	f.AuthorID = strings.TrimSpace(q.Get("authorId"))
	f.Search = strings.TrimSpace(q.Get("search"))

	for _, v := range q["tags"] {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	return p, f, nil
}
