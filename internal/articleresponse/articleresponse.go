package articleresponse

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/model"
)

// ArticleResponse is the response payload for the Article data model.
//
// Render is called on the response before it is marshalled; it is the
// place to normalize fields for the wire.
type ArticleResponse struct {
	*model.Article
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Tags == nil {
		rd.Tags = []string{}
	}

	return nil
}

func NewArticleListResponse(articles []*model.Article) []render.Renderer {
	list := make([]render.Renderer, 0, len(articles))
	for _, article := range articles {
		list = append(list, NewArticleResponse(article))
	}

	return list
}

// ListResponse wraps one page of articles with its pagination block.
type ListResponse struct {
	Data       []render.Renderer `json:"data"`
	Pagination model.PageMeta    `json:"pagination"`
}

func NewListResponse(page *model.ArticlePage) *ListResponse {
	return &ListResponse{
		Data:       NewArticleListResponse(page.Articles),
		Pagination: page.Meta,
	}
}

func (lr *ListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for _, item := range lr.Data {
		if err := item.Render(w, r); err != nil {
			return err
		}
	}

	return nil
}

// CreatedResponse acknowledges a new article.
type CreatedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func NewCreatedResponse(id string) *CreatedResponse {
	return &CreatedResponse{ID: id, Message: "Article created successfully"}
}

func (c *CreatedResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)

	return nil
}
