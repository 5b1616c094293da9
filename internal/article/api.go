package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/articlerequest"
	"github.com/blich-studio/cms/internal/articleresponse"
	"github.com/blich-studio/cms/internal/errresponse"
)

// API exposes the article service over HTTP.
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{svc: svc}
}

// Routes mounts the RESTy routes for the "articles" resource.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListArticles)
	r.Post("/", a.CreateArticle)

	// GET /articles/by-slug/whats-up
	r.With(a.ArticleCtx).Get("/by-slug/{articleSlug}", a.GetArticle)

	r.Route("/{articleID}", func(r chi.Router) {
		r.Use(a.ArticleIDCtx)
		r.With(a.ArticleCtx).Get("/", a.GetArticle) // GET /articles/507f1f77bcf86cd799439011
		r.Put("/", a.UpdateArticle)
		r.Patch("/", a.UpdateArticle)
		r.Delete("/", a.DeleteArticle)
	})

	return r
}

func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	p, f, err := articlerequest.ParseList(r.URL.Query())
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	page, err := a.svc.List(r.Context(), p, f)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, articleresponse.NewListResponse(page)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// CreateArticle persists the posted Article and acknowledges it with the
// new id.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	id, err := a.svc.Create(r.Context(), data.ArticleInput)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, articleresponse.NewCreatedResponse(id)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// GetArticle returns the Article that ArticleCtx put on the context.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFromContext(r.Context())

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// UpdateArticle applies a partial update and returns the stored result.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleUpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	article, err := a.svc.Update(r.Context(), articleIDFromContext(r.Context()), data.ArticleUpdate)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// DeleteArticle removes an existing Article from the store.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Delete(r.Context(), articleIDFromContext(r.Context())); err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
