package blog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/model"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type PostRequest struct {
	*model.BlogPostInput

	ProtectedID string `json:"id,omitempty"`
}

func (p *PostRequest) Bind(r *http.Request) error {
	if p.BlogPostInput == nil {
		p.BlogPostInput = &model.BlogPostInput{}
	}
	p.ProtectedID = ""
	return nil
}

type PostResponse struct {
	*model.BlogPost
}

func (rd *PostResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// PageResponse is {"meta":{...},"data":[...]}.
type PageResponse struct {
	*Page
}

func (rd *PageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Posts == nil {
		rd.Posts = []*model.BlogPost{}
	}
	return nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (m *MessageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{svc: svc}
}

// PublicRoutes serves /blog to the website.
func (a *API) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListPublished) // GET /blog?page=2&limit=5
	r.Get("/{postSlug}", a.GetPublished)

	return r
}

// AdminRoutes serves /admin/blog. Authentication is applied by the caller.
func (a *API) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListPosts)
	r.Post("/", a.CreatePost)

	r.Route("/{postID}", func(r chi.Router) {
		r.Use(PostIDCtx)
		r.Get("/", a.GetPost)
		r.Put("/", a.UpdatePost)
		r.Patch("/", a.UpdatePost)
		r.Delete("/", a.DeletePost)
	})

	return r
}

// ParsePage reads page and limit, defaulting to the first page of ten.
func ParsePage(r *http.Request) (page, perPage int, err error) {
	page, perPage = 1, defaultPerPage

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, apperr.ValidationField("page", "Page must be a positive integer")
		}
	}
	if v := q.Get("limit"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > maxPerPage {
			return 0, 0, apperr.ValidationField("limit", "Limit must be between 1 and 100")
		}
	}

	return page, perPage, nil
}

func (a *API) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := ParsePage(r)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	p, err := a.svc.ListPublished(r.Context(), page, perPage)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &PageResponse{Page: p}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) GetPublished(w http.ResponseWriter, r *http.Request) {
	post, err := a.svc.GetPublished(r.Context(), chi.URLParam(r, "postSlug"))
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &PostResponse{BlogPost: post}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.svc.List(r.Context())
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	list := make([]render.Renderer, 0, len(posts))
	for _, p := range posts {
		list = append(list, &PostResponse{BlogPost: p})
	}
	if err := render.RenderList(w, r, list); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.svc.Get(r.Context(), postIDFromContext(r.Context()))
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &PostResponse{BlogPost: post}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	data := &PostRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	post, err := a.svc.Create(r.Context(), data.BlogPostInput)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, &PostResponse{BlogPost: post}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	data := &PostRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	post, err := a.svc.Update(r.Context(), postIDFromContext(r.Context()), data.BlogPostInput)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &PostResponse{BlogPost: post}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Delete(r.Context(), postIDFromContext(r.Context())); err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &MessageResponse{Message: "Blog post deleted successfully."}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

type ctxKey int8

const ctxKeyPostID ctxKey = iota

func PostIDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
		if err != nil || id <= 0 {
			errresponse.Respond(w, r, apperr.Validation("Invalid blog post ID format"))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyPostID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func postIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyPostID).(int64)
	return id
}
