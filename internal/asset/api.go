package asset

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

// AssetRequest is the create and update payload. ProtectedID keeps a
// client from choosing the row id.
type AssetRequest struct {
	*model.AssetInput

	ProtectedID string `json:"id,omitempty"`
}

func (a *AssetRequest) Bind(r *http.Request) error {
	if a.AssetInput == nil {
		a.AssetInput = &model.AssetInput{}
	}
	a.ProtectedID = ""
	return nil
}

type AssetResponse struct {
	*model.Asset
}

func (rd *AssetResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newAssetList(assets []*model.Asset) []render.Renderer {
	list := make([]render.Renderer, 0, len(assets))
	for _, a := range assets {
		list = append(list, &AssetResponse{Asset: a})
	}
	return list
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

// PublicRoutes serves /games to the website.
func (a *API) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListPublished)
	r.Get("/{assetSlug}", a.GetPublished) // GET /games/starfall

	return r
}

// AdminRoutes serves /admin/games. Authentication is applied by the caller.
func (a *API) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListAssets)
	r.Post("/", a.CreateAsset)

	r.Route("/{assetID}", func(r chi.Router) {
		r.Use(AssetIDCtx)
		r.Get("/", a.GetAsset)
		r.Put("/", a.UpdateAsset)
		r.Patch("/", a.UpdateAsset)
		r.Delete("/", a.DeleteAsset)
	})

	return r
}

// ListPublished lists published assets unless ?published=false asks for
// all of them.
func (a *API) ListPublished(w http.ResponseWriter, r *http.Request) {
	publishedOnly := true
	if v := r.URL.Query().Get("published"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errresponse.Respond(w, r, apperr.ValidationField("published", "Published must be true or false"))
			return
		}
		publishedOnly = b
	}

	a.list(w, r, publishedOnly)
}

func (a *API) ListAssets(w http.ResponseWriter, r *http.Request) {
	a.list(w, r, false)
}

func (a *API) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	assets, err := a.svc.List(r.Context(), publishedOnly)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.RenderList(w, r, newAssetList(assets)); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) GetPublished(w http.ResponseWriter, r *http.Request) {
	asset, err := a.svc.GetPublished(r.Context(), chi.URLParam(r, "assetSlug"))
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &AssetResponse{Asset: asset}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := a.svc.Get(r.Context(), assetIDFromContext(r.Context()))
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &AssetResponse{Asset: asset}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) CreateAsset(w http.ResponseWriter, r *http.Request) {
	data := &AssetRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	asset, err := a.svc.Create(r.Context(), data.AssetInput)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, &AssetResponse{Asset: asset}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	data := &AssetRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	asset, err := a.svc.Update(r.Context(), assetIDFromContext(r.Context()), data.AssetInput)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &AssetResponse{Asset: asset}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Delete(r.Context(), assetIDFromContext(r.Context())); err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &MessageResponse{Message: "Asset deleted successfully"}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

type ctxKey int8

const ctxKeyAssetID ctxKey = iota

// AssetIDCtx parses the numeric {assetID} URL parameter.
func AssetIDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "assetID"), 10, 64)
		if err != nil || id <= 0 {
			errresponse.Respond(w, r, apperr.Validation("Invalid asset ID format"))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyAssetID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func assetIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyAssetID).(int64)
	return id
}
