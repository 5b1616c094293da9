package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/model"
)

type StudioRequest struct {
	*model.StudioInput

	ProtectedID string `json:"id,omitempty"`
}

func (s *StudioRequest) Bind(r *http.Request) error {
	if s.StudioInput == nil {
		s.StudioInput = &model.StudioInput{}
	}
	s.ProtectedID = ""
	return nil
}

type StudioResponse struct {
	*model.Studio
}

func (rd *StudioResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API {
	return &API{svc: svc}
}

func (a *API) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", a.GetStudio)
	return r
}

func (a *API) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", a.GetStudio)
	r.Put("/", a.SaveStudio)
	return r
}

func (a *API) GetStudio(w http.ResponseWriter, r *http.Request) {
	st, err := a.svc.Get(r.Context())
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &StudioResponse{Studio: st}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// SaveStudio merges the posted fields into the profile.
func (a *API) SaveStudio(w http.ResponseWriter, r *http.Request) {
	data := &StudioRequest{}
	if err := render.Bind(r, data); err != nil {
		errresponse.RespondBind(w, r, err)
		return
	}

	st, err := a.svc.Save(r.Context(), data.StudioInput)
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &StudioResponse{Studio: st}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}
