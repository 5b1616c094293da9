package media

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/blich-studio/cms/internal/apperr"
	"github.com/blich-studio/cms/internal/errresponse"
	"github.com/blich-studio/cms/internal/model"
)

const maxMemory = 8 << 20

type FileResponse struct {
	*model.MediaFile
}

func (rd *FileResponse) Render(w http.ResponseWriter, r *http.Request) error {
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

// Routes serves /admin/media. Authentication is applied by the caller.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.ListFiles) // GET /admin/media?folder=games
	r.Post("/", a.UploadFile)
	r.Delete("/{mediaID}", a.DeleteFile)

	return r
}

func (a *API) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := a.svc.List(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	list := make([]render.Renderer, 0, len(files))
	for _, f := range files {
		list = append(list, &FileResponse{MediaFile: f})
	}
	if err := render.RenderList(w, r, list); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

// UploadFile accepts a multipart form with a "file" part and an optional
// "folder" field.
func (a *API) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errresponse.Respond(w, r, apperr.ValidationField("file", "File is too large"))
			return
		}
		errresponse.Respond(w, r, apperr.Validation("Expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		errresponse.Respond(w, r, apperr.ValidationField("file", "File is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	f, err := a.svc.Save(r.Context(), Upload{
		Folder:       r.FormValue("folder"),
		OriginalName: header.Filename,
		ContentType:  contentType,
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, &FileResponse{MediaFile: f}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}

func (a *API) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(chi.URLParam(r, "mediaID"), 10, 64)
	if err != nil || fileID <= 0 {
		errresponse.Respond(w, r, apperr.Validation("Invalid media ID format"))
		return
	}

	if err := a.svc.Delete(r.Context(), fileID); err != nil {
		errresponse.Respond(w, r, err)
		return
	}

	if err := render.Render(w, r, &MessageResponse{Message: "Media file deleted successfully"}); err != nil {
		errresponse.RespondRender(w, r, err)
	}
}
