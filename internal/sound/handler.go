// AngelaMos | 2026
// handler.go

package sound

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/middleware"
)

const multipartMemory = 8 << 20

type Handler struct {
	service       *Service
	validator     *validator.Validate
	maxUploadSize int64
}

func NewHandler(service *Service, maxUploadSize int64) *Handler {
	return &Handler{
		service:       service,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sounds", h.Search)
	r.Get("/sounds/{soundID}", h.Get)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/sounds", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/", h.Upload)
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	sounds, err := h.service.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			core.BadRequest(w, "search query must be valid UTF-8")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSoundResponseList(sounds))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snd, err := h.service.Get(r.Context(), chi.URLParam(r, "soundID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "sound")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSoundResponse(snd))
}

// Upload accepts a multipart form with a "file" part and the sound
// metadata fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.BadRequest(w, "file exceeds maximum upload size")
			return
		}
		core.BadRequest(w, "invalid multipart form")
		return
	}

	req, err := parseUploadForm(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	snd, err := h.service.Upload(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
		UploadFile{Name: header.Filename, Size: header.Size, Body: file},
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrTagsTooLong):
			core.BadRequest(w, fmt.Sprintf("tags exceed %d characters", MaxTagsLength))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "file type not allowed")
		case errors.Is(err, core.ErrStorage):
			core.JSONError(w, core.StorageError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.CreatedMessage(w, ToSoundResponse(snd), "Sound uploaded successfully.")
}

func parseUploadForm(r *http.Request) (UploadSoundRequest, error) {
	req := UploadSoundRequest{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Tags:     r.FormValue("tags"),
		Bitrate:  r.FormValue("bitrate"),
		Quality:  r.FormValue("quality"),
	}

	if v := strings.TrimSpace(r.FormValue("duration")); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, errors.New("duration must be a number")
		}
		req.Duration = d
	}

	if v := strings.TrimSpace(r.FormValue("exclusive")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("exclusive must be true or false")
		}
		req.Exclusive = b
	}

	return req, nil
}
