// AngelaMos | 2026
// handler.go

package download

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/middleware"
)

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/sounds/{soundID}/download", h.Download)
		r.Get("/downloads/quota", h.Quota)
	})
}

// Download redirects to the file on success. Quota denial is a 429 with
// Retry-After pointing at the next calendar midnight.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	result, err := h.service.AttemptDownload(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "soundID"),
		now,
	)
	if err != nil {
		var quotaErr *QuotaError
		switch {
		case errors.As(err, &quotaErr):
			retry := int(quotaErr.Quota.ResetsAt.Sub(now).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			core.JSONErrorWithData(w, core.QuotaExceededError(
				"You have reached your daily download limit.",
			), quotaErr.Quota)
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "sound")
		case errors.Is(err, core.ErrStorage):
			core.JSONError(w, core.StorageError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	w.Header().Set("X-Downloads-Remaining", strconv.Itoa(result.Quota.Remaining))
	http.Redirect(w, r, result.URL, http.StatusFound)
}

func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	quota, err := h.service.GetQuota(r.Context(), middleware.GetUserID(r.Context()), h.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, quota)
}
