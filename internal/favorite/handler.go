// AngelaMos | 2026
// handler.go

package favorite

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/middleware"
	"github.com/carterperez-dev/soundvault/internal/sound"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/favorites", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/{soundID}", h.Toggle)
	})
}

type ToggleResponse struct {
	SoundID string  `json:"sound_id"`
	Outcome Outcome `json:"outcome"`
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	soundID := chi.URLParam(r, "soundID")

	outcome, err := h.service.Toggle(r.Context(), middleware.GetUserID(r.Context()), soundID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "sound")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	message := "Added to favorites."
	if outcome == OutcomeRemoved {
		message = "Removed from favorites."
	}

	core.OKMessage(w, ToggleResponse{SoundID: soundID, Outcome: outcome}, message)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sounds, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, sound.ToSoundResponseList(sounds))
}
