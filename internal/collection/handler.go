// AngelaMos | 2026
// handler.go

package collection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/collections", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{collectionID}", h.Get)
		r.Delete("/{collectionID}", h.Delete)
		r.Post("/{collectionID}/sounds/{soundID}", h.AddSound)
		r.Delete("/{collectionID}/sounds/{soundID}", h.RemoveSound)
	})
}

var outcomeMessages = map[Outcome]string{
	OutcomeAdded:          "Sound added to collection.",
	OutcomeAlreadyPresent: "Sound is already in this collection.",
	OutcomeRemoved:        "Sound removed from collection.",
	OutcomeNotPresent:     "Sound was not in this collection.",
}

func writeError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "you do not own this collection")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid collection name")
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCollectionResponseList(collections))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, err, "user")
		return
	}

	core.CreatedMessage(w, ToCollectionResponse(WithSounds{Collection: *c}), "Collection created.")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(
		r.Context(),
		chi.URLParam(r, "collectionID"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeError(w, err, "collection")
		return
	}

	core.OK(w, ToDetailResponse(detail))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		chi.URLParam(r, "collectionID"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeError(w, err, "collection")
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddSound(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.service.AddSound)
}

func (h *Handler) RemoveSound(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.service.RemoveSound)
}

type membershipFunc func(
	ctx context.Context,
	collectionID, soundID, requesterID string,
) (Outcome, error)

func (h *Handler) changeMembership(
	w http.ResponseWriter,
	r *http.Request,
	change membershipFunc,
) {
	collectionID := chi.URLParam(r, "collectionID")
	soundID := chi.URLParam(r, "soundID")

	outcome, err := change(r.Context(), collectionID, soundID, middleware.GetUserID(r.Context()))
	if err != nil {
		resource := "collection"
		if errors.Is(err, ErrSoundNotFound) {
			resource = "sound"
		}
		writeError(w, err, resource)
		return
	}

	core.OKMessage(w, MembershipResponse{
		CollectionID: collectionID,
		SoundID:      soundID,
		Outcome:      outcome,
	}, outcomeMessages[outcome])
}
