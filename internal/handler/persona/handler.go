// Package persona serves the focus-group roster and the suggested-question
// lists the client shows in the welcome state.
package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchlabs/pitchroom/internal/content"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
	"github.com/pitchlabs/pitchroom/pkg/utils"
)

// Handler serves persona resources.
type Handler struct {
	store persona.Store
}

// New creates the persona handler.
func New(store persona.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the persona endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleList)
	r.Get("/suggestions", h.handleSuggestions)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"personas": h.store.List(),
	})
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"advisor": content.AdvisorSuggestions,
		"group":   content.GroupSuggestions,
	})
}
