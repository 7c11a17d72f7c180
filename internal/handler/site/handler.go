// Package site serves the small site-chrome endpoints: the password gate,
// the enabled content sections, and the latest price snapshot.
package site

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pitchlabs/pitchroom/internal/auth"
	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/service/ticker"
	"github.com/pitchlabs/pitchroom/pkg/utils"
)

// Handler serves site configuration and gate checks.
type Handler struct {
	gate     *auth.Gate
	features config.Features
	ticker   *ticker.Service
}

// New creates the site handler. The ticker may be nil when the price feed is
// not running.
func New(gate *auth.Gate, features config.Features, tickerSvc *ticker.Service) *Handler {
	return &Handler{gate: gate, features: features, ticker: tickerSvc}
}

// RegisterRoutes mounts the site endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth", h.handleAuth)
	r.Get("/sections", h.handleSections)
	r.Get("/price", h.handlePrice)
}

type authRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	if !h.features.PasswordGate {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	var payload authRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.gate.Verify(payload.Password) {
		utils.RespondJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleSections(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sections": h.features.EnabledSections(),
	})
}

func (h *Handler) handlePrice(w http.ResponseWriter, r *http.Request) {
	if h.ticker == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "price feed disabled")
		return
	}

	snapshot := h.ticker.Latest()
	if snapshot == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "price data not yet available")
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}
