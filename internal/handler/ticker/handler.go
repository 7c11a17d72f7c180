// Package ticker pushes live price snapshots over a WebSocket so the client
// header can update without polling.
package ticker

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	tickerservice "github.com/pitchlabs/pitchroom/internal/service/ticker"
)

// Handler upgrades connections and relays ticker snapshots.
type Handler struct {
	svc      *tickerservice.Service
	upgrader websocket.Upgrader
}

// New creates the ticker WebSocket handler.
func New(svc *tickerservice.Service) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/ticker", h.handleTicker)
}

func (h *Handler) handleTicker(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ticker] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.svc.Subscribe()
	defer cancel()

	// Reads are only used to observe the close handshake.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	if latest := h.svc.Latest(); latest != nil {
		if err := conn.WriteJSON(latest); err != nil {
			return
		}
	}

	ping := time.NewTicker(54 * time.Second)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot := <-updates:
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
