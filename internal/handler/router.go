package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pitchlabs/pitchroom/internal/auth"
	"github.com/pitchlabs/pitchroom/internal/config"
	chatHandler "github.com/pitchlabs/pitchroom/internal/handler/chat"
	personaHandler "github.com/pitchlabs/pitchroom/internal/handler/persona"
	siteHandler "github.com/pitchlabs/pitchroom/internal/handler/site"
	tickerHandler "github.com/pitchlabs/pitchroom/internal/handler/ticker"
	personaModel "github.com/pitchlabs/pitchroom/internal/model/persona"
	aiService "github.com/pitchlabs/pitchroom/internal/service/ai"
	tickerService "github.com/pitchlabs/pitchroom/internal/service/ticker"
)

// NewRouter wires HTTP routes to core services. aiSvc and tickerSvc may be
// nil; the affected endpoints then answer 503 instead of the server refusing
// to boot.
func NewRouter(cfg *config.Config, personas personaModel.Store, gate *auth.Gate, aiSvc *aiService.Service, tickerSvc *tickerService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(aiSvc).RegisterRoutes(api)
		personaHandler.New(personas).RegisterRoutes(api)
		siteHandler.New(gate, cfg.Features, tickerSvc).RegisterRoutes(api)
	})

	if tickerSvc != nil {
		tickerHandler.New(tickerSvc).RegisterRoutes(r)
	}

	return r
}
