package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pitchlabs/pitchroom/internal/auth"
	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/content"
	"github.com/pitchlabs/pitchroom/internal/handler"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
	"github.com/pitchlabs/pitchroom/internal/service/ai"
	"github.com/pitchlabs/pitchroom/internal/service/enrich"
	"github.com/pitchlabs/pitchroom/internal/service/ticker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := loadPersonas()
	gate := auth.NewGate(cfg.Gate, auth.NewMemoryStore())

	// Enrichment collaborators. Search stays nil without an API key; the
	// selector then only consults the price feed.
	priceClient := enrich.NewPriceClient(cfg.Price, nil)
	var searchClient *enrich.SearchClient
	if cfg.Search.Enabled() {
		searchClient = enrich.NewSearchClient(cfg.Search, content.DefaultProject, nil)
		log.Println("web search enrichment enabled")
	} else {
		log.Println("BRAVE_SEARCH_API_KEY not set, web search enrichment disabled")
	}
	selector := enrich.NewSelector(priceClient, searchClient)

	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, cfg.AI, selector, cfg.Features.ChatStreaming)
		if err != nil {
			log.Printf("warning: failed to initialize generation service: %v", err)
			log.Println("continuing without chat functionality")
		} else {
			log.Println("generation service initialized successfully")
		}
	} else {
		log.Println("generation credentials not configured, chat endpoint will answer 503")
	}

	tickerSvc := ticker.NewService(priceClient, time.Duration(cfg.Price.RefreshSeconds)*time.Second)
	go tickerSvc.Run(ctx)

	router := handler.NewRouter(cfg, personaStore, gate, aiSvc, tickerSvc)

	startServer(ctx, cfg.Server, router)
}

// loadPersonas returns the roster, preferring a TOML file named by
// PERSONAS_FILE over the built-in seed.
func loadPersonas() persona.Store {
	path := strings.TrimSpace(os.Getenv("PERSONAS_FILE"))
	if path == "" {
		return persona.NewMemoryStore(persona.Seed())
	}

	roster, err := persona.LoadFile(path)
	if err != nil {
		log.Fatalf("failed to load persona roster from %s: %v", path, err)
	}
	log.Printf("loaded %d personas from %s", len(roster), path)
	return persona.NewMemoryStore(roster)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("pitchroom api listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
