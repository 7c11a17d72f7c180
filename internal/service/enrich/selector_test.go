package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/content"
)

func TestSelectorPriceBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(coinPayload))
	}))
	defer server.Close()

	price := NewPriceClient(config.PriceConfig{BaseURL: server.URL, CoinID: "ripple", RequestsPerMin: 10}, server.Client())
	s := NewSelector(price, nil)

	blocks := s.Blocks(context.Background(), "what's the price right now?")
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if !strings.Contains(blocks[0], "LIVE XRP MARKET DATA") {
		t.Fatalf("unexpected block: %q", blocks[0])
	}
}

func TestSelectorNoTriggers(t *testing.T) {
	s := NewSelector(nil, nil)

	if blocks := s.Blocks(context.Background(), "what's the price?"); blocks != nil {
		t.Fatalf("nil clients must produce no blocks, got %v", blocks)
	}
}

// Enrichment failures never surface: the chat proceeds on the base prompt.
func TestSelectorSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	price := NewPriceClient(config.PriceConfig{BaseURL: server.URL, CoinID: "ripple", RequestsPerMin: 10}, server.Client())
	search := NewSearchClient(config.SearchConfig{BaseURL: server.URL, APIKey: "key", ResultCount: 5}, content.DefaultProject, server.Client())
	s := NewSelector(price, search)

	blocks := s.Blocks(context.Background(), "any news on the price today?")
	if len(blocks) != 0 {
		t.Fatalf("failed lookups must contribute nothing, got %v", blocks)
	}
}

func TestSelectorPriceBeforeSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/v3/coins/") {
			w.Write([]byte(coinPayload))
			return
		}
		w.Write([]byte(`{"web": {"results": [{"title": "t", "url": "u", "description": "d"}]}}`))
	}))
	defer server.Close()

	price := NewPriceClient(config.PriceConfig{BaseURL: server.URL, CoinID: "ripple", RequestsPerMin: 10}, server.Client())
	search := NewSearchClient(config.SearchConfig{BaseURL: server.URL, APIKey: "key", ResultCount: 5}, content.DefaultProject, server.Client())
	s := NewSelector(price, search)

	blocks := s.Blocks(context.Background(), "latest price news today?")
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	if !strings.Contains(blocks[0], "MARKET DATA") || !strings.Contains(blocks[1], "SEARCH RESULTS") {
		t.Fatal("blocks out of order: price must precede search")
	}
}
