package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pitchlabs/pitchroom/internal/config"
)

// ErrRateLimited is returned when a lookup is skipped to stay inside the
// price feed's free-tier quota.
var ErrRateLimited = errors.New("price lookup rate limited")

// Snapshot is one observation of the live market feed.
type Snapshot struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	CurrentPrice     float64   `json:"currentPrice"`
	ChangePercent24h float64   `json:"priceChangePercent24h"`
	High24h          float64   `json:"high24h"`
	Low24h           float64   `json:"low24h"`
	MarketCap        float64   `json:"marketCap"`
	Volume24h        float64   `json:"volume24h"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// PriceClient fetches live market data from the CoinGecko coins endpoint.
// No API key is required; the limiter keeps us inside the free tier.
type PriceClient struct {
	cfg     config.PriceConfig
	http    *http.Client
	limiter *rate.Limiter
}

// NewPriceClient builds a client for the configured coin.
func NewPriceClient(cfg config.PriceConfig, httpClient *http.Client) *PriceClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	perMin := cfg.RequestsPerMin
	if perMin <= 0 {
		perMin = 10
	}
	return &PriceClient{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), 2),
	}
}

// Fetch returns the current snapshot, or an error the caller may swallow.
func (c *PriceClient) Fetch(ctx context.Context) (*Snapshot, error) {
	if !c.limiter.Allow() {
		return nil, ErrRateLimited
	}

	url := fmt.Sprintf("%s/api/v3/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.CoinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed status %d", resp.StatusCode)
	}

	var payload struct {
		Symbol      string `json:"symbol"`
		Name        string `json:"name"`
		LastUpdated string `json:"last_updated"`
		MarketData  struct {
			CurrentPrice             map[string]float64 `json:"current_price"`
			PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
			High24h                  map[string]float64 `json:"high_24h"`
			Low24h                   map[string]float64 `json:"low_24h"`
			MarketCap                map[string]float64 `json:"market_cap"`
			TotalVolume              map[string]float64 `json:"total_volume"`
		} `json:"market_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode price feed response: %w", err)
	}

	updated, err := time.Parse(time.RFC3339, payload.LastUpdated)
	if err != nil {
		updated = time.Now().UTC()
	}

	return &Snapshot{
		Symbol:           strings.ToUpper(payload.Symbol),
		Name:             payload.Name,
		CurrentPrice:     payload.MarketData.CurrentPrice["usd"],
		ChangePercent24h: payload.MarketData.PriceChangePercentage24h,
		High24h:          payload.MarketData.High24h["usd"],
		Low24h:           payload.MarketData.Low24h["usd"],
		MarketCap:        payload.MarketData.MarketCap["usd"],
		Volume24h:        payload.MarketData.TotalVolume["usd"],
		LastUpdated:      updated,
	}, nil
}

// FormatBlock renders a snapshot as an enrichment block for the prompt.
func (s *Snapshot) FormatBlock() string {
	direction := "up"
	changeSign := "+"
	if s.ChangePercent24h < 0 {
		direction = "down"
		changeSign = ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## LIVE %s MARKET DATA (as of %s)\n\n", s.Symbol, s.LastUpdated.Format(time.RFC1123))
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Current Price | $%.4f |\n", s.CurrentPrice)
	fmt.Fprintf(&b, "| 24h Change | %s%.2f%% (%s) |\n", changeSign, s.ChangePercent24h, direction)
	fmt.Fprintf(&b, "| 24h High/Low | $%.4f / $%.4f |\n", s.High24h, s.Low24h)
	fmt.Fprintf(&b, "| Market Cap | $%.2fB |\n", s.MarketCap/1e9)
	fmt.Fprintf(&b, "| 24h Volume | $%.2fB |\n", s.Volume24h/1e9)
	fmt.Fprintf(&b, "\nUse this live data to answer questions about current %s price and market conditions.\n", s.Symbol)
	return b.String()
}

var priceKeywords = []string{
	"price", "cost", "worth", "value", "trading", "market cap",
	"volume", "high", "low", "up", "down", "today", "now",
	"current", "live", "real-time", "realtime", "how much",
	"gone up", "gone down", "increased", "decreased", "change",
}

// IsPriceQuery reports whether the message carries market/price intent.
func IsPriceQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range priceKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
