package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service needs. It is built once in
// main and passed explicitly to the components that need it.
type Config struct {
	Server     ServerConfig
	AI         AIConfig
	Price      PriceConfig
	Search     SearchConfig
	FocusGroup FocusGroupConfig
	Gate       GateConfig
	Features   Features
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	price, err := loadPriceConfig()
	if err != nil {
		return nil, err
	}

	features, err := loadFeatures()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		AI:         ai,
		Price:      price,
		Search:     loadSearchConfig(),
		FocusGroup: loadFocusGroupConfig(),
		Gate:       loadGateConfig(),
		Features:   features,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the generation-service model.
type AIConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
	MaxTokens *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("generation credentials missing: set ARK_API_KEY + ARK_MODEL, or the AK/SK pair")
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     c.Model,
		MaxTokens: maxTokens,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		defaultMax := 4096
		maxTokens = &defaultMax
	}

	return AIConfig{
		APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		MaxTokens: maxTokens,
	}, nil
}

// PriceConfig describes the live price feed.
type PriceConfig struct {
	BaseURL        string
	CoinID         string
	RefreshSeconds int
	RequestsPerMin int
}

func loadPriceConfig() (PriceConfig, error) {
	refresh := 60
	if override, err := parseOptionalIntEnv("PRICE_REFRESH_SECONDS"); err != nil {
		return PriceConfig{}, err
	} else if override != nil {
		if *override < 5 {
			refresh = 5
		} else {
			refresh = *override
		}
	}

	// CoinGecko free tier allows 10-30 calls/minute; stay well under it.
	perMin := 10
	if override, err := parseOptionalIntEnv("PRICE_REQUESTS_PER_MIN"); err != nil {
		return PriceConfig{}, err
	} else if override != nil && *override > 0 {
		perMin = *override
	}

	return PriceConfig{
		BaseURL:        getEnvOrDefault("PRICE_BASE_URL", "https://api.coingecko.com"),
		CoinID:         getEnvOrDefault("PRICE_COIN_ID", "ripple"),
		RefreshSeconds: refresh,
		RequestsPerMin: perMin,
	}, nil
}

// SearchConfig describes the web-search collaborator. An empty key disables
// search enrichment without disabling the chat.
type SearchConfig struct {
	BaseURL     string
	APIKey      string
	ResultCount int
}

// Enabled reports whether search lookups can be issued.
func (c SearchConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		BaseURL:     getEnvOrDefault("BRAVE_SEARCH_BASE_URL", "https://api.search.brave.com"),
		APIKey:      strings.TrimSpace(os.Getenv("BRAVE_SEARCH_API_KEY")),
		ResultCount: 5,
	}
}

// FocusGroupConfig points at the external persona-response service.
type FocusGroupConfig struct {
	BaseURL  string
	Audience string
}

func loadFocusGroupConfig() FocusGroupConfig {
	return FocusGroupConfig{
		BaseURL:  getEnvOrDefault("FOCUS_GROUP_BASE_URL", "https://focusgroup-plum.vercel.app"),
		Audience: getEnvOrDefault("FOCUS_GROUP_AUDIENCE", "xrp_army"),
	}
}

// GateConfig describes the shared-password soft gate. Explicitly not a
// security boundary.
type GateConfig struct {
	Password   string
	StorageKey string
}

func loadGateConfig() GateConfig {
	return GateConfig{
		Password:   getEnvOrDefault("GATE_PASSWORD", "ripple2026"),
		StorageKey: getEnvOrDefault("GATE_STORAGE_KEY", "ripple-agent-auth"),
	}
}

// Features toggles optional behavior. Defaults mirror the shipped engagement.
type Features struct {
	ChatStreaming bool
	PasswordGate  bool
	Sections      map[string]bool
}

// SectionEnabled reports whether a content section is visible.
func (f Features) SectionEnabled(id string) bool {
	return f.Sections[id]
}

// EnabledSections returns the visible section identifiers in display order.
func (f Features) EnabledSections() []string {
	out := make([]string, 0, len(sectionOrder))
	for _, id := range sectionOrder {
		if f.Sections[id] {
			out = append(out, id)
		}
	}
	return out
}

var sectionOrder = []string{
	"research", "deepdive", "insights", "analysis", "diagnosis",
	"audience", "inspiration", "brief", "roast", "timeline", "settings",
}

func loadFeatures() (Features, error) {
	streaming, err := parseBoolEnv("CHAT_STREAMING", true)
	if err != nil {
		return Features{}, err
	}

	gate, err := parseBoolEnv("PASSWORD_GATE", true)
	if err != nil {
		return Features{}, err
	}

	sections := map[string]bool{
		"research":    true,
		"deepdive":    true,
		"insights":    true,
		"analysis":    false,
		"diagnosis":   true,
		"audience":    false,
		"inspiration": false,
		"brief":       true,
		"roast":       false,
		"timeline":    false,
		"settings":    false,
	}
	if raw := strings.TrimSpace(os.Getenv("SECTIONS")); raw != "" {
		for id := range sections {
			sections[id] = false
		}
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := sections[id]; !ok {
				return Features{}, fmt.Errorf("unknown section %q in SECTIONS", id)
			}
			sections[id] = true
		}
	}

	return Features{
		ChatStreaming: streaming,
		PasswordGate:  gate,
		Sections:      sections,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
