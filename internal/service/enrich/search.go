package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/content"
)

// ErrSearchDisabled is returned when no API key is configured. Callers treat
// it like any other enrichment failure and continue without the block.
var ErrSearchDisabled = errors.New("web search disabled: no API key configured")

// SearchResult is one hit from the web-search collaborator.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Age         string `json:"age,omitempty"`
}

// SearchResponse groups the hits for one query.
type SearchResponse struct {
	Query     string         `json:"query"`
	Results   []SearchResult `json:"results"`
	Timestamp time.Time      `json:"timestamp"`
}

// SearchClient calls the Brave web-search API.
type SearchClient struct {
	cfg     config.SearchConfig
	project content.Project
	http    *http.Client
}

// NewSearchClient builds a search client. The project supplies the subject
// terms used for query building and trigger detection.
func NewSearchClient(cfg config.SearchConfig, project content.Project, httpClient *http.Client) *SearchClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SearchClient{cfg: cfg, project: project, http: httpClient}
}

// Enabled reports whether lookups can be issued.
func (c *SearchClient) Enabled() bool {
	return c.cfg.Enabled()
}

// Search runs one web search for the given query.
func (c *SearchClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	if !c.Enabled() {
		return nil, ErrSearchDisabled
	}

	count := c.cfg.ResultCount
	if count <= 0 {
		count = 5
	}

	params := url.Values{
		"q":                {query},
		"count":            {strconv.Itoa(count)},
		"text_decorations": {"false"},
		"search_lang":      {"en"},
		"country":          {"us"},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/res/v1/web/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []SearchResult `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := payload.Web.Results
	if len(results) > count {
		results = results[:count]
	}

	return &SearchResponse{
		Query:     query,
		Results:   results,
		Timestamp: time.Now().UTC(),
	}, nil
}

// BuildQuery prefixes the project subject when the message doesn't name it,
// so searches stay anchored to the brand under analysis.
func (c *SearchClient) BuildQuery(message string) string {
	lower := strings.ToLower(message)
	if strings.Contains(lower, c.project.Subject) || strings.Contains(lower, c.project.SubjectAlt) {
		return message
	}
	return c.project.QueryPrefix + " " + message
}

// FormatBlock renders search hits as an enrichment block for the prompt.
// Empty result sets contribute nothing.
func (r *SearchResponse) FormatBlock() string {
	if len(r.Results) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## WEB SEARCH RESULTS for %q\n\n", r.Query)
	for i, result := range r.Results {
		fmt.Fprintf(&b, "### %d. %s\n%s\n", i+1, result.Title, result.Description)
		if result.Age != "" {
			fmt.Fprintf(&b, "Source: %s (%s)\n\n", result.URL, result.Age)
		} else {
			fmt.Fprintf(&b, "Source: %s\n\n", result.URL)
		}
	}
	fmt.Fprintf(&b, "Search performed at %s.\n", r.Timestamp.Format(time.RFC1123))
	b.WriteString("Use these search results to provide current, accurate information. Cite sources when relevant.\n")
	return b.String()
}

var newsKeywords = []string{
	"news", "latest", "recent", "today", "yesterday", "this week",
	"announced", "update", "breaking", "report", "rumor",
	"sec", "regulation", "lawsuit", "ruling", "court",
	"partnership", "deal", "acquisition", "ipo",
	"what happened", "what's happening", "current events",
}

var searchTriggers = []string{
	"search", "look up", "find", "google", "what is",
	"who is", "when did", "where is", "why did", "how did",
}

// ShouldSearch reports whether the message warrants a web lookup: news
// keywords, explicit search phrasing, or a question about the subject brand.
func (c *SearchClient) ShouldSearch(message string) bool {
	lower := strings.ToLower(message)

	hasNewsKeyword := false
	for _, keyword := range newsKeywords {
		if strings.Contains(lower, keyword) {
			hasNewsKeyword = true
			break
		}
	}
	if hasNewsKeyword {
		return true
	}

	for _, trigger := range searchTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}

	mentionsSubject := strings.Contains(lower, c.project.Subject) || strings.Contains(lower, c.project.SubjectAlt)
	return mentionsSubject && strings.Contains(lower, "?")
}
