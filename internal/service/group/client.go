// Package group runs the simulated focus-group chat: persona targeting,
// sequential asks against the external persona-response service, and the
// staggered typing-and-reveal choreography.
package group

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
)

// APIMessage is one history entry in the persona service's wire format. The
// service is stateless; history travels with every request.
type APIMessage struct {
	Role        string `json:"role"` // "moderator" or "persona"
	Text        string `json:"text"`
	PersonaID   int    `json:"persona_id,omitempty"`
	PersonaName string `json:"persona_name,omitempty"`
}

// PersonaReply is one persona's answer.
type PersonaReply struct {
	PersonaID   int    `json:"persona_id"`
	PersonaName string `json:"persona_name"`
	Text        string `json:"text"`
}

// AskResult is the normalized response shape for both the group and the
// individual endpoints.
type AskResult struct {
	Responses []PersonaReply `json:"responses"`
	History   []APIMessage   `json:"history"`
}

// Responder abstracts the persona-response service for the orchestrator.
type Responder interface {
	AskGroup(ctx context.Context, question string, history []APIMessage) (AskResult, error)
	AskPersona(ctx context.Context, personaID int, question string, history []APIMessage) (AskResult, error)
}

// Client talks to the external focus-group API.
type Client struct {
	cfg  config.FocusGroupConfig
	http *http.Client
}

// NewClient builds the API client. The service can take 5-15s to answer, so
// the default timeout is generous.
func NewClient(cfg config.FocusGroupConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

type askRequest struct {
	Question string       `json:"question"`
	History  []APIMessage `json:"history"`
}

// AskGroup puts the question to the whole audience; the service selects 2-4
// personas who would naturally respond.
func (c *Client) AskGroup(ctx context.Context, question string, history []APIMessage) (AskResult, error) {
	endpoint := fmt.Sprintf("%s/audiences/%s/ask", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Audience)

	var result AskResult
	if err := c.post(ctx, endpoint, askRequest{Question: question, History: history}, &result); err != nil {
		return AskResult{}, err
	}
	return result, nil
}

// AskPersona puts the question to one persona. The individual endpoint
// returns {response: {...}}; it is normalized to the group shape here.
func (c *Client) AskPersona(ctx context.Context, personaID int, question string, history []APIMessage) (AskResult, error) {
	endpoint := fmt.Sprintf("%s/audiences/%s/ask/%d", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Audience, personaID)

	var payload struct {
		Response PersonaReply `json:"response"`
		History  []APIMessage `json:"history"`
	}
	if err := c.post(ctx, endpoint, askRequest{Question: question, History: history}, &payload); err != nil {
		return AskResult{}, err
	}
	return AskResult{
		Responses: []PersonaReply{payload.Response},
		History:   payload.History,
	}, nil
}

// FetchPersonas pulls the audience roster from the service. The local seed
// roster is the fallback when the service is unreachable.
func (c *Client) FetchPersonas(ctx context.Context) ([]persona.Persona, error) {
	endpoint := fmt.Sprintf("%s/audiences/%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Audience)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch personas: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch personas: status %d", resp.StatusCode)
	}

	var payload struct {
		Personas []persona.Persona `json:"personas"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode personas: %w", err)
	}
	return payload.Personas, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("focus group request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("focus group status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode focus group response: %w", err)
	}
	return nil
}
