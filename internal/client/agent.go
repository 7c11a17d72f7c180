// Package client is the consuming side of the chat API: it owns a
// conversation, posts exchanges to the server, and feeds streamed fragments
// back into the state machine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	model "github.com/pitchlabs/pitchroom/internal/model/chat"
	chatservice "github.com/pitchlabs/pitchroom/internal/service/chat"
	"github.com/pitchlabs/pitchroom/internal/sse"
)

const defaultTimeout = 120 * time.Second

// Agent drives one advisor conversation against the chat endpoint.
type Agent struct {
	baseURL     string
	http        *http.Client
	conv        *chatservice.Conversation
	temperature *float64
}

// NewAgent creates an agent for the given API base URL, e.g.
// "http://localhost:8080".
func NewAgent(baseURL string, httpClient *http.Client) *Agent {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Agent{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		conv:    chatservice.NewConversation(),
	}
}

// Conversation exposes the underlying state machine for rendering.
func (a *Agent) Conversation() *chatservice.Conversation {
	return a.conv
}

// SetTemperature overrides the sampling temperature for subsequent
// exchanges; nil restores the server default.
func (a *Agent) SetTemperature(t *float64) {
	a.temperature = t
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []wireMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

// Send submits the input and runs the exchange to completion. onFragment is
// invoked for each streamed fragment; it may be nil. On any failure after
// submission the conversation records the synthetic error reply and the
// transport error is returned.
func (a *Agent) Send(ctx context.Context, input string, onFragment func(string)) (model.Message, error) {
	if _, err := a.conv.Submit(input); err != nil {
		return model.Message{}, err
	}

	history := a.conv.History()
	payload := chatRequest{
		Messages:    make([]wireMessage, 0, len(history)),
		Temperature: a.temperature,
	}
	for _, msg := range history {
		payload.Messages = append(payload.Messages, wireMessage{Role: string(msg.Role), Content: msg.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return a.conv.Fail(), fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return a.conv.Fail(), err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream, application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return a.conv.Fail(), fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return a.conv.Fail(), fmt.Errorf("chat endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		return a.completeStreaming(resp.Body, onFragment)
	}
	return a.completeJSON(resp.Body)
}

func (a *Agent) completeStreaming(body io.Reader, onFragment func(string)) (model.Message, error) {
	_, err := sse.Drain(body, func(text string) {
		// ErrNotInFlight cannot occur here: the exchange stays in flight
		// until Complete or Fail below.
		_ = a.conv.Fragment(text)
		if onFragment != nil {
			onFragment(text)
		}
	})
	if err != nil {
		return a.conv.Fail(), fmt.Errorf("response stream: %w", err)
	}

	msg, err := a.conv.Complete("")
	if err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

func (a *Agent) completeJSON(body io.Reader) (model.Message, error) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return a.conv.Fail(), fmt.Errorf("decode chat response: %w", err)
	}

	msg, err := a.conv.Complete(payload.Content)
	if err != nil {
		return model.Message{}, err
	}
	return msg, nil
}
