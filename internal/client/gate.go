package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GateClient verifies the shared password against the API server. The
// authenticated flag itself lives on the caller's side; the server only
// answers yes or no.
type GateClient struct {
	baseURL string
	http    *http.Client
}

// NewGateClient creates a gate client for the given API base URL.
func NewGateClient(baseURL string, httpClient *http.Client) *GateClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &GateClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Verify posts the password to the gate endpoint. False with a nil error
// means the password was rejected.
func (c *GateClient) Verify(ctx context.Context, password string) (bool, error) {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("gate request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized:
		return false, nil
	default:
		return false, fmt.Errorf("gate endpoint status %d", resp.StatusCode)
	}
}
