package group

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pitchlabs/pitchroom/internal/config"
)

func TestAskGroup(t *testing.T) {
	var gotPath string
	var gotBody askRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(AskResult{
			Responses: []PersonaReply{{PersonaID: 2, PersonaName: "Marcus Reeves", Text: "fundamentals first"}},
			History: []APIMessage{
				{Role: "moderator", Text: "thoughts?"},
				{Role: "persona", Text: "fundamentals first", PersonaID: 2},
			},
		})
	}))
	defer server.Close()

	c := NewClient(config.FocusGroupConfig{BaseURL: server.URL, Audience: "xrp_army"}, server.Client())

	result, err := c.AskGroup(context.Background(), "thoughts?", []APIMessage{{Role: "moderator", Text: "earlier"}})
	if err != nil {
		t.Fatalf("ask group failed: %v", err)
	}

	if gotPath != "/audiences/xrp_army/ask" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.Question != "thoughts?" || len(gotBody.History) != 1 {
		t.Fatalf("request body = %+v", gotBody)
	}
	if len(result.Responses) != 1 || result.Responses[0].PersonaID != 2 {
		t.Fatalf("responses = %+v", result.Responses)
	}
	if len(result.History) != 2 {
		t.Fatalf("history = %+v", result.History)
	}
}

// The individual endpoint wraps its reply in {response: ...}; the client
// normalizes it to the group shape.
func TestAskPersonaNormalizesShape(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"response": PersonaReply{PersonaID: 3, PersonaName: "Jasmine Okonkwo", Text: "per the filing"},
			"history": []APIMessage{
				{Role: "moderator", Text: "legal take?"},
				{Role: "persona", Text: "per the filing", PersonaID: 3},
			},
		})
	}))
	defer server.Close()

	c := NewClient(config.FocusGroupConfig{BaseURL: server.URL, Audience: "xrp_army"}, server.Client())

	result, err := c.AskPersona(context.Background(), 3, "legal take?", nil)
	if err != nil {
		t.Fatalf("ask persona failed: %v", err)
	}

	if gotPath != "/audiences/xrp_army/ask/3" {
		t.Fatalf("path = %q", gotPath)
	}
	if len(result.Responses) != 1 || result.Responses[0].Text != "per the filing" {
		t.Fatalf("normalized responses = %+v", result.Responses)
	}
	if len(result.History) != 2 {
		t.Fatalf("history = %+v", result.History)
	}
}

func TestAskGroupErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "audience not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(config.FocusGroupConfig{BaseURL: server.URL, Audience: "missing"}, server.Client())

	if _, err := c.AskGroup(context.Background(), "anyone?", nil); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestFetchPersonas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audiences/xrp_army" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"personas": [{"id": 1, "name": "Derek Kowalski"}]}`))
	}))
	defer server.Close()

	c := NewClient(config.FocusGroupConfig{BaseURL: server.URL, Audience: "xrp_army"}, server.Client())

	personas, err := c.FetchPersonas(context.Background())
	if err != nil {
		t.Fatalf("fetch personas failed: %v", err)
	}
	if len(personas) != 1 || personas[0].Name != "Derek Kowalski" {
		t.Fatalf("personas = %+v", personas)
	}
}
