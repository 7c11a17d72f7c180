// Package chat exposes the generation proxy endpoint. The client sends its
// full message history each time; the response is either an SSE fragment
// stream or one JSON body, depending on the streaming feature flag.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/pitchlabs/pitchroom/internal/model/chat"
	"github.com/pitchlabs/pitchroom/internal/service/ai"
	"github.com/pitchlabs/pitchroom/pkg/utils"
)

// Handler proxies chat requests to the generation service.
type Handler struct {
	aiSvc *ai.Service
}

// New creates the chat handler.
func New(aiSvc *ai.Service) *Handler {
	return &Handler{aiSvc: aiSvc}
}

// RegisterRoutes mounts the chat endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []wireMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type textFrame struct {
	Text string `json:"text"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	history, query, err := splitMessages(payload.Messages)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.aiSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "generation service unavailable")
		return
	}

	ctx := r.Context()

	if !h.aiSvc.StreamingEnabled() {
		response, err := h.aiSvc.Generate(ctx, history, query, payload.Temperature)
		if err != nil {
			log.Printf("[chat] generation failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "failed to process chat request")
			return
		}
		utils.RespondJSON(w, http.StatusOK, map[string]string{"content": response.Content})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	stream, err := h.aiSvc.Stream(ctx, history, query, payload.Temperature)
	if err != nil {
		log.Printf("[chat] stream start failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to process chat request")
		return
	}
	defer stream.Close()

	utils.SetupSSEHeaders(w)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			// Headers are gone, so sever the connection instead of finishing
			// the chunked body: a clean close without [DONE] would read as a
			// completed response downstream.
			log.Printf("[chat] stream aborted: %v", recvErr)
			panic(http.ErrAbortHandler)
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		raw, err := json.Marshal(textFrame{Text: chunk.Content})
		if err != nil {
			log.Printf("[chat] frame encode failed: %v", err)
			continue
		}
		utils.SendSSERaw(w, flusher, string(raw))
	}

	utils.SendSSERaw(w, flusher, "[DONE]")
}

// splitMessages validates the wire history and peels off the newest user
// message as the query.
func splitMessages(messages []wireMessage) ([]model.Message, string, error) {
	if len(messages) == 0 {
		return nil, "", errors.New("messages is required")
	}

	last := messages[len(messages)-1]
	if last.Role != string(model.RoleUser) {
		return nil, "", errors.New("last message must be user-originated")
	}
	if last.Content == "" {
		return nil, "", errors.New("message content is empty")
	}

	history := make([]model.Message, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		switch model.Role(msg.Role) {
		case model.RoleUser, model.RoleAssistant:
			history = append(history, model.Message{Role: model.Role(msg.Role), Content: msg.Content})
		default:
			return nil, "", fmt.Errorf("unknown role %q", msg.Role)
		}
	}
	return history, last.Content, nil
}
