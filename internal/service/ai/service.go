// Package ai adapts the external generation service. The service is
// stateless across calls, so the full conversation history is replayed on
// every request.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/pitchlabs/pitchroom/internal/config"
	"github.com/pitchlabs/pitchroom/internal/content"
	"github.com/pitchlabs/pitchroom/internal/model/chat"
	"github.com/pitchlabs/pitchroom/internal/service/enrich"
)

// DefaultTemperature is used when the caller supplies none.
const DefaultTemperature = 0.7

// Service runs generation calls against the configured chat model, with
// enrichment blocks appended to the base instructions per request.
type Service struct {
	chatModel model.ChatModel
	selector  *enrich.Selector
	streaming bool
}

// NewService creates the generation adapter. The selector may be nil, in
// which case prompts carry the base instructions only.
func NewService(ctx context.Context, cfg config.AIConfig, selector *enrich.Selector, streaming bool) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		selector:  selector,
		streaming: streaming,
	}, nil
}

// StreamingEnabled reports whether responses are streamed or returned whole.
func (s *Service) StreamingEnabled() bool {
	return s.streaming
}

// Generate returns one complete response for the conversation.
func (s *Service) Generate(ctx context.Context, history []chat.Message, query string, temperature *float64) (*schema.Message, error) {
	messages := s.buildMessages(ctx, history, query)

	response, err := s.chatModel.Generate(ctx, messages, model.WithTemperature(clampRequested(temperature)))
	if err != nil {
		return nil, fmt.Errorf("generation call: %w", err)
	}

	log.Printf("[ai] generated response, length=%d", len(response.Content))
	return response, nil
}

// Stream returns an incremental reader over the response.
func (s *Service) Stream(ctx context.Context, history []chat.Message, query string, temperature *float64) (*schema.StreamReader[*schema.Message], error) {
	if !s.streaming {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	messages := s.buildMessages(ctx, history, query)

	stream, err := s.chatModel.Stream(ctx, messages, model.WithTemperature(clampRequested(temperature)))
	if err != nil {
		return nil, fmt.Errorf("generation stream: %w", err)
	}
	return stream, nil
}

// buildMessages assembles the system prompt (base instructions plus any
// enrichment blocks triggered by the query) and replays the history.
func (s *Service) buildMessages(ctx context.Context, history []chat.Message, query string) []*schema.Message {
	var blocks []string
	if s.selector != nil {
		blocks = s.selector.Blocks(ctx, query)
	}
	system := Assemble(content.SystemPrompt, blocks...)

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(system))
	for _, msg := range history {
		switch msg.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		}
	}
	messages = append(messages, schema.UserMessage(query))

	return messages
}

func clampRequested(temperature *float64) float32 {
	if temperature == nil {
		return ClampTemperature(DefaultTemperature)
	}
	return ClampTemperature(*temperature)
}
