// Package chat holds the per-session conversation state machine that drives
// the chat surfaces. The server is stateless, so this is the single
// authoritative model of an exchange: history, in-flight status, and the
// partial streaming buffer.
package chat

import (
	"errors"
	"strings"
	"sync"

	model "github.com/pitchlabs/pitchroom/internal/model/chat"
)

// State enumerates the conversation phases.
type State int

const (
	// StateEmpty means no messages yet; welcome content may be shown.
	StateEmpty State = iota
	// StateAwaiting means a user message was appended and the generation
	// request is in flight with no partial text yet.
	StateAwaiting
	// StateStreaming means partial response text is available.
	StateStreaming
	// StateIdle means the latest exchange completed; awaiting input.
	StateIdle
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaiting:
		return "awaiting"
	case StateStreaming:
		return "streaming"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a submission while an exchange is in flight. At most
	// one exchange runs per conversation.
	ErrBusy = errors.New("an exchange is already in flight")
	// ErrEmptyMessage rejects blank input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotInFlight rejects stream events outside an exchange.
	ErrNotInFlight = errors.New("no exchange in flight")
)

// ErrorReply is the synthetic assistant message substituted for a failed
// exchange.
const ErrorReply = "Sorry, I encountered an error. Please try again."

// Conversation is the append-only history plus the transient streaming
// buffer for one session. All mutation goes through the command methods;
// messages are immutable once appended.
type Conversation struct {
	mu      sync.Mutex
	state   State
	history []model.Message
	buffer  strings.Builder
}

// NewConversation starts an empty session.
func NewConversation() *Conversation {
	return &Conversation{state: StateEmpty}
}

// State returns the current phase.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InFlight reports whether a generation request is outstanding.
func (c *Conversation) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAwaiting || c.state == StateStreaming
}

// History returns a copy of the message history in append order.
func (c *Conversation) History() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Message, len(c.history))
	copy(out, c.history)
	return out
}

// Partial returns the accumulated streaming text of the in-flight response.
func (c *Conversation) Partial() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.String()
}

// Submit appends the user's message and moves to AwaitingResponse. Rejected
// with ErrBusy while an exchange is in flight; the caller drops the input.
func (c *Conversation) Submit(content string) (model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateAwaiting || c.state == StateStreaming {
		return model.Message{}, ErrBusy
	}

	msg := model.New(model.RoleUser, content)
	c.history = append(c.history, msg)
	c.state = StateAwaiting
	c.buffer.Reset()
	return msg, nil
}

// Fragment appends incremental response text to the streaming buffer. The
// first fragment moves AwaitingResponse to Streaming.
func (c *Conversation) Fragment(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateAwaiting:
		c.state = StateStreaming
	case StateStreaming:
	default:
		return ErrNotInFlight
	}

	c.buffer.WriteString(text)
	return nil
}

// Complete finalizes the streaming buffer into an immutable assistant
// message and returns to idle. For non-streaming exchanges the full content
// is passed directly; otherwise content must be empty and the buffer wins.
func (c *Conversation) Complete(content string) (model.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAwaiting && c.state != StateStreaming {
		return model.Message{}, ErrNotInFlight
	}

	if content == "" {
		content = c.buffer.String()
	}
	c.buffer.Reset()

	msg := model.New(model.RoleAssistant, content)
	c.history = append(c.history, msg)
	c.state = StateIdle
	return msg, nil
}

// Fail discards any partial text, appends one synthetic error message, and
// returns to idle so the next submission is accepted immediately.
func (c *Conversation) Fail() model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer.Reset()

	msg := model.New(model.RoleAssistant, ErrorReply)
	c.history = append(c.history, msg)
	c.state = StateIdle
	return msg
}
