package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	// RoleUser marks a message typed by the person driving the session.
	RoleUser Role = "user"
	// RoleAssistant marks a message produced by the generation service,
	// or a persona in the group chat.
	RoleAssistant Role = "assistant"
)

// Message is a single immutable turn in a conversation. Once appended to a
// history it is never mutated or reordered.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	PersonaID int       `json:"personaId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds a message with a fresh identifier and timestamp.
func New(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewFromPersona builds an assistant message tagged with its persona.
func NewFromPersona(personaID int, content string) Message {
	msg := New(RoleAssistant, content)
	msg.PersonaID = personaID
	return msg
}
