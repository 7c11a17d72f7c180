package tui

import model "github.com/pitchlabs/pitchroom/internal/model/chat"

// fragmentMsg carries one streamed advisor fragment.
type fragmentMsg struct {
	Text string
}

// exchangeDoneMsg marks the end of an advisor exchange.
type exchangeDoneMsg struct {
	Err error
}

// typingMsg toggles a persona's typing indicator.
type typingMsg struct {
	PersonaID int
	On        bool
}

// revealedMsg carries a newly revealed group message.
type revealedMsg struct {
	Message model.Message
}

// groupDoneMsg marks the end of a group turn.
type groupDoneMsg struct {
	Err error
}
