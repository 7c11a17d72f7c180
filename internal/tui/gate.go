package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pitchlabs/pitchroom/internal/content"
)

// VerifyFunc checks a password attempt. False with a nil error means the
// password was rejected.
type VerifyFunc func(ctx context.Context, password string) (bool, error)

// GateModel is the password prompt shown before the chat surfaces when the
// gate is enabled.
type GateModel struct {
	input    textinput.Model
	verify   VerifyFunc
	busy     bool
	unlocked bool
	errText  string
}

type gateResultMsg struct {
	ok  bool
	err error
}

// NewGate builds the prompt around a verification callback.
func NewGate(verify VerifyFunc) *GateModel {
	input := textinput.New()
	input.Placeholder = "Password"
	input.Prompt = inputPromptStyle.Render("> ")
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()
	return &GateModel{input: input, verify: verify}
}

// Unlocked reports whether a password was accepted before the model quit.
func (m *GateModel) Unlocked() bool {
	return m.unlocked
}

func (m *GateModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *GateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.attempt()
		}
	case gateResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		if !msg.ok {
			m.errText = "Incorrect password. Try again."
			m.input.Reset()
			return m, nil
		}
		m.unlocked = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *GateModel) attempt() tea.Cmd {
	password := m.input.Value()
	if password == "" || m.busy {
		return nil
	}
	m.busy = true
	m.errText = ""
	return func() tea.Msg {
		ok, err := m.verify(context.Background(), password)
		return gateResultMsg{ok: ok, err: err}
	}
}

func (m *GateModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(content.DefaultProject.Title))
	b.WriteString("\n\n")
	b.WriteString("This presentation is password protected.\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.busy {
		b.WriteString(typingStyle.Render("checking..."))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	}
	return b.String()
}
