// Package tui renders the advisor and focus-group chats in the terminal.
// Exchanges run on their own goroutines; their events reach the render loop
// through a single channel drained by a recurring command.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pitchlabs/pitchroom/internal/client"
	"github.com/pitchlabs/pitchroom/internal/content"
	model "github.com/pitchlabs/pitchroom/internal/model/chat"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
	"github.com/pitchlabs/pitchroom/internal/service/group"
)

// Mode selects which chat surface the program renders.
type Mode int

const (
	// ModeAdvisor is the single-agent strategic advisor chat.
	ModeAdvisor Mode = iota
	// ModeGroup is the simulated focus-group chat.
	ModeGroup
)

// channelSink forwards orchestrator events into the Bubble Tea loop.
type channelSink struct {
	ch chan tea.Msg
}

func (s channelSink) TypingStarted(personaID int) {
	s.ch <- typingMsg{PersonaID: personaID, On: true}
}

func (s channelSink) TypingStopped(personaID int) {
	s.ch <- typingMsg{PersonaID: personaID, On: false}
}

func (s channelSink) MessageRevealed(m model.Message) {
	s.ch <- revealedMsg{Message: m}
}

// Model is the Bubble Tea model for both chat modes.
type Model struct {
	mode   Mode
	agent  *client.Agent
	orch   *group.Orchestrator
	roster []persona.Persona

	input    textinput.Model
	view     viewport.Model
	spin     spinner.Model
	events   chan tea.Msg
	typing   map[int]bool
	inFlight bool
	lastErr  string
	ready    bool
	width    int
	height   int
}

// NewAdvisor builds the single-agent chat UI.
func NewAdvisor(agent *client.Agent) *Model {
	m := newModel(ModeAdvisor)
	m.agent = agent
	return m
}

// NewGroup builds the focus-group chat UI around its own orchestrator.
func NewGroup(store persona.Store, responder group.Responder) *Model {
	m := newModel(ModeGroup)
	m.roster = store.List()
	m.orch = group.NewOrchestrator(store, responder, channelSink{ch: m.events})
	return m
}

func newModel(mode Mode) *Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = inputPromptStyle.Render("> ")
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		mode:   mode,
		input:  input,
		spin:   spin,
		events: make(chan tea.Msg, 16),
		typing: make(map[int]bool),
	}
}

// Init starts the spinner and the event pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitEvent())
}

// waitEvent relays the next goroutine event into the update loop.
func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 4
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}

	case fragmentMsg:
		m.refresh()
		return m, m.waitEvent()

	case exchangeDoneMsg:
		m.inFlight = false
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
		}
		m.refresh()
		return m, m.waitEvent()

	case typingMsg:
		if msg.On {
			m.typing[msg.PersonaID] = true
		} else {
			delete(m.typing, msg.PersonaID)
		}
		m.refresh()
		return m, m.waitEvent()

	case revealedMsg:
		m.refresh()
		return m, m.waitEvent()

	case groupDoneMsg:
		m.inFlight = false
		if msg.Err != nil {
			m.lastErr = msg.Err.Error()
		}
		m.refresh()
		return m, m.waitEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.view, cmd = m.view.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit launches the exchange for the typed input off the render loop.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.inFlight {
		return nil
	}

	m.input.Reset()
	m.lastErr = ""
	m.inFlight = true

	if m.mode == ModeGroup {
		go func() {
			err := m.orch.Ask(context.Background(), text)
			m.events <- groupDoneMsg{Err: err}
		}()
		m.refresh()
		return nil
	}

	go func() {
		_, err := m.agent.Send(context.Background(), text, func(fragment string) {
			m.events <- fragmentMsg{Text: fragment}
		})
		m.events <- exchangeDoneMsg{Err: err}
	}()
	m.refresh()
	return nil
}

// refresh re-renders the transcript into the viewport and pins the bottom.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(m.renderTranscript())
	m.view.GotoBottom()
}

func (m *Model) renderTranscript() string {
	var b strings.Builder

	if m.mode == ModeGroup {
		m.renderGroup(&b)
	} else {
		m.renderAdvisor(&b)
	}

	for _, id := range m.typingIDs() {
		name := m.personaName(id)
		fmt.Fprintf(&b, "%s\n", typingStyle.Render(name+" is typing..."))
	}

	return b.String()
}

func (m *Model) renderAdvisor(b *strings.Builder) {
	history := m.agent.Conversation().History()
	if len(history) == 0 {
		b.WriteString(content.WelcomeMessage)
		b.WriteString("\n\n")
		for _, q := range content.AdvisorSuggestions {
			fmt.Fprintf(b, "%s\n", statusStyle.Render("- "+q.Text))
		}
		b.WriteString("\n")
	}

	for _, msg := range history {
		label := advisorLabelStyle.Render("Advisor")
		if msg.Role == model.RoleUser {
			label = userLabelStyle.Render("You")
		}
		fmt.Fprintf(b, "%s\n%s\n\n", label, wrap(msg.Content, m.width))
	}

	if partial := m.agent.Conversation().Partial(); partial != "" {
		fmt.Fprintf(b, "%s\n%s%s\n\n", advisorLabelStyle.Render("Advisor"), wrap(partial, m.width), m.spin.View())
	} else if m.inFlight {
		fmt.Fprintf(b, "%s %s\n\n", m.spin.View(), typingStyle.Render("thinking..."))
	}
}

func (m *Model) renderGroup(b *strings.Builder) {
	messages := m.orch.Messages()
	if len(messages) == 0 {
		b.WriteString("Ask the XRP Army focus group anything. Mention a persona with @FirstName to direct a question.\n\n")
		for _, q := range content.GroupSuggestions {
			fmt.Fprintf(b, "%s\n", statusStyle.Render("- "+q.Text))
		}
		b.WriteString("\n")
	}

	for _, msg := range messages {
		label := userLabelStyle.Render("You")
		if msg.Role == model.RoleAssistant {
			label = m.personaLabel(msg.PersonaID)
		}
		fmt.Fprintf(b, "%s\n%s\n\n", label, wrap(msg.Content, m.width))
	}
}

func (m *Model) personaLabel(id int) string {
	for _, p := range m.roster {
		if p.ID == id {
			return personaLabelStyle(p.Color).Render(p.Name)
		}
	}
	return advisorLabelStyle.Render("Persona")
}

func (m *Model) personaName(id int) string {
	for _, p := range m.roster {
		if p.ID == id {
			return p.FirstName()
		}
	}
	return "Someone"
}

func (m *Model) typingIDs() []int {
	ids := make([]int, 0, len(m.typing))
	for id := range m.typing {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	title := "Strategic Advisor"
	if m.mode == ModeGroup {
		title = "XRP Army Focus Group"
	}

	status := ""
	if m.lastErr != "" {
		status = errorStyle.Render(m.lastErr)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		m.view.View(),
		m.input.View(),
		status,
	)
}

// wrap soft-wraps content to the window width, leaving short lines alone.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
