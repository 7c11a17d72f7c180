package group

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	model "github.com/pitchlabs/pitchroom/internal/model/chat"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
)

// ErrBusy rejects a question while a group exchange is still revealing.
var ErrBusy = errors.New("a group exchange is already in flight")

// ApologyReply is attributed to a fallback persona when the service fails.
const ApologyReply = "Sorry, I'm having trouble connecting right now. Please try again in a moment."

// Reveal pacing. Typing time scales with message length so replies never
// appear implausibly instant or implausibly slow.
const (
	revealGap     = 600 * time.Millisecond
	typingPerChar = 30 * time.Millisecond
	typingMin     = 800 * time.Millisecond
	typingMax     = 2500 * time.Millisecond
)

func typingDuration(length int) time.Duration {
	d := time.Duration(length) * typingPerChar
	if d < typingMin {
		return typingMin
	}
	if d > typingMax {
		return typingMax
	}
	return d
}

// EventSink receives the orchestrator's UI events. Implementations must be
// cheap; they run on the asking goroutine.
type EventSink interface {
	TypingStarted(personaID int)
	TypingStopped(personaID int)
	MessageRevealed(msg model.Message)
}

type nopSink struct{}

func (nopSink) TypingStarted(int)             {}
func (nopSink) TypingStopped(int)             {}
func (nopSink) MessageRevealed(model.Message) {}

// Orchestrator decides which personas answer a moderator question, sequences
// their responses with simulated typing delays, and keeps the persona-tagged
// conversation history.
type Orchestrator struct {
	store  persona.Store
	client Responder
	sink   EventSink
	sleep  func(time.Duration)
	pick   func(roster []persona.Persona) []int

	mu       sync.Mutex
	busy     bool
	direct   *persona.Persona
	selected map[int]bool
	messages []model.Message
	history  []APIMessage
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSleep replaces the delay function; tests pass a no-op.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// WithPlaceholderPicker replaces the random placeholder-typing selection
// used while a delegated group request is in flight.
func WithPlaceholderPicker(pick func(roster []persona.Persona) []int) Option {
	return func(o *Orchestrator) { o.pick = pick }
}

// NewOrchestrator wires the orchestrator to the roster and the persona
// service. A nil sink discards events.
func NewOrchestrator(store persona.Store, client Responder, sink EventSink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:  store,
		client: client,
		sink:   sink,
		sleep:  time.Sleep,
		pick:   defaultPlaceholders,
	}
	if o.sink == nil {
		o.sink = nopSink{}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// defaultPlaceholders shows 2-3 random personas as typing while the service
// picks the real responder set. A cosmetic guess: the eventual responders
// may differ.
func defaultPlaceholders(roster []persona.Persona) []int {
	ids := make([]int, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	n := 2 + rand.Intn(2)
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}

// SetDirect enters 1:1 mode with the given persona.
func (o *Orchestrator) SetDirect(personaID int) error {
	p, ok := o.store.FindByID(personaID)
	if !ok {
		return errors.New("persona not found")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.direct = &p
	return nil
}

// ClearDirect returns to group mode.
func (o *Orchestrator) ClearDirect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.direct = nil
}

// Direct reports the 1:1 persona, if any.
func (o *Orchestrator) Direct() (persona.Persona, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.direct == nil {
		return persona.Persona{}, false
	}
	return *o.direct, true
}

// SetSelection narrows which personas may respond in group mode. Unknown
// IDs are dropped; an empty selection restores everyone.
func (o *Orchestrator) SetSelection(ids []int) {
	selected := make(map[int]bool, len(ids))
	for _, id := range ids {
		if _, ok := o.store.FindByID(id); ok {
			selected[id] = true
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if len(selected) == 0 || len(selected) == len(o.store.List()) {
		o.selected = nil
		return
	}
	o.selected = selected
}

// Messages returns a copy of the persona-tagged conversation so far.
func (o *Orchestrator) Messages() []model.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]model.Message, len(o.messages))
	copy(out, o.messages)
	return out
}

// Busy reports whether an exchange is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Ask runs one full moderator turn: resolve targets, issue the request(s)
// sequentially, then reveal the answers one at a time with typing delays.
// Blocks the calling goroutine for the duration of the reveals; UIs run it
// off their render loop.
func (o *Orchestrator) Ask(ctx context.Context, input string) error {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return ErrBusy
	}
	o.busy = true
	direct := o.direct
	apiHistory := append([]APIMessage(nil), o.history...)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	roster := o.store.List()

	// Resolve targeting: 1:1 mode, explicit @mentions, the selection
	// toggle, or delegation to the service.
	var targets []int
	question := input
	if direct != nil {
		targets = []int{direct.ID}
	} else {
		mentioned, cleaned := ParseMentions(input, roster)
		if len(mentioned) > 0 {
			targets = mentioned
			if cleaned != "" {
				question = cleaned
			}
		} else if subset := o.selectedIDs(roster); subset != nil {
			targets = subset
		}
	}

	// The moderator's bubble keeps the original text, mentions included.
	o.appendMessage(model.New(model.RoleUser, input))

	typing := targets
	if typing == nil {
		typing = o.pick(roster)
	}
	for _, id := range typing {
		o.sink.TypingStarted(id)
	}
	stopTyping := func() {
		for _, id := range typing {
			o.sink.TypingStopped(id)
		}
	}

	result, err := o.dispatch(ctx, question, apiHistory, targets)
	stopTyping()
	if err != nil {
		log.Printf("[group] exchange failed: %v", err)
		fallback := o.fallbackPersona(direct, roster)
		o.appendMessage(model.NewFromPersona(fallback.ID, ApologyReply))
		return err
	}

	o.mu.Lock()
	o.history = result.History
	o.mu.Unlock()

	o.reveal(result.Responses)
	return nil
}

// dispatch issues the request(s) for one turn. Targeted personas are asked
// strictly in sequence, each seeing the history updated by the previous
// answer; with no targets the service chooses the responders itself.
func (o *Orchestrator) dispatch(ctx context.Context, question string, history []APIMessage, targets []int) (AskResult, error) {
	if targets == nil {
		return o.client.AskGroup(ctx, question, history)
	}

	var all []PersonaReply
	latest := history
	for _, id := range targets {
		result, err := o.client.AskPersona(ctx, id, question, latest)
		if err != nil {
			return AskResult{}, err
		}
		all = append(all, result.Responses...)
		latest = result.History
	}
	return AskResult{Responses: all, History: latest}, nil
}

// reveal shows the answers one at a time: a short gap between reveals, and a
// typing indicator scaled to each message's length.
func (o *Orchestrator) reveal(responses []PersonaReply) {
	for i, reply := range responses {
		if i > 0 {
			o.sleep(revealGap)
		}

		o.sink.TypingStarted(reply.PersonaID)
		o.sleep(typingDuration(len(reply.Text)))
		o.sink.TypingStopped(reply.PersonaID)

		o.appendMessage(model.NewFromPersona(reply.PersonaID, reply.Text))
	}
}

func (o *Orchestrator) appendMessage(msg model.Message) {
	o.mu.Lock()
	o.messages = append(o.messages, msg)
	o.mu.Unlock()
	o.sink.MessageRevealed(msg)
}

// selectedIDs returns the narrowed target list in roster order, or nil when
// every persona is eligible.
func (o *Orchestrator) selectedIDs(roster []persona.Persona) []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil {
		return nil
	}
	var ids []int
	for _, p := range roster {
		if o.selected[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func (o *Orchestrator) fallbackPersona(direct *persona.Persona, roster []persona.Persona) persona.Persona {
	if direct != nil {
		return *direct
	}
	if subset := o.selectedIDs(roster); subset != nil {
		if p, ok := o.store.FindByID(subset[0]); ok {
			return p
		}
	}
	if len(roster) > 0 {
		return roster[0]
	}
	return persona.Persona{}
}
