package group

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	model "github.com/pitchlabs/pitchroom/internal/model/chat"
	"github.com/pitchlabs/pitchroom/internal/model/persona"
)

type personaCall struct {
	PersonaID int
	Question  string
	History   []APIMessage
}

// fakeResponder mimics the stateless persona service: each call returns the
// input history extended with the moderator question and the reply.
type fakeResponder struct {
	mu           sync.Mutex
	personaCalls []personaCall
	groupCalls   []string
	groupReplies []PersonaReply
	err          error
}

func (f *fakeResponder) AskGroup(ctx context.Context, question string, history []APIMessage) (AskResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return AskResult{}, f.err
	}
	f.groupCalls = append(f.groupCalls, question)

	next := append(append([]APIMessage(nil), history...), APIMessage{Role: "moderator", Text: question})
	for _, reply := range f.groupReplies {
		next = append(next, APIMessage{Role: "persona", Text: reply.Text, PersonaID: reply.PersonaID, PersonaName: reply.PersonaName})
	}
	return AskResult{Responses: f.groupReplies, History: next}, nil
}

func (f *fakeResponder) AskPersona(ctx context.Context, personaID int, question string, history []APIMessage) (AskResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return AskResult{}, f.err
	}
	f.personaCalls = append(f.personaCalls, personaCall{
		PersonaID: personaID,
		Question:  question,
		History:   append([]APIMessage(nil), history...),
	})

	reply := PersonaReply{PersonaID: personaID, Text: fmt.Sprintf("reply from %d", personaID)}
	next := append(append([]APIMessage(nil), history...),
		APIMessage{Role: "moderator", Text: question},
		APIMessage{Role: "persona", Text: reply.Text, PersonaID: personaID},
	)
	return AskResult{Responses: []PersonaReply{reply}, History: next}, nil
}

type recordedEvent struct {
	Kind      string // "typing-on", "typing-off", "revealed"
	PersonaID int
	Text      string
}

type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (s *recordingSink) TypingStarted(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, recordedEvent{Kind: "typing-on", PersonaID: id})
}

func (s *recordingSink) TypingStopped(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, recordedEvent{Kind: "typing-off", PersonaID: id})
}

func (s *recordingSink) MessageRevealed(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, recordedEvent{Kind: "revealed", PersonaID: msg.PersonaID, Text: msg.Content})
}

func (s *recordingSink) recorded() []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedEvent(nil), s.events...)
}

func newTestOrchestrator(responder Responder, sink EventSink) *Orchestrator {
	store := persona.NewMemoryStore(testRoster())
	return NewOrchestrator(store, responder, sink, WithSleep(func(time.Duration) {}))
}

func TestAskMentionsSequential(t *testing.T) {
	responder := &fakeResponder{}
	sink := &recordingSink{}
	o := newTestOrchestrator(responder, sink)

	if err := o.Ask(context.Background(), "@Derek @Marcus what about the lawsuit?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if len(responder.personaCalls) != 2 {
		t.Fatalf("persona calls = %d, want 2", len(responder.personaCalls))
	}
	if responder.personaCalls[0].PersonaID != 1 || responder.personaCalls[1].PersonaID != 2 {
		t.Fatalf("targets = %d,%d; want 1,2", responder.personaCalls[0].PersonaID, responder.personaCalls[1].PersonaID)
	}
	if got := responder.personaCalls[0].Question; got != "what about the lawsuit?" {
		t.Fatalf("question not cleaned of mentions: %q", got)
	}

	// The second ask must see the history produced by the first.
	second := responder.personaCalls[1].History
	found := false
	for _, msg := range second {
		if msg.Role == "persona" && msg.PersonaID == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("second persona did not see the first persona's reply in history")
	}

	messages := o.Messages()
	if len(messages) != 3 {
		t.Fatalf("messages = %d, want moderator + 2 replies", len(messages))
	}
	// The moderator bubble keeps the original text, mentions included.
	if messages[0].Content != "@Derek @Marcus what about the lawsuit?" {
		t.Fatalf("moderator message = %q", messages[0].Content)
	}
	if messages[1].PersonaID != 1 || messages[2].PersonaID != 2 {
		t.Fatalf("reply attribution = %d,%d", messages[1].PersonaID, messages[2].PersonaID)
	}
}

func TestAskDelegatesWithoutTargets(t *testing.T) {
	responder := &fakeResponder{
		groupReplies: []PersonaReply{
			{PersonaID: 3, Text: "the filings matter"},
			{PersonaID: 1, Text: "589 incoming"},
		},
	}
	sink := &recordingSink{}
	store := persona.NewMemoryStore(testRoster())
	o := NewOrchestrator(store, responder, sink,
		WithSleep(func(time.Duration) {}),
		WithPlaceholderPicker(func(roster []persona.Persona) []int { return []int{2, 3} }),
	)

	if err := o.Ask(context.Background(), "thoughts on the settlement?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if len(responder.groupCalls) != 1 {
		t.Fatalf("group calls = %d, want 1", len(responder.groupCalls))
	}
	if len(responder.personaCalls) != 0 {
		t.Fatal("delegated ask must not hit the individual endpoint")
	}

	events := sink.recorded()
	// Placeholder typing for 2 and 3 first, then the reveals.
	if events[0].Kind != "typing-on" || events[1].Kind != "typing-on" {
		t.Fatalf("expected placeholder typing first, got %+v", events[:2])
	}

	messages := o.Messages()
	if len(messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(messages))
	}
	if messages[1].PersonaID != 3 || messages[2].PersonaID != 1 {
		t.Fatal("replies revealed out of service order")
	}
}

func TestAskDirectMode(t *testing.T) {
	responder := &fakeResponder{}
	o := newTestOrchestrator(responder, nil)

	if err := o.SetDirect(2); err != nil {
		t.Fatalf("set direct failed: %v", err)
	}

	// Mentions are ignored in 1:1 mode; the direct persona wins.
	if err := o.Ask(context.Background(), "@Derek your view?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if len(responder.personaCalls) != 1 || responder.personaCalls[0].PersonaID != 2 {
		t.Fatalf("persona calls = %+v, want single call to 2", responder.personaCalls)
	}

	o.ClearDirect()
	if _, ok := o.Direct(); ok {
		t.Fatal("direct mode survived ClearDirect")
	}
}

func TestAskSelectionSubset(t *testing.T) {
	responder := &fakeResponder{}
	o := newTestOrchestrator(responder, nil)

	o.SetSelection([]int{3, 1})

	if err := o.Ask(context.Background(), "who's buying the dip?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	var ids []int
	for _, call := range responder.personaCalls {
		ids = append(ids, call.PersonaID)
	}
	if !reflect.DeepEqual(ids, []int{1, 3}) {
		t.Fatalf("asked %v, want [1 3] in roster order", ids)
	}
}

func TestSelectionAllRestoresDelegation(t *testing.T) {
	responder := &fakeResponder{groupReplies: []PersonaReply{{PersonaID: 1, Text: "hi"}}}
	o := newTestOrchestrator(responder, nil)

	o.SetSelection([]int{1, 2, 3})

	if err := o.Ask(context.Background(), "anyone?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if len(responder.groupCalls) != 1 {
		t.Fatal("selecting everyone should delegate to the group endpoint")
	}
}

func TestAskFailureAppendsSingleApology(t *testing.T) {
	responder := &fakeResponder{err: errors.New("service down")}
	sink := &recordingSink{}
	o := newTestOrchestrator(responder, sink)

	err := o.Ask(context.Background(), "@Derek @Jasmine what now?")
	if err == nil {
		t.Fatal("expected error")
	}

	messages := o.Messages()
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want moderator + one apology", len(messages))
	}
	if messages[1].Content != ApologyReply {
		t.Fatalf("apology text = %q", messages[1].Content)
	}
	// Attributed to the first targeted persona.
	if messages[1].PersonaID != 1 {
		t.Fatalf("apology attributed to %d, want 1", messages[1].PersonaID)
	}

	// Typing indicators must not be left on.
	on := map[int]bool{}
	for _, e := range sink.recorded() {
		switch e.Kind {
		case "typing-on":
			on[e.PersonaID] = true
		case "typing-off":
			delete(on, e.PersonaID)
		}
	}
	if len(on) != 0 {
		t.Fatalf("typing indicators left on: %v", on)
	}

	// The orchestrator recovers for the next turn.
	responder.err = nil
	if err := o.Ask(context.Background(), "@Derek again?"); err != nil {
		t.Fatalf("ask after failure rejected: %v", err)
	}
}

func TestAskBusyGuard(t *testing.T) {
	release := make(chan struct{})
	responder := &fakeResponder{}
	store := persona.NewMemoryStore(testRoster())
	o := NewOrchestrator(store, responder, nil, WithSleep(func(time.Duration) {
		<-release
	}))

	done := make(chan error, 1)
	go func() {
		done <- o.Ask(context.Background(), "@Derek slow question")
	}()

	// Wait until the first turn reaches its reveal sleep.
	deadline := time.After(2 * time.Second)
	for !o.Busy() {
		select {
		case <-deadline:
			t.Fatal("orchestrator never became busy")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := o.Ask(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first ask failed: %v", err)
	}
	if o.Busy() {
		t.Fatal("orchestrator stuck busy")
	}
}

func TestTypingDuration(t *testing.T) {
	if got := typingDuration(1); got != typingMin {
		t.Fatalf("short message duration = %v, want min %v", got, typingMin)
	}
	if got := typingDuration(10000); got != typingMax {
		t.Fatalf("long message duration = %v, want max %v", got, typingMax)
	}
	if got := typingDuration(50); got != 1500*time.Millisecond {
		t.Fatalf("mid message duration = %v, want 1.5s", got)
	}
}
