package group

import (
	"reflect"
	"testing"

	"github.com/pitchlabs/pitchroom/internal/model/persona"
)

func testRoster() []persona.Persona {
	return []persona.Persona{
		{ID: 1, Name: "Derek Kowalski"},
		{ID: 2, Name: "Marcus Reeves"},
		{ID: 3, Name: "Jasmine Okonkwo"},
	}
}

func TestParseMentionsSingle(t *testing.T) {
	ids, cleaned := ParseMentions("What do you think, @Derek?", testRoster())

	if !reflect.DeepEqual(ids, []int{1}) {
		t.Fatalf("ids = %v, want [1]", ids)
	}
	if cleaned != "What do you think, ?" {
		t.Fatalf("cleaned = %q", cleaned)
	}
}

func TestParseMentionsCaseInsensitive(t *testing.T) {
	ids, _ := ParseMentions("@derek @MARCUS thoughts?", testRoster())

	if !reflect.DeepEqual(ids, []int{1, 2}) {
		t.Fatalf("ids = %v, want [1 2]", ids)
	}
}

// Mentioned IDs come back in roster order regardless of their position in
// the input.
func TestParseMentionsRosterOrder(t *testing.T) {
	ids, _ := ParseMentions("@Jasmine and @Derek, weigh in", testRoster())

	if !reflect.DeepEqual(ids, []int{1, 3}) {
		t.Fatalf("ids = %v, want [1 3]", ids)
	}
}

func TestParseMentionsUnknownToken(t *testing.T) {
	ids, cleaned := ParseMentions("@Unknown what do you think?", testRoster())

	if ids != nil {
		t.Fatalf("ids = %v, want nil", ids)
	}
	if cleaned != "@Unknown what do you think?" {
		t.Fatalf("unknown token should stay in text, got %q", cleaned)
	}
}

// "@DerekFan" must not match Derek: mentions end at a token boundary.
func TestParseMentionsTokenBoundary(t *testing.T) {
	ids, _ := ParseMentions("@DerekFan says hi", testRoster())

	if ids != nil {
		t.Fatalf("ids = %v, want nil", ids)
	}
}

func TestParseMentionsCollapsesWhitespace(t *testing.T) {
	_, cleaned := ParseMentions("@Derek   @Marcus   hello", testRoster())

	if cleaned != "hello" {
		t.Fatalf("cleaned = %q, want %q", cleaned, "hello")
	}
}

func TestParseMentionsNoMentions(t *testing.T) {
	ids, cleaned := ParseMentions("plain question", testRoster())

	if ids != nil || cleaned != "plain question" {
		t.Fatalf("got ids=%v cleaned=%q", ids, cleaned)
	}
}
