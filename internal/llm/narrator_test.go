package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/thornquist/loreweaver/pkg/types"
)

// stubGenerator returns a canned response or error for every completion.
type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) GetModel() string { return "stub" }

func TestNarratorGenerateReply(t *testing.T) {
	stub := &stubGenerator{response: `{"message": "Well met.", "mood": "happy"}`}
	narrator := NewNarrator(stub)

	reply, err := narrator.GenerateReply(context.Background(), promptCharacter(), nil, nil, nil, "Hello")
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply.Message != "Well met." || reply.Mood != "happy" {
		t.Errorf("reply = %+v", reply)
	}
}

func TestNarratorGenerateReplyPropagatesTransportError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("backend down")}
	narrator := NewNarrator(stub)

	if _, err := narrator.GenerateReply(context.Background(), promptCharacter(), nil, nil, nil, "Hello"); err == nil {
		t.Error("expected transport error to propagate")
	}
}

func TestNarratorGenerateReplyDegradesOnBadJSON(t *testing.T) {
	stub := &stubGenerator{response: "The mage stares silently."}
	narrator := NewNarrator(stub)

	reply, err := narrator.GenerateReply(context.Background(), promptCharacter(), nil, nil, nil, "Hello")
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply.Message != "The mage stares silently." || reply.Mood != "neutral" {
		t.Errorf("degraded reply = %+v, want raw text with neutral mood", reply)
	}
}

func TestNarratorSummarizeFallback(t *testing.T) {
	stub := &stubGenerator{err: errors.New("backend down")}
	narrator := NewNarrator(stub)

	summary := narrator.Summarize(context.Background(), []*types.Message{
		{Sender: types.SenderUser, Content: "Hello"},
	})
	if summary != SummaryUnavailable {
		t.Errorf("summary = %q, want fallback", summary)
	}
}

func TestNarratorExtractFactsBestEffort(t *testing.T) {
	history := []*types.Message{{Sender: types.SenderUser, Content: "My name is Alex"}}

	// Transport failure yields no facts.
	narrator := NewNarrator(&stubGenerator{err: errors.New("backend down")})
	if facts := narrator.ExtractFacts(context.Background(), history); len(facts) != 0 {
		t.Errorf("facts after transport error = %v, want none", facts)
	}

	// Parse failure also yields no facts.
	narrator = NewNarrator(&stubGenerator{response: "not an array"})
	if facts := narrator.ExtractFacts(context.Background(), history); len(facts) != 0 {
		t.Errorf("facts after parse error = %v, want none", facts)
	}

	// Success path.
	narrator = NewNarrator(&stubGenerator{response: `["User's name is Alex"]`})
	facts := narrator.ExtractFacts(context.Background(), history)
	if len(facts) != 1 || facts[0] != "User's name is Alex" {
		t.Errorf("facts = %v", facts)
	}
}

func TestNarratorGenerateWorldEvent(t *testing.T) {
	stub := &stubGenerator{response: `{"eventName": "Storm", "description": "A storm rolls in", "severity": "medium", "affectedLocations": ["Coast"]}`}
	narrator := NewNarrator(stub)

	event, err := narrator.GenerateWorldEvent(context.Background())
	if err != nil {
		t.Fatalf("GenerateWorldEvent failed: %v", err)
	}
	if event.EventName != "Storm" || event.Severity != "medium" {
		t.Errorf("event = %+v", event)
	}

	// Errors propagate, both transport and parse.
	narrator = NewNarrator(&stubGenerator{err: errors.New("backend down")})
	if _, err := narrator.GenerateWorldEvent(context.Background()); err == nil {
		t.Error("expected transport error to propagate")
	}
	narrator = NewNarrator(&stubGenerator{response: "no event"})
	if _, err := narrator.GenerateWorldEvent(context.Background()); err == nil {
		t.Error("expected parse error to propagate")
	}
}
