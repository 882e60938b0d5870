package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/thornquist/loreweaver/pkg/types"
)

// SummaryUnavailable is returned by Summarize when the backend fails. The
// rolling summary is a best-effort enrichment; a missing one never blocks a
// conversation turn.
const SummaryUnavailable = "Conversation summary unavailable."

// Narrator adapts a raw TextGenerator into the narrative operations the
// engine needs. It owns all prompt construction and response parsing, so
// the engine never sees raw completions.
type Narrator struct {
	generator TextGenerator
}

// NewNarrator creates a Narrator backed by the given text generator.
func NewNarrator(generator TextGenerator) *Narrator {
	return &Narrator{generator: generator}
}

// GetModel returns the backing model name.
func (n *Narrator) GetModel() string {
	return n.generator.GetModel()
}

// GenerateReply produces a character's response to a user message. Transport
// failures propagate to the caller; malformed output degrades to a plain-text
// reply with neutral mood rather than failing the turn.
func (n *Narrator) GenerateReply(ctx context.Context, character *types.Character, history []*types.Message, events []*types.WorldEvent, conversation *types.Conversation, userMessage string) (*CharacterReply, error) {
	prompt := BuildCharacterPrompt(character, history, events, conversation, userMessage)

	raw, err := n.generator.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate character reply: %w", err)
	}

	return ParseCharacterReply(raw), nil
}

// Summarize condenses a conversation's full history into a short summary.
// Failures degrade to SummaryUnavailable rather than propagating.
func (n *Narrator) Summarize(ctx context.Context, history []*types.Message) string {
	raw, err := n.generator.Complete(ctx, BuildSummaryPrompt(history))
	if err != nil {
		log.Printf("llm: summary generation failed: %v", err)
		return SummaryUnavailable
	}
	return raw
}

// ExtractFacts pulls durable user facts from recent user messages. Any
// failure (transport or parse) yields an empty list; fact extraction is
// strictly best-effort.
func (n *Narrator) ExtractFacts(ctx context.Context, history []*types.Message) []string {
	raw, err := n.generator.Complete(ctx, BuildFactExtractionPrompt(history))
	if err != nil {
		log.Printf("llm: fact extraction failed: %v", err)
		return nil
	}

	facts, err := ParseFacts(raw)
	if err != nil {
		log.Printf("llm: fact extraction returned unparseable output: %v", err)
		return nil
	}
	return facts
}

// GenerateWorldEvent asks the backend to invent a world event. Errors
// propagate: callers trigger this deliberately and need to know it failed.
func (n *Narrator) GenerateWorldEvent(ctx context.Context) (*WorldEventResponse, error) {
	raw, err := n.generator.Complete(ctx, BuildWorldEventPrompt())
	if err != nil {
		return nil, fmt.Errorf("failed to generate world event: %w", err)
	}

	event, err := ParseWorldEvent(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse world event: %w", err)
	}
	return event, nil
}
