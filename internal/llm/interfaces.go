package llm

import "context"

// TextGenerator is the interface for LLM text completion. All narrative
// prompts use single-string completion style (not chat); conversation history
// is rendered into the prompt itself.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GetModel() string
}
