package llm

import (
	"context"
	"fmt"
	"time"
)

// ProviderConfig holds provider selection plus connection settings.
type ProviderConfig struct {
	Provider string // "ollama" (default), "openai", or "gemini"
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewTextGenerator creates the appropriate TextGenerator for the configured
// provider. An empty provider defaults to Ollama so a fresh install works
// without any API keys.
func NewTextGenerator(ctx context.Context, cfg ProviderConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}), nil
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	case "ollama", "":
		return NewOllamaClient(OllamaConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
