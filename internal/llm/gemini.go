package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey  string
	Model   string        // default: gemini-2.0-flash
	Timeout time.Duration // default: 60s
}

// GeminiClient implements TextGenerator using Google's Gemini API.
type GeminiClient struct {
	client         *genai.Client
	model          string
	timeout        time.Duration
	circuitBreaker *CircuitBreaker
}

// NewGeminiClient creates a new Gemini client with the given configuration.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:         client,
		model:          cfg.Model,
		timeout:        cfg.Timeout,
		circuitBreaker: NewCircuitBreaker(),
	}, nil
}

// Complete sends a single-turn completion to Gemini and returns the response text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.circuitBreaker.Execute(ctx, func() (interface{}, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			return "", fmt.Errorf("gemini circuit breaker open: %w", err)
		}
		return "", err
	}
	return result.(string), nil
}

func (c *GeminiClient) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// GetModel returns the configured model name.
func (c *GeminiClient) GetModel() string {
	return c.model
}

// Compile-time assertion.
var _ TextGenerator = (*GeminiClient)(nil)
