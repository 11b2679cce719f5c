// Package ai wraps the large-language-model APIs used to turn headlines into
// written content. Every provider exposes the same single-prompt completion
// capability parameterized by token budget and temperature.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// requestTimeout bounds a single completion call.
const requestTimeout = 90 * time.Second

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// Provider is the interface that all LLM providers must implement.
type Provider interface {
	// Name identifies the provider in logs ("openai", "anthropic", "gemini").
	Name() string

	// Generate sends req.Prompt as a single user message and returns the
	// model's text reply.
	Generate(ctx context.Context, req Request) (string, error)
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("creating %s provider: API key is required", cfg.Provider)
	}
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
