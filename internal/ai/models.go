package ai

import "log/slog"

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "openai" | "anthropic" | "gemini"
	APIKey   string
	Model    string
	BaseURL  string // optional; overrides the provider's public endpoint
	Logger   *slog.Logger
}

// Request is a single prompt completion request.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}
