package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/hoanghai1803/cryptopulse/internal/httpclient"
	"google.golang.org/genai"
)

// Compile-time interface check.
var _ Provider = (*GeminiProvider)(nil)

// GeminiProvider implements Provider using the Google Gen AI SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a GeminiProvider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpclient.New(requestTimeout, cfg.Logger),
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate calls GenerateContent with the request's token budget and
// temperature and returns the response text.
func (p *GeminiProvider) Generate(ctx context.Context, r Request) (string, error) {
	result, err := p.client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(r.Prompt),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(r.Temperature)),
			MaxOutputTokens: int32(r.MaxTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generating content: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w: no candidates returned", ErrEmptyResponse)
	}
	return text, nil
}
