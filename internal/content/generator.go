package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/cryptopulse/internal/ai"
)

// ErrGeneration is returned when the provider fails to produce a content type.
var ErrGeneration = errors.New("content generation failed")

// Generator produces content through an ai.Provider. A Generator with a nil
// provider never touches the network and returns deterministic fallbacks.
type Generator struct {
	provider ai.Provider
	logger   *slog.Logger
}

// NewGenerator creates a Generator. provider may be nil.
func NewGenerator(provider ai.Provider, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{provider: provider, logger: logger}
}

// Generate produces the content for t from in.
func (g *Generator) Generate(ctx context.Context, t Type, in Input) (string, error) {
	if g.provider == nil {
		g.logger.Warn("no AI provider configured, using fallback content", "type", t.Name)
		return Fallback(t, in), nil
	}

	start := time.Now()
	text, err := g.provider.Generate(ctx, ai.Request{
		Prompt:      t.Prompt(in),
		MaxTokens:   t.MaxTokens,
		Temperature: t.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s via %s: %w", ErrGeneration, t.Name, g.provider.Name(), err)
	}

	g.logger.Info("content generated",
		"type", t.Name,
		"provider", g.provider.Name(),
		"words", CountWords(text),
		"duration", time.Since(start).String(),
	)
	return text, nil
}

// Fallback returns the content used when no provider is configured. The
// summary degrades to the raw headline list; every other type is a marked
// placeholder followed by that list.
func Fallback(t Type, in Input) string {
	list := BulletList(t.headlines(in))
	if t.Name == Summary.Name {
		return list
	}
	return fmt.Sprintf("[%s unavailable: no AI provider configured]\n\n%s", t.Name, list)
}
