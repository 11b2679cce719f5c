package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/sanitize"
)

// Resolver obtains the run's headlines from a primary source and consults
// the fallback source when the primary fails.
type Resolver struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

// NewResolver creates a Resolver. Either source may be nil, in which case it
// is treated as unavailable.
func NewResolver(primary, fallback Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{primary: primary, fallback: fallback, logger: logger}
}

// Result is a resolved headline set together with the name of the source
// that produced it.
type Result struct {
	Source    string
	Headlines []models.Headline
}

// Resolve returns at most limit headlines. It tries the primary source
// first; on any error or an empty result it tries the fallback source.
// ErrNoHeadlines is returned when both attempts come up empty.
func (r *Resolver) Resolve(ctx context.Context, limit int) (*Result, error) {
	if limit < 1 {
		return nil, fmt.Errorf("resolving headlines: invalid limit %d", limit)
	}

	primary, primaryErr := r.try(ctx, r.primary, limit)
	if primaryErr == nil {
		r.logger.Info("headlines fetched", "source", r.primary.Name(), "count", len(primary))
		return &Result{Source: r.primary.Name(), Headlines: primary}, nil
	}
	r.logger.Warn("primary news source failed, using fallback feed", "error", primaryErr)

	fallback, fallbackErr := r.try(ctx, r.fallback, limit)
	if fallbackErr == nil {
		r.logger.Info("headlines fetched", "source", r.fallback.Name(), "count", len(fallback))
		return &Result{Source: r.fallback.Name(), Headlines: fallback}, nil
	}
	r.logger.Error("fallback news source failed", "error", fallbackErr)

	return nil, fmt.Errorf("%w: %w", ErrNoHeadlines, errors.Join(primaryErr, fallbackErr))
}

// try runs a single source attempt and caps the result at limit. Headlines
// are sanitized before the emptiness check so a source whose titles are all
// links or whitespace counts as empty.
func (r *Resolver) try(ctx context.Context, src Source, limit int) ([]models.Headline, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: not configured", ErrSourceUnavailable)
	}
	headlines, err := src.Fetch(ctx, limit)
	if err != nil {
		return nil, err
	}
	headlines = sanitize.Headlines(headlines)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("%w: %s returned no headlines", ErrSourceUnavailable, src.Name())
	}
	if len(headlines) > limit {
		headlines = headlines[:limit]
	}
	return headlines, nil
}
