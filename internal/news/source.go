// Package news resolves the headline set for a run from a primary news
// aggregator, falling back to a syndication feed when the aggregator fails.
package news

import (
	"context"
	"errors"
	"time"

	"github.com/hoanghai1803/cryptopulse/internal/models"
)

const httpTimeout = 20 * time.Second

var (
	// ErrSourceUnavailable is returned when a source could not produce any
	// headlines: network error, non-2xx response, missing credentials or an
	// empty result set.
	ErrSourceUnavailable = errors.New("news source unavailable")

	// ErrNoHeadlines is returned when neither the primary nor the fallback
	// source yielded a single headline.
	ErrNoHeadlines = errors.New("no headlines available")
)

// Source fetches an ordered list of headlines.
type Source interface {
	// Name identifies the source in logs and run reports.
	Name() string

	// Fetch returns at most limit headlines in the source's ranking order.
	Fetch(ctx context.Context, limit int) ([]models.Headline, error)
}
