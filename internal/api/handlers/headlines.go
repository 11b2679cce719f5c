package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/news"
	"github.com/hoanghai1803/cryptopulse/internal/sanitize"
)

// HeadlineResolver returns up to limit headlines.
type HeadlineResolver interface {
	Resolve(ctx context.Context, limit int) (*news.Result, error)
}

// HeadlinesResponse is the body of GET /api/headlines.
type HeadlinesResponse struct {
	Source    string            `json:"source"`
	Headlines []models.Headline `json:"headlines"`
}

// GetHeadlines handles GET /api/headlines. The optional "limit" query
// parameter overrides the configured headline count.
func GetHeadlines(resolver HeadlineResolver, defaultLimit int, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", defaultLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := resolver.Resolve(r.Context(), limit)
		if err != nil {
			if errors.Is(err, news.ErrNoHeadlines) {
				writeError(w, http.StatusBadGateway, "No headlines available from any news source")
				return
			}
			logger.Error("failed to resolve headlines", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to resolve headlines")
			return
		}

		writeJSON(w, http.StatusOK, HeadlinesResponse{
			Source:    res.Source,
			Headlines: sanitize.Headlines(res.Headlines),
		})
	}
}
