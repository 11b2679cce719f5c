package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/news"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context) (*models.RunReport, error)
}

// TriggerRun handles POST /api/runs. It runs the pipeline synchronously and
// returns the run report. Only one run executes at a time; a request arriving
// while a run is in progress gets 409.
func TriggerRun(runner Runner, logger *slog.Logger) http.HandlerFunc {
	var mu sync.Mutex

	return func(w http.ResponseWriter, r *http.Request) {
		if !mu.TryLock() {
			writeError(w, http.StatusConflict, "A run is already in progress")
			return
		}
		defer mu.Unlock()

		report, err := runner.Run(r.Context())
		if err != nil {
			if errors.Is(err, news.ErrNoHeadlines) {
				writeError(w, http.StatusBadGateway, "No headlines available from any news source")
				return
			}
			logger.Error("pipeline run failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Pipeline run failed")
			return
		}

		writeJSON(w, http.StatusCreated, report)
	}
}
