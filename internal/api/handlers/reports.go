package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/output"
)

// ReportStore lists and loads run reports.
type ReportStore interface {
	ListReports() ([]string, error)
	ReadReport(timestamp string) (*models.RunReport, error)
}

// ListReports handles GET /api/reports. It returns report timestamps,
// newest first.
func ListReports(store ReportStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		timestamps, err := store.ListReports()
		if err != nil {
			logger.Error("failed to list reports", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list reports")
			return
		}
		writeJSON(w, http.StatusOK, timestamps)
	}
}

// GetReport handles GET /api/reports/{timestamp}.
func GetReport(store ReportStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeReport(w, store, chi.URLParam(r, "timestamp"), logger)
	}
}

// GetLatestReport handles GET /api/reports/latest.
func GetLatestReport(store ReportStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		timestamps, err := store.ListReports()
		if err != nil {
			logger.Error("failed to list reports", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list reports")
			return
		}
		if len(timestamps) == 0 {
			writeError(w, http.StatusNotFound, "No runs yet")
			return
		}
		writeReport(w, store, timestamps[0], logger)
	}
}

func writeReport(w http.ResponseWriter, store ReportStore, timestamp string, logger *slog.Logger) {
	report, err := store.ReadReport(timestamp)
	if err != nil {
		if errors.Is(err, output.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "Report not found")
			return
		}
		logger.Error("failed to read report", "timestamp", timestamp, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
