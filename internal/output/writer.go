// Package output persists generated content and run reports as flat files.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hoanghai1803/cryptopulse/internal/content"
	"github.com/hoanghai1803/cryptopulse/internal/models"
)

// TimestampLayout names every artifact of a run, e.g. "2025-03-14_093005".
const TimestampLayout = "2006-01-02_150405"

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Writer writes artifacts into a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir. The directory is created on the
// first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteContent writes text to "<timestamp>_<name>.<ext>" and describes the
// resulting artifact.
func (w *Writer) WriteContent(timestamp string, t content.Type, text string) (models.Artifact, error) {
	path := filepath.Join(w.dir, t.Filename(timestamp))
	if err := w.write(path, []byte(text)); err != nil {
		return models.Artifact{}, err
	}

	artifact := models.Artifact{
		ContentType:    t.Name,
		Path:           path,
		Words:          content.CountWords(text),
		ReadingMinutes: content.ReadingMinutes(text),
	}
	w.logger.Info("artifact written",
		"type", t.Name,
		"path", path,
		"words", artifact.Words,
		"reading_minutes", artifact.ReadingMinutes,
	)
	return artifact, nil
}

// WriteReport writes report as indented JSON to "<timestamp>_report.json"
// and returns its path.
func (w *Writer) WriteReport(timestamp string, report *models.RunReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding run report: %w", err)
	}

	path := filepath.Join(w.dir, timestamp+reportSuffix)
	if err := w.write(path, append(data, '\n')); err != nil {
		return "", err
	}
	w.logger.Info("run report written", "path", path)
	return path, nil
}

func (w *Writer) write(path string, data []byte) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
