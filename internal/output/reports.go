package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hoanghai1803/cryptopulse/internal/models"
)

// ErrReportNotFound is returned when no report exists for a timestamp.
var ErrReportNotFound = errors.New("report not found")

const reportSuffix = "_report.json"

// ListReports returns the timestamps of every run report in the output
// directory, newest first. A missing directory yields an empty list.
func (w *Writer) ListReports() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	timestamps := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, reportSuffix) {
			continue
		}
		ts := strings.TrimSuffix(name, reportSuffix)
		if _, err := time.Parse(TimestampLayout, ts); err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(timestamps)))
	return timestamps, nil
}

// ReadReport loads the run report written at timestamp.
func (w *Writer) ReadReport(timestamp string) (*models.RunReport, error) {
	if _, err := time.Parse(TimestampLayout, timestamp); err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp %q", ErrReportNotFound, timestamp)
	}

	data, err := os.ReadFile(filepath.Join(w.dir, timestamp+reportSuffix))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, timestamp)
	}
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", timestamp, err)
	}

	var report models.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", timestamp, err)
	}
	return &report, nil
}
