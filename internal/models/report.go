package models

import "time"

// Publish result statuses.
const (
	PostPublished = "published"
	PostSimulated = "simulated"
	PostFailed    = "failed"
)

// PostRecord is the app.bsky.feed.post record submitted to the social platform.
type PostRecord struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// PostResult is the outcome of a single publish call.
type PostResult struct {
	Text   string `json:"text"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Artifact describes a generated content file written during a run.
type Artifact struct {
	ContentType    string `json:"content_type"`
	Path           string `json:"path"`
	Words          int    `json:"words"`
	ReadingMinutes int    `json:"reading_minutes"`
}

// GenerationFailure records a content type whose generation failed.
type GenerationFailure struct {
	ContentType string `json:"content_type"`
	Error       string `json:"error"`
}

// RunReport is the audit trail of a single pipeline run.
type RunReport struct {
	RunID          string              `json:"run_id"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
	HeadlineSource string              `json:"headline_source"`
	Headlines      []Headline          `json:"headlines"`
	Artifacts      []Artifact          `json:"artifacts"`
	Failures       []GenerationFailure `json:"failures,omitempty"`
	Posts          []PostResult        `json:"posts"`
	DryRun         bool                `json:"dry_run"`
}
