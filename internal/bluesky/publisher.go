package bluesky

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/sanitize"
)

// MaxPostLength is the post length limit in characters.
const MaxPostLength = 280

// Publisher publishes one post per call: authenticate, construct the record,
// create it. In dry-run mode it only logs the text it would have posted.
type Publisher struct {
	client *Client
	dryRun bool
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher creates a Publisher. client may be nil when dryRun is true.
func NewPublisher(client *Client, dryRun bool, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client: client,
		dryRun: dryRun,
		logger: logger,
		now:    time.Now,
	}
}

// NewRecord builds the post record for text: sanitized, cut to
// MaxPostLength runes and stamped with the current UTC time in RFC 3339.
func NewRecord(text string, now time.Time) models.PostRecord {
	return models.PostRecord{
		Type:      postCollection,
		Text:      sanitize.Truncate(sanitize.Text(text), MaxPostLength),
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
}

// Publish posts text and reports the outcome.
func (p *Publisher) Publish(ctx context.Context, text string) (models.PostResult, error) {
	record := NewRecord(text, p.now())
	result := models.PostResult{Text: record.Text}

	if p.dryRun {
		p.logger.Info("simulated post", "text", record.Text, "length", len([]rune(record.Text)))
		result.Status = models.PostSimulated
		return result, nil
	}

	if err := p.publish(ctx, record); err != nil {
		result.Status = models.PostFailed
		result.Error = err.Error()
		return result, err
	}

	p.logger.Info("post published", "text", record.Text)
	result.Status = models.PostPublished
	return result, nil
}

func (p *Publisher) publish(ctx context.Context, record models.PostRecord) error {
	if record.Text == "" {
		return fmt.Errorf("%w: empty post text", ErrPublishFailed)
	}
	if p.client == nil {
		return fmt.Errorf("%w: no client configured", ErrAuthFailed)
	}

	token, err := p.client.CreateSession(ctx)
	if err != nil {
		return err
	}
	return p.client.CreateRecord(ctx, token, record)
}

// PublishAll publishes each text in order. A failed post is logged and
// recorded; it never stops the remaining posts.
func (p *Publisher) PublishAll(ctx context.Context, texts []string) []models.PostResult {
	results := make([]models.PostResult, 0, len(texts))
	for i, text := range texts {
		result, err := p.Publish(ctx, text)
		if err != nil {
			p.logger.Warn("post failed", "index", i, "text", result.Text, "error", err)
		}
		results = append(results, result)
	}
	return results
}
