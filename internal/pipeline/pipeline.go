// Package pipeline sequences a CryptoPulse run: resolve headlines, sanitize
// them, generate every content type, write the artifacts and publish short
// posts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoanghai1803/cryptopulse/internal/content"
	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/news"
	"github.com/hoanghai1803/cryptopulse/internal/output"
	"github.com/hoanghai1803/cryptopulse/internal/sanitize"
)

// HeadlineResolver returns up to limit headlines.
type HeadlineResolver interface {
	Resolve(ctx context.Context, limit int) (*news.Result, error)
}

// ArticleExtractor returns the readable body text of an article.
type ArticleExtractor interface {
	Extract(articleURL string) (string, error)
}

// ContentGenerator produces one content type.
type ContentGenerator interface {
	Generate(ctx context.Context, t content.Type, in content.Input) (string, error)
}

// PostPublisher publishes a batch of short posts.
type PostPublisher interface {
	PublishAll(ctx context.Context, texts []string) []models.PostResult
}

// Options configures a Pipeline. Extractor is optional.
type Options struct {
	Resolver  HeadlineResolver
	Extractor ArticleExtractor
	Generator ContentGenerator
	Publisher PostPublisher
	Writer    *output.Writer
	Logger    *slog.Logger

	Limit    int
	MaxPosts int
	DryRun   bool
}

// Pipeline runs the whole headline-to-post flow once per Run call.
type Pipeline struct {
	opts  Options
	types []content.Type
	now   func() time.Time
}

// New creates a Pipeline generating every content type in order.
func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		opts:  opts,
		types: content.Types(),
		now:   time.Now,
	}
}

// Run executes one pipeline run. Only a failure to obtain any headline is
// returned as an error; generation, write and publish failures are logged,
// recorded in the report and do not stop the run.
func (p *Pipeline) Run(ctx context.Context) (*models.RunReport, error) {
	log := p.opts.Logger
	started := p.now().UTC()
	timestamp := output.Timestamp(started)

	report := &models.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: started,
		DryRun:    p.opts.DryRun,
		Artifacts: []models.Artifact{},
		Posts:     []models.PostResult{},
	}
	log = log.With("run_id", report.RunID)
	log.Info("run started", "timestamp", timestamp, "dry_run", p.opts.DryRun)

	res, err := p.opts.Resolver.Resolve(ctx, p.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("run aborted: %w", err)
	}
	headlines := sanitize.Headlines(res.Headlines)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("run aborted: %w: all titles empty after sanitizing", news.ErrNoHeadlines)
	}
	report.HeadlineSource = res.Source
	report.Headlines = headlines
	log.Info("headlines ready", "source", res.Source, "count", len(headlines))

	in := content.Input{Headlines: headlines, LeadArticle: p.leadArticle(log, headlines[0])}

	for _, t := range p.types {
		text, err := p.opts.Generator.Generate(ctx, t, in)
		if err != nil {
			log.Error("content generation failed", "type", t.Name, "error", err)
			report.Failures = append(report.Failures, models.GenerationFailure{ContentType: t.Name, Error: err.Error()})
			continue
		}

		artifact, err := p.opts.Writer.WriteContent(timestamp, t, text)
		if err != nil {
			log.Error("writing artifact failed", "type", t.Name, "error", err)
			report.Failures = append(report.Failures, models.GenerationFailure{ContentType: t.Name, Error: err.Error()})
			continue
		}
		report.Artifacts = append(report.Artifacts, artifact)
	}

	report.Posts = p.opts.Publisher.PublishAll(ctx, PostTexts(headlines, p.opts.MaxPosts))

	report.FinishedAt = p.now().UTC()
	if _, err := p.opts.Writer.WriteReport(timestamp, report); err != nil {
		log.Error("writing run report failed", "error", err)
	}

	log.Info("run finished",
		"artifacts", len(report.Artifacts),
		"failures", len(report.Failures),
		"posts", len(report.Posts),
		"duration", report.FinishedAt.Sub(started).String(),
	)
	return report, nil
}

// leadArticle extracts the first headline's article when an extractor is
// configured. Failures only cost the extra context.
func (p *Pipeline) leadArticle(log *slog.Logger, lead models.Headline) string {
	if p.opts.Extractor == nil || lead.URL == "" {
		return ""
	}
	text, err := p.opts.Extractor.Extract(lead.URL)
	if err != nil {
		log.Warn("lead article extraction failed", "url", lead.URL, "error", err)
		return ""
	}
	log.Debug("lead article extracted", "url", lead.URL, "words", content.CountWords(text))
	return sanitize.Text(text)
}

// PostTexts returns the titles of the first n headlines. A trailing
// annotation naming the headline's own source is removed; any other
// parenthetical is part of the headline and kept.
func PostTexts(headlines []models.Headline, n int) []string {
	n = min(max(n, 0), len(headlines))
	texts := make([]string, 0, n)
	for _, h := range headlines[:n] {
		texts = append(texts, sanitize.StripSource(h.Title, h.Source))
	}
	return texts
}
