package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoanghai1803/cryptopulse/internal/bluesky"
	"github.com/hoanghai1803/cryptopulse/internal/content"
	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/hoanghai1803/cryptopulse/internal/news"
	"github.com/hoanghai1803/cryptopulse/internal/output"
)

type stubResolver struct {
	result *news.Result
	err    error
	limit  int
}

func (s *stubResolver) Resolve(_ context.Context, limit int) (*news.Result, error) {
	s.limit = limit
	return s.result, s.err
}

type stubGenerator struct {
	fail  map[string]error
	order []string
	input content.Input
}

func (s *stubGenerator) Generate(_ context.Context, t content.Type, in content.Input) (string, error) {
	s.order = append(s.order, t.Name)
	s.input = in
	if err := s.fail[t.Name]; err != nil {
		return "", err
	}
	return "generated " + t.Name, nil
}

type stubExtractor struct {
	text string
	err  error
	urls []string
}

func (s *stubExtractor) Extract(articleURL string) (string, error) {
	s.urls = append(s.urls, articleURL)
	return s.text, s.err
}

type recordingPublisher struct {
	texts []string
}

func (r *recordingPublisher) PublishAll(_ context.Context, texts []string) []models.PostResult {
	r.texts = texts
	results := make([]models.PostResult, 0, len(texts))
	for _, t := range texts {
		results = append(results, models.PostResult{Text: t, Status: models.PostSimulated})
	}
	return results
}

func sixHeadlines() []models.Headline {
	return []models.Headline{
		{Title: "Bitcoin hits new high", Source: "CoinDesk", URL: "https://coindesk.com/btc"},
		{Title: "ETH upgrade delayed", Source: "TheBlock"},
		{Title: "Solana   outage\nresolved https://t.co/x"},
		{Title: "https://only.a.link"},
		{Title: "SEC delays ETF decision", Source: "Reuters"},
		{Title: "Ripple wins appeal"},
		{Title: "Cardano — new roadmap"},
	}
}

func newTestPipeline(t *testing.T, resolver HeadlineResolver, gen ContentGenerator, pub PostPublisher) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	p := New(Options{
		Resolver:  resolver,
		Generator: gen,
		Publisher: pub,
		Writer:    output.NewWriter(dir, nil),
		Limit:     6,
		MaxPosts:  5,
		DryRun:    true,
	})
	p.now = func() time.Time { return time.Date(2025, 3, 14, 8, 30, 0, 0, time.UTC) }
	return p, dir
}

func TestRun_HappyPath(t *testing.T) {
	resolver := &stubResolver{result: &news.Result{Source: "cryptopanic", Headlines: sixHeadlines()}}
	gen := &stubGenerator{}
	pub := &recordingPublisher{}
	p, dir := newTestPipeline(t, resolver, gen, pub)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, resolver.limit)
	assert.Equal(t, []string{"summary", "linkedin", "newsletter", "short", "posts"}, gen.order)

	assert.Equal(t, "cryptopanic", report.HeadlineSource)
	require.Len(t, report.Headlines, 6, "link-only title dropped by sanitizing")
	assert.Equal(t, "Solana outage resolved", report.Headlines[2].Title)
	assert.Equal(t, "Cardano - new roadmap", report.Headlines[5].Title)
	assert.NotEmpty(t, report.RunID)
	assert.True(t, report.DryRun)
	assert.Empty(t, report.Failures)

	assert.Equal(t, []string{
		"Bitcoin hits new high",
		"ETH upgrade delayed",
		"Solana outage resolved",
		"SEC delays ETF decision",
		"Ripple wins appeal",
	}, pub.texts)
	assert.Len(t, report.Posts, 5)

	require.Len(t, report.Artifacts, 5)
	for _, a := range report.Artifacts {
		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, "generated "+a.ContentType, string(data))
	}
	assert.FileExists(t, filepath.Join(dir, "2025-03-14_083000_summary.md"))
	assert.FileExists(t, filepath.Join(dir, "2025-03-14_083000_short.txt"))

	data, err := os.ReadFile(filepath.Join(dir, "2025-03-14_083000_report.json"))
	require.NoError(t, err)
	var saved models.RunReport
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, report.RunID, saved.RunID)
	assert.Len(t, saved.Artifacts, 5)
}

func TestRun_NoHeadlinesAborts(t *testing.T) {
	resolver := &stubResolver{err: news.ErrNoHeadlines}
	gen := &stubGenerator{}
	pub := &recordingPublisher{}
	p, dir := newTestPipeline(t, resolver, gen, pub)

	report, err := p.Run(context.Background())
	require.ErrorIs(t, err, news.ErrNoHeadlines)
	assert.Nil(t, report)
	assert.Empty(t, gen.order, "nothing generated")
	assert.Nil(t, pub.texts, "nothing published")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing written")
}

func TestRun_AllTitlesEmptyAfterSanitizing(t *testing.T) {
	resolver := &stubResolver{result: &news.Result{Source: "rss", Headlines: []models.Headline{
		{Title: "https://a.example"}, {Title: " \t "},
	}}}
	p, _ := newTestPipeline(t, resolver, &stubGenerator{}, &recordingPublisher{})

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, news.ErrNoHeadlines)
}

func TestRun_GenerationFailureIsolated(t *testing.T) {
	resolver := &stubResolver{result: &news.Result{Source: "rss", Headlines: sixHeadlines()}}
	gen := &stubGenerator{fail: map[string]error{
		"linkedin": errors.New("openai: unexpected status code: 500"),
	}}
	pub := &recordingPublisher{}
	p, dir := newTestPipeline(t, resolver, gen, pub)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"summary", "linkedin", "newsletter", "short", "posts"}, gen.order, "later types still generated")
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "linkedin", report.Failures[0].ContentType)
	assert.Contains(t, report.Failures[0].Error, "500")
	assert.Len(t, report.Artifacts, 4)
	assert.NoFileExists(t, filepath.Join(dir, "2025-03-14_083000_linkedin.txt"))
	assert.Len(t, pub.texts, 5, "publishing still happens")
}

func TestRun_LeadArticle(t *testing.T) {
	resolver := &stubResolver{result: &news.Result{Source: "rss", Headlines: sixHeadlines()}}
	gen := &stubGenerator{}
	ext := &stubExtractor{text: "Bitcoin climbed\nabove its record."}
	p, _ := newTestPipeline(t, resolver, gen, &recordingPublisher{})
	p.opts.Extractor = ext

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"https://coindesk.com/btc"}, ext.urls)
	assert.Equal(t, "Bitcoin climbed above its record.", gen.input.LeadArticle)
}

func TestRun_LeadArticleFailureIgnored(t *testing.T) {
	resolver := &stubResolver{result: &news.Result{Source: "rss", Headlines: sixHeadlines()}}
	gen := &stubGenerator{}
	p, _ := newTestPipeline(t, resolver, gen, &recordingPublisher{})
	p.opts.Extractor = &stubExtractor{err: errors.New("timeout")}

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gen.input.LeadArticle)
	assert.Len(t, report.Artifacts, 5)
}

func TestRun_DryRunEndToEnd_NoProvider(t *testing.T) {
	resolver := &stubResolver{result: &news.Result{Source: "rss", Headlines: []models.Headline{
		{Title: "Bitcoin hits new high (CoinDesk)", Source: "CoinDesk"},
		{Title: "ETH upgrade delayed (TheBlock)", Source: "TheBlock"},
	}}}
	dir := t.TempDir()
	p := New(Options{
		Resolver:  resolver,
		Generator: content.NewGenerator(nil, nil),
		Publisher: bluesky.NewPublisher(nil, true, nil),
		Writer:    output.NewWriter(dir, nil),
		Limit:     6,
		MaxPosts:  5,
		DryRun:    true,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.PostResult{
		{Text: "Bitcoin hits new high", Status: models.PostSimulated},
		{Text: "ETH upgrade delayed", Status: models.PostSimulated},
	}, report.Posts)
	require.Len(t, report.Artifacts, 5)
	assert.Equal(t, "summary", report.Artifacts[0].ContentType)
}

func TestPostTexts_SourceAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		headline models.Headline
		want     string
	}{
		{
			name:     "qualifier in parentheses",
			headline: models.Headline{Title: "Bitcoin ETF inflows hit $1B (record)", Source: "CoinDesk"},
			want:     "Bitcoin ETF inflows hit $1B (record)",
		},
		{
			name:     "ticker in parentheses",
			headline: models.Headline{Title: "Ether rallies (ETH)"},
			want:     "Ether rallies (ETH)",
		},
		{
			name:     "own source stripped",
			headline: models.Headline{Title: "Bitcoin hits new high (CoinDesk)", Source: "CoinDesk"},
			want:     "Bitcoin hits new high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.want}, PostTexts([]models.Headline{tt.headline}, 1))
		})
	}
}

func TestRun_TwoRunsInSameMinuteKeepSeparateReports(t *testing.T) {
	dir := t.TempDir()
	writer := output.NewWriter(dir, nil)

	var runIDs []string
	for _, second := range []int{5, 40} {
		p := New(Options{
			Resolver:  &stubResolver{result: &news.Result{Source: "rss", Headlines: sixHeadlines()}},
			Generator: &stubGenerator{},
			Publisher: &recordingPublisher{},
			Writer:    writer,
			Limit:     6,
			MaxPosts:  5,
			DryRun:    true,
		})
		p.now = func() time.Time { return time.Date(2025, 3, 14, 8, 30, second, 0, time.UTC) }

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		runIDs = append(runIDs, report.RunID)
	}

	reports, err := writer.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for i, ts := range []string{"2025-03-14_083005", "2025-03-14_083040"} {
		saved, err := writer.ReadReport(ts)
		require.NoError(t, err)
		assert.Equal(t, runIDs[i], saved.RunID)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 12, "5 artifacts and a report per run")
}

func TestPostTexts(t *testing.T) {
	hs := []models.Headline{
		{Title: "A", Source: "X"}, {Title: "B"}, {Title: "C", Source: "Y"},
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "fewer than available", n: 2, want: []string{"A", "B"}},
		{name: "more than available", n: 5, want: []string{"A", "B", "C"}},
		{name: "zero", n: 0, want: []string{}},
		{name: "negative", n: -1, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostTexts(hs, tt.n))
		})
	}
}
