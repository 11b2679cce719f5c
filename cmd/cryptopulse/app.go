package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hoanghai1803/cryptopulse/internal/ai"
	"github.com/hoanghai1803/cryptopulse/internal/bluesky"
	"github.com/hoanghai1803/cryptopulse/internal/config"
	"github.com/hoanghai1803/cryptopulse/internal/content"
	"github.com/hoanghai1803/cryptopulse/internal/news"
	"github.com/hoanghai1803/cryptopulse/internal/output"
	"github.com/hoanghai1803/cryptopulse/internal/pipeline"
)

// leadArticleWords caps the extracted lead article added to long-form prompts.
const leadArticleWords = 400

// loadConfig loads the config file and installs the configured logger as the
// slog default.
func loadConfig(logOut io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := config.NewLogger(cfg.Log, logOut)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newResolver(cfg *config.Config, logger *slog.Logger) *news.Resolver {
	return news.NewResolver(
		news.NewCryptoPanic(cfg.News.CryptoPanicURL, cfg.News.CryptoPanicToken, logger),
		news.NewRSS(cfg.News.FallbackFeedURL, logger),
		logger,
	)
}

// newProvider returns nil when no API key is configured; content generation
// then falls back to the raw headlines.
func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.Provider, error) {
	if cfg.AI.APIKey == "" {
		logger.Warn("no AI provider API key configured, content will fall back to headlines")
		return nil, nil
	}

	provider, err := ai.NewProvider(ctx, ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating AI provider: %w", err)
	}
	logger.Info("AI provider configured", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	return provider, nil
}

func newPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		Resolver:  newResolver(cfg, logger),
		Generator: content.NewGenerator(provider, logger),
		Publisher: bluesky.NewPublisher(
			bluesky.NewClient(cfg.Bluesky.BaseURL, cfg.Bluesky.Handle, cfg.Bluesky.Password, logger),
			cfg.Bluesky.DryRun,
			logger,
		),
		Writer:   output.NewWriter(cfg.Output.Dir, logger),
		Logger:   logger,
		Limit:    cfg.News.Limit,
		MaxPosts: cfg.Bluesky.MaxPosts,
		DryRun:   cfg.Bluesky.DryRun,
	}
	if cfg.News.ExtractLeadArticle {
		opts.Extractor = news.NewExtractor(leadArticleWords)
	}
	return pipeline.New(opts), nil
}
