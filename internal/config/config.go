package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	AI      AIConfig      `toml:"ai"`
	News    NewsConfig    `toml:"news"`
	Bluesky BlueskyConfig `toml:"bluesky"`
	Output  OutputConfig  `toml:"output"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// AIConfig holds content generator settings.
type AIConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// NewsConfig holds headline source settings.
type NewsConfig struct {
	Limit              int    `toml:"limit"`
	CryptoPanicToken   string `toml:"cryptopanic_token"`
	CryptoPanicURL     string `toml:"cryptopanic_url"`
	FallbackFeedURL    string `toml:"fallback_feed_url"`
	ExtractLeadArticle bool   `toml:"extract_lead_article"`
}

// BlueskyConfig holds social publishing settings.
type BlueskyConfig struct {
	Handle   string `toml:"handle"`
	Password string `toml:"password"`
	BaseURL  string `toml:"base_url"`
	DryRun   bool   `toml:"dry_run"`
	MaxPosts int    `toml:"max_posts"`
}

// OutputConfig holds artifact output settings.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// ServerConfig holds settings for the local HTTP API.
type ServerConfig struct {
	Port int `toml:"port"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Defaults applied to zero-valued fields.
const (
	DefaultProvider        = "openai"
	DefaultNewsLimit       = 6
	DefaultCryptoPanicURL  = "https://cryptopanic.com"
	DefaultFallbackFeedURL = "https://news.google.com/rss/search?q=cryptocurrency&hl=en&gl=US&ceid=US:en"
	DefaultBlueskyURL      = "https://bsky.social"
	DefaultMaxPosts        = 5
	DefaultOutputDir       = "out"
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-haiku-4-5",
	"gemini":    "gemini-2.5-flash",
}

const defaultConfigContent = `[ai]
provider = "openai"               # "openai", "anthropic" or "gemini"
api_key = ""                      # Your API key (or set AI_API_KEY / OPENAI_API_KEY env var)
model = "gpt-4o-mini"

[news]
limit = 6
cryptopanic_token = ""            # Or set CRYPTOPANIC_TOKEN env var
extract_lead_article = false

[bluesky]
handle = ""                       # Or set BLUESKY_HANDLE env var
password = ""                     # App password, or set BLUESKY_PASSWORD env var
dry_run = true
max_posts = 5

[output]
dir = "out"

[server]
port = 8080                       # Used by "cryptopulse serve" (binds to localhost)

[log]
level = "info"
format = "text"
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// "limit = 0" is an error rather than silently becoming the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg, md)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("news", "limit") && cfg.News.Limit < 1 {
		return fmt.Errorf("invalid news.limit %d: must be >= 1", cfg.News.Limit)
	}
	if md.IsDefined("bluesky", "max_posts") && cfg.Bluesky.MaxPosts < 0 {
		return fmt.Errorf("invalid bluesky.max_posts %d: must be >= 0", cfg.Bluesky.MaxPosts)
	}
	if md.IsDefined("server", "port") && (cfg.Server.Port < 1 || cfg.Server.Port > 65535) {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields that were not
// explicitly set in the file.
func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = DefaultProvider
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModels[cfg.AI.Provider]
	}
	if cfg.News.Limit == 0 {
		cfg.News.Limit = DefaultNewsLimit
	}
	if cfg.News.CryptoPanicURL == "" {
		cfg.News.CryptoPanicURL = DefaultCryptoPanicURL
	}
	if cfg.News.FallbackFeedURL == "" {
		cfg.News.FallbackFeedURL = DefaultFallbackFeedURL
	}
	if cfg.Bluesky.BaseURL == "" {
		cfg.Bluesky.BaseURL = DefaultBlueskyURL
	}
	// max_posts = 0 means "publish nothing".
	if cfg.Bluesky.MaxPosts == 0 && !md.IsDefined("bluesky", "max_posts") {
		cfg.Bluesky.MaxPosts = DefaultMaxPosts
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY, matching ai.provider
func applyEnvOverrides(cfg *Config) error {
	switch cfg.AI.Provider {
	case "openai":
		setFromEnv(&cfg.AI.APIKey, "OPENAI_API_KEY")
	case "anthropic":
		setFromEnv(&cfg.AI.APIKey, "ANTHROPIC_API_KEY")
	case "gemini":
		setFromEnv(&cfg.AI.APIKey, "GEMINI_API_KEY")
	}
	setFromEnv(&cfg.AI.APIKey, "AI_API_KEY")

	setFromEnv(&cfg.News.CryptoPanicToken, "CRYPTOPANIC_TOKEN")
	setFromEnv(&cfg.Bluesky.Handle, "BLUESKY_HANDLE")
	setFromEnv(&cfg.Bluesky.Password, "BLUESKY_PASSWORD")
	setFromEnv(&cfg.Output.Dir, "OUTPUT_DIR")
	setFromEnv(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("DRY_RUN"); v != "" {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DRY_RUN %q: %w", v, err)
		}
		cfg.Bluesky.DryRun = dryRun
	}
	return nil
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	if _, ok := defaultModels[cfg.AI.Provider]; !ok {
		return fmt.Errorf("invalid ai.provider %q: must be \"openai\", \"anthropic\" or \"gemini\"", cfg.AI.Provider)
	}

	if cfg.News.Limit < 1 {
		return fmt.Errorf("invalid news.limit %d: must be >= 1", cfg.News.Limit)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be \"text\" or \"json\"", cfg.Log.Format)
	}

	if cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: content will fall back to raw headlines")
	}
	if cfg.News.CryptoPanicToken == "" {
		slog.Warn("news.cryptopanic_token is empty: headlines will come from the fallback feed")
	}
	if !cfg.Bluesky.DryRun && (cfg.Bluesky.Handle == "" || cfg.Bluesky.Password == "") {
		slog.Warn("bluesky credentials are incomplete: publishing will fail to authenticate")
	}

	return nil
}
