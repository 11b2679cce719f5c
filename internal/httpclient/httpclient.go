// Package httpclient builds the outbound HTTP clients shared by the news,
// AI and Bluesky integrations.
package httpclient

import (
	"log/slog"
	"net/http"
	"time"
)

// UserAgent identifies CryptoPulse on every outbound request.
const UserAgent = "Mozilla/5.0 (compatible; CryptoPulse/1.0; +https://github.com/hoanghai1803/cryptopulse)"

// New returns an http.Client with the given timeout whose transport sets the
// CryptoPulse User-Agent and logs every request at debug level. A nil logger
// uses slog.Default().
func New(timeout time.Duration, logger *slog.Logger) *http.Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &loggingTransport{
			base:   http.DefaultTransport,
			logger: logger,
		},
	}
}

// loggingTransport wraps an http.RoundTripper to inject the User-Agent header
// and log method, host, path, status code and duration of each request.
type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http request failed",
			"method", req.Method,
			"host", req.URL.Host,
			"path", req.URL.Path,
			"duration", time.Since(start).String(),
			"error", err,
		)
		return nil, err
	}

	t.logger.Debug("http request",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)
	return resp, nil
}
