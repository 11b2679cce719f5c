package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoanghai1803/cryptopulse/internal/news"
)

const hotPosts = `{"results":[
  {"title":"Bitcoin hits new high","url":"https://coindesk.com/btc","source":{"title":"CoinDesk"}},
  {"title":"ETH upgrade delayed","url":"https://theblock.co/eth","source":{"title":"TheBlock"}}
]}`

const fallbackFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
<item><title>Solana outage resolved - Decrypt</title><link>https://news.google.com/a/1</link></item>
<item><title>SEC delays ETF decision - Reuters</title><link>https://news.google.com/a/2</link></item>
<item><title>Ripple wins appeal - CoinDesk</title><link>https://news.google.com/a/3</link></item>
</channel></rss>`

// upstream fakes CryptoPanic, the fallback feed and the Bluesky PDS.
type upstream struct {
	url          string
	newsStatus   int
	sessions     atomic.Int32
	records      atomic.Int32
	feedRequests atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{newsStatus: http.StatusOK}

	r := chi.NewRouter()
	r.Get("/api/v1/posts/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(u.newsStatus)
		_, _ = w.Write([]byte(hotPosts))
	})
	r.Get("/rss", func(w http.ResponseWriter, _ *http.Request) {
		u.feedRequests.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(fallbackFeed))
	})
	r.Post("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, _ *http.Request) {
		u.sessions.Add(1)
		_, _ = w.Write([]byte(`{"accessJwt":"jwt"}`))
	})
	r.Post("/xrpc/com.atproto.repo.createRecord", func(w http.ResponseWriter, _ *http.Request) {
		u.records.Add(1)
		_, _ = w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	u.url = srv.URL
	return u
}

func writeConfig(t *testing.T, u *upstream, dryRun bool) string {
	t.Helper()
	for _, key := range []string{
		"AI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"CRYPTOPANIC_TOKEN", "BLUESKY_HANDLE", "BLUESKY_PASSWORD",
		"DRY_RUN", "OUTPUT_DIR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	content := fmt.Sprintf(`
[news]
limit = 6
cryptopanic_token = "cp-token"
cryptopanic_url = %q
fallback_feed_url = %q

[bluesky]
handle = "pulse.bsky.social"
password = "app-pass"
base_url = %q
dry_run = %t

[output]
dir = %q
`, u.url, u.url+"/rss", u.url, dryRun, filepath.Join(t.TempDir(), "out"))

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resetFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd, runCmd, headlinesCmd, serveCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand_DryRunFlagOverridesConfig(t *testing.T) {
	u := newUpstream(t)
	cfgPath := writeConfig(t, u, false)
	outDir := t.TempDir()

	out, err := execute(t, "run", "--config", cfgPath, "--dry-run", "--out", outDir)
	require.NoError(t, err)

	assert.Zero(t, u.sessions.Load(), "dry run must not authenticate")
	assert.Zero(t, u.records.Load(), "dry run must not create records")
	assert.Contains(t, out, "2 headlines from cryptopanic")
	assert.Contains(t, out, "post simulated: Bitcoin hits new high")
	assert.Contains(t, out, "post simulated: ETH upgrade delayed")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 6, "five artifacts and a report")
	for _, suffix := range []string{"_summary.md", "_linkedin.txt", "_newsletter.md", "_short.txt", "_posts.txt", "_report.json"} {
		assert.True(t, hasSuffix(names, suffix), "missing %s in %v", suffix, names)
	}
}

func TestRootCommand_Publishes(t *testing.T) {
	u := newUpstream(t)
	cfgPath := writeConfig(t, u, false)

	out, err := execute(t, "--config", cfgPath)
	require.NoError(t, err)

	assert.Equal(t, int32(2), u.sessions.Load())
	assert.Equal(t, int32(2), u.records.Load())
	assert.Contains(t, out, "post published: Bitcoin hits new high")
}

func TestRunCommand_FallsBackToFeed(t *testing.T) {
	u := newUpstream(t)
	u.newsStatus = http.StatusServiceUnavailable
	cfgPath := writeConfig(t, u, true)

	out, err := execute(t, "run", "--config", cfgPath)
	require.NoError(t, err)

	assert.Equal(t, int32(1), u.feedRequests.Load())
	assert.Contains(t, out, "3 headlines from rss")
	assert.Contains(t, out, "post simulated: Solana outage resolved")
}

func TestRunCommand_NoHeadlines(t *testing.T) {
	u := newUpstream(t)
	u.newsStatus = http.StatusInternalServerError
	cfgPath := writeConfig(t, u, true)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	broken := strings.Replace(string(content), u.url+"/rss", u.url+"/missing", 1)
	require.NoError(t, os.WriteFile(cfgPath, []byte(broken), 0o644))

	_, err = execute(t, "run", "--config", cfgPath)
	require.ErrorIs(t, err, news.ErrNoHeadlines)
}

func TestHeadlinesCommand(t *testing.T) {
	u := newUpstream(t)
	cfgPath := writeConfig(t, u, true)

	out, err := execute(t, "headlines", "--config", cfgPath, "--limit", "1")
	require.NoError(t, err)

	assert.Equal(t, "Source: cryptopanic\n1. Bitcoin hits new high (CoinDesk)\n", out)
	assert.Zero(t, u.sessions.Load())
}

func TestConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ai]\nprovider = \"mistral\"\n"), 0o644))

	_, err := execute(t, "run", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func hasSuffix(names []string, suffix string) bool {
	for _, n := range names {
		if strings.HasSuffix(n, suffix) {
			return true
		}
	}
	return false
}

func TestServeCommand_ShutsDownOnCancel(t *testing.T) {
	u := newUpstream(t)
	cfgPath := writeConfig(t, u, true)
	resetFlags(rootCmd, runCmd, headlinesCmd, serveCmd)

	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"serve", "--config", cfgPath, "--port", strconv.Itoa(port)})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	base := fmt.Sprintf("http://localhost:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/api/runs", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Zero(t, u.records.Load())

	resp, err = http.Get(base + "/api/reports/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
