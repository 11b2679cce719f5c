package news

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/hoanghai1803/cryptopulse/internal/httpclient"
)

// browserHeaders sets browser-like request headers so news sites that check
// Accept or User-Agent don't reject the request.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("User-Agent", httpclient.UserAgent)
}

// Extractor pulls the readable body text out of article pages.
type Extractor struct {
	timeout  time.Duration
	maxWords int
}

// NewExtractor creates an Extractor that truncates article text to maxWords.
func NewExtractor(maxWords int) *Extractor {
	return &Extractor{timeout: httpTimeout, maxWords: maxWords}
}

// Extract fetches the page at articleURL and returns its main readable text,
// truncated to the extractor's word budget.
func (e *Extractor) Extract(articleURL string) (string, error) {
	if articleURL == "" {
		return "", fmt.Errorf("extracting article: empty URL")
	}

	article, err := readability.FromURL(articleURL, e.timeout, browserHeaders)
	if err != nil {
		return "", fmt.Errorf("extracting article from %q: %w", articleURL, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("extracting article from %q: no readable content", articleURL)
	}
	return truncateWords(text, e.maxWords), nil
}

// truncateWords returns the first maxWords whitespace-delimited words from s.
// If s contains fewer than maxWords words, it is returned unchanged.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}
