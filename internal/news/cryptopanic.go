package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hoanghai1803/cryptopulse/internal/httpclient"
	"github.com/hoanghai1803/cryptopulse/internal/models"
)

// Compile-time interface check.
var _ Source = (*CryptoPanic)(nil)

const cryptoPanicPostsPath = "/api/v1/posts/"

// CryptoPanic fetches "hot" posts from the CryptoPanic aggregator API.
type CryptoPanic struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewCryptoPanic creates a CryptoPanic source rooted at baseURL
// (e.g. https://cryptopanic.com) authenticating with token.
func NewCryptoPanic(baseURL, token string, logger *slog.Logger) *CryptoPanic {
	return &CryptoPanic{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httpclient.New(httpTimeout, logger),
	}
}

// cryptoPanicResponse is the subset of the posts endpoint response we use.
type cryptoPanicResponse struct {
	Results []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source *struct {
			Title string `json:"title"`
		} `json:"source"`
	} `json:"results"`
}

// Name implements Source.
func (c *CryptoPanic) Name() string { return "cryptopanic" }

// Fetch implements Source. Any failure, including an empty result set, is
// reported as ErrSourceUnavailable.
func (c *CryptoPanic) Fetch(ctx context.Context, limit int) ([]models.Headline, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%w: cryptopanic: no auth token configured", ErrSourceUnavailable)
	}

	params := url.Values{}
	params.Set("auth_token", c.token)
	params.Set("filter", "hot")
	params.Set("public", "true")
	endpoint := c.baseURL + cryptoPanicPostsPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: cryptopanic: creating request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: cryptopanic: sending request: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: cryptopanic: HTTP %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: cryptopanic: reading response body: %v", ErrSourceUnavailable, err)
	}

	var apiResp cryptoPanicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: cryptopanic: parsing response: %v", ErrSourceUnavailable, err)
	}

	var headlines []models.Headline
	for _, r := range apiResp.Results {
		if len(headlines) >= limit {
			break
		}
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		h := models.Headline{Title: r.Title, URL: r.URL}
		if r.Source != nil {
			h.Source = r.Source.Title
		}
		headlines = append(headlines, h)
	}

	if len(headlines) == 0 {
		return nil, fmt.Errorf("%w: cryptopanic: empty results", ErrSourceUnavailable)
	}
	return headlines, nil
}
