package news

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/hoanghai1803/cryptopulse/internal/httpclient"
	"github.com/hoanghai1803/cryptopulse/internal/models"
	"github.com/mmcdole/gofeed"
)

// Compile-time interface check.
var _ Source = (*RSS)(nil)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// RSS reads headlines from an RSS or Atom feed, typically a Google News
// search feed.
type RSS struct {
	feedURL string
	client  *http.Client
}

// NewRSS creates an RSS source for the given feed URL.
func NewRSS(feedURL string, logger *slog.Logger) *RSS {
	return &RSS{
		feedURL: feedURL,
		client:  httpclient.New(httpTimeout, logger),
	}
}

// Name implements Source.
func (r *RSS) Name() string { return "rss" }

// Fetch implements Source. It returns the first limit entries with a
// non-empty title.
func (r *RSS) Fetch(ctx context.Context, limit int) ([]models.Headline, error) {
	fp := gofeed.NewParser()
	fp.Client = r.client

	feed, err := fp.ParseURLWithContext(r.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: rss: parsing feed %q: %v", ErrSourceUnavailable, r.feedURL, err)
	}

	headlines := parseFeedItems(feed, limit)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("%w: rss: feed %q has no entries", ErrSourceUnavailable, r.feedURL)
	}
	return headlines, nil
}

// parseFeedItems converts gofeed items into headlines, keeping feed order.
// Items with an empty title are skipped.
func parseFeedItems(feed *gofeed.Feed, limit int) []models.Headline {
	var headlines []models.Headline
	for _, item := range feed.Items {
		if len(headlines) >= limit {
			break
		}
		title := strings.TrimSpace(stripHTML(item.Title))
		if title == "" {
			continue
		}

		title, source := splitPublisher(title)
		headlines = append(headlines, models.Headline{
			Title:  title,
			Source: source,
			URL:    item.Link,
		})
	}
	return headlines
}

// splitPublisher splits Google News style titles ("Title - Publisher") into
// the title and publisher name. Titles without the suffix are returned as is.
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	publisher := strings.TrimSpace(title[idx+3:])
	if publisher == "" || len(strings.Fields(publisher)) > 4 {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), publisher
}

// stripHTML removes HTML tags from s and unescapes HTML entities.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return html.UnescapeString(clean)
}
