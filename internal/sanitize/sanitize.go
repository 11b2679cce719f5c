// Package sanitize cleans headline text before it is embedded in prompts or
// published as a short post.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hoanghai1803/cryptopulse/internal/models"
)

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.)\S*`)

// Text removes URL-like substrings and control characters from s, replaces
// em-dashes with hyphens, collapses whitespace and trims the result.
// Text is idempotent.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "—", "-")
	s = urlPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// StripSource removes a trailing " (source)" annotation from title, turning
// "Bitcoin hits new high (CoinDesk)" with source "CoinDesk" into
// "Bitcoin hits new high". Any other trailing parenthetical is kept, as is
// everything when source is empty.
func StripSource(title, source string) string {
	title = strings.TrimSpace(title)
	source = strings.TrimSpace(source)
	if source == "" {
		return title
	}
	suffix := " (" + source + ")"
	if len(title) <= len(suffix) || !strings.EqualFold(title[len(title)-len(suffix):], suffix) {
		return title
	}
	return strings.TrimSpace(title[:len(title)-len(suffix)])
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Headlines sanitizes every field of the given headlines. Headlines whose
// title is empty after sanitizing are dropped.
func Headlines(in []models.Headline) []models.Headline {
	out := make([]models.Headline, 0, len(in))
	for _, h := range in {
		title := Text(h.Title)
		if title == "" {
			continue
		}
		out = append(out, models.Headline{
			Title:  title,
			Source: Text(h.Source),
			URL:    strings.TrimSpace(h.URL),
		})
	}
	return out
}
