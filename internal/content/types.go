// Package content turns a sanitized headline list into the written formats
// CryptoPulse publishes: a bullet summary, a LinkedIn article, a newsletter,
// a short-video script and a batch of short posts.
package content

import (
	"fmt"
	"strings"

	"github.com/hoanghai1803/cryptopulse/internal/models"
)

// Input is the material every prompt builder draws from.
type Input struct {
	Headlines []models.Headline

	// LeadArticle is optional extracted body text of the first headline.
	LeadArticle string
}

// Type describes one content format: how to prompt for it, the model
// parameters to use and how the result is stored.
type Type struct {
	Name        string
	Ext         string
	MaxTokens   int
	Temperature float64

	// HeadlineLimit caps the headlines given to the prompt; 0 means all.
	HeadlineLimit int

	build func(headlines string, in Input) string
}

// Filename returns the artifact file name for this type at the given
// timestamp, e.g. "2025-01-01_090000_summary.md".
func (t Type) Filename(timestamp string) string {
	return fmt.Sprintf("%s_%s.%s", timestamp, t.Name, t.Ext)
}

// Prompt builds the prompt for this type from in.
func (t Type) Prompt(in Input) string {
	return t.build(BulletList(t.headlines(in)), in)
}

func (t Type) headlines(in Input) []models.Headline {
	if t.HeadlineLimit > 0 && len(in.Headlines) > t.HeadlineLimit {
		return in.Headlines[:t.HeadlineLimit]
	}
	return in.Headlines
}

// BulletList renders headlines as a "- Title (Source)" list, one per line.
func BulletList(headlines []models.Headline) string {
	lines := make([]string, 0, len(headlines))
	for _, h := range headlines {
		lines = append(lines, "- "+h.String())
	}
	return strings.Join(lines, "\n")
}

// Content types in generation order.
var (
	Summary = Type{
		Name: "summary", Ext: "md", MaxTokens: 1000, Temperature: 0.5,
		build: func(list string, in Input) string {
			return fmt.Sprintf(`Summarize the following %d cryptocurrency news headlines.
Output:
- 8 to 10 concise bullet points, neutral tone, English.
- Include short, catchy titles per bullet.
Headlines:
%s
`, len(in.Headlines), list)
		},
	}

	LinkedIn = Type{
		Name: "linkedin", Ext: "txt", MaxTokens: 1000, Temperature: 0.6,
		build: func(list string, in Input) string {
			return `Write a professional English LinkedIn/Substack-style crypto update based on these news:
` + list + `
Include short intro paragraph, bullet points, and closing line inviting engagement.
` + leadContext(in)
		},
	}

	Newsletter = Type{
		Name: "newsletter", Ext: "md", MaxTokens: 1200, Temperature: 0.6,
		build: func(list string, in Input) string {
			return `Write a daily crypto newsletter in Markdown based on these headlines:
` + list + `
Structure: a headline for the issue, a two-sentence overview, one short section per story with a "Why it matters" line, and a sign-off.
Tone: clear, neutral, no investment advice.
` + leadContext(in)
		},
	}

	Short = Type{
		Name: "short", Ext: "txt", MaxTokens: 600, Temperature: 0.7, HeadlineLimit: 3,
		build: func(list string, _ Input) string {
			return `Write a 60-second YouTube Short script summarizing today's top 3 cryptocurrency stories.
Tone: futuristic, informative, fast-paced.
Include an engaging intro and outro.
Headlines:
` + list + "\n"
		},
	}

	Posts = Type{
		Name: "posts", Ext: "txt", MaxTokens: 600, Temperature: 0.7,
		build: func(list string, _ Input) string {
			return `Write one short social media post per headline below.
Rules: at most 280 characters each, no links, at most two hashtags, one post per line, no numbering.
Headlines:
` + list + "\n"
		},
	}
)

// Types returns every content type in generation order.
func Types() []Type {
	return []Type{Summary, LinkedIn, Newsletter, Short, Posts}
}

func leadContext(in Input) string {
	if strings.TrimSpace(in.LeadArticle) == "" {
		return ""
	}
	return "\nBackground on the lead story:\n" + in.LeadArticle + "\n"
}
