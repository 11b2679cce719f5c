package models

// Headline is a single news headline resolved from a news source.
type Headline struct {
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
}

// String renders the headline as it appears in prompts: the title followed
// by the source name in parentheses when one is known.
func (h Headline) String() string {
	if h.Source == "" {
		return h.Title
	}
	return h.Title + " (" + h.Source + ")"
}
