package content

import (
	"math"
	"strings"
	"unicode"
)

// wordsPerMinute is the assumed reading speed for market commentary.
const wordsPerMinute = 238

// ReadingMinutes estimates reading time in minutes for the given text.
// Returns 0 for empty text and at least 1 otherwise.
func ReadingMinutes(text string) int {
	words := CountWords(text)
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// CountWords counts words separated by whitespace or punctuation.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) || strings.ContainsRune(".,;:!?\"'()[]{}—–-#*", r) {
			if inWord {
				count++
				inWord = false
			}
			continue
		}
		inWord = true
	}
	if inWord {
		count++
	}
	return count
}
