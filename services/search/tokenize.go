package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"и": true, "в": true, "на": true, "по": true, "с": true,
	"для": true, "не": true, "что": true, "как": true, "из": true,
}

// tokenize lower-cases text and splits it into words, skipping single
// characters and stop words.
func tokenize(text string) []string {
	var tokens []string
	for _, word := range wordRegex.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(word) < 2 || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
