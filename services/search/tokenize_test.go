package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var tokenizeTestCases = []struct {
	name     string
	text     string
	expected []string
}{
	{name: "Empty", text: "", expected: nil},
	{name: "Punctuation", text: " ... !? ", expected: nil},
	{name: "LowerCases", text: "FastAPI Guide", expected: []string{"fastapi", "guide"}},
	{name: "SkipsStopWords", text: "the index of the web", expected: []string{"index", "web"}},
	{name: "SkipsSingleCharacters", text: "a b c4 x", expected: []string{"c4"}},
	{name: "Cyrillic", text: "Введение в ML и нейронные сети", expected: []string{"введение", "ml", "нейронные", "сети"}},
	{name: "SplitsHyphens", text: "vector-search", expected: []string{"vector", "search"}},
}

func TestTokenize(t *testing.T) {
	for _, testCase := range tokenizeTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, tokenize(testCase.text))
		})
	}
}
