package validation

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Title      string   `json:"title" validate:"required,not_blank,max=20"`
	SearchType string   `json:"search_type" validate:"search_type"`
	Tags       []string `json:"tags" validate:"valid_tags"`
	SourceURL  string   `json:"source_url" validate:"omitempty,url"`
}

var validateTestCases = []struct {
	name          string
	request       testRequest
	expectedError string
}{
	{name: "Valid", request: testRequest{Title: "ok", SearchType: "hybrid", Tags: []string{"ai"}}},
	{name: "EmptySearchTypeIsValid", request: testRequest{Title: "ok"}},
	{name: "MissingTitle", request: testRequest{}, expectedError: "missing required field 'title'"},
	{name: "BlankTitle", request: testRequest{Title: "   "}, expectedError: "field must not be blank"},
	{name: "LongTitle", request: testRequest{Title: strings.Repeat("a", 21)}, expectedError: "value or length of field 'title' is not in the expected range"},
	{name: "UnknownSearchType", request: testRequest{Title: "ok", SearchType: "fuzzy"}, expectedError: "search_type must be one of combined, semantic, hybrid"},
	{name: "BlankTag", request: testRequest{Title: "ok", Tags: []string{"ai", " "}}, expectedError: "tags must be non-empty and at most 50 characters"},
	{name: "LongTag", request: testRequest{Title: "ok", Tags: []string{strings.Repeat("t", 51)}}, expectedError: "tags must be non-empty and at most 50 characters"},
	{name: "BadURL", request: testRequest{Title: "ok", SourceURL: "not a url"}, expectedError: "field 'source_url' is not a valid URL"},
}

func TestValidate(t *testing.T) {
	assert := require.New(t)
	validator, err := New(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	assert.NoError(err)

	for _, testCase := range validateTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			err := validator.Validate(testCase.request)
			if testCase.expectedError == "" {
				assert.NoError(err)
				return
			}
			assert.EqualError(err, testCase.expectedError)
		})
	}
}
