package session

import (
	"errors"
	"strings"
)

var ErrNothingToSearch = errors.New("query and filters are all empty")

type SearchType string

const (
	SearchTypeCombined SearchType = "combined"
	SearchTypeSemantic SearchType = "semantic"
	SearchTypeHybrid   SearchType = "hybrid"
)

var SearchTypes = []SearchType{SearchTypeCombined, SearchTypeSemantic, SearchTypeHybrid}

// ParseSearchType maps unknown or empty values to combined.
func ParseSearchType(value string) SearchType {
	for _, searchType := range SearchTypes {
		if string(searchType) == value {
			return searchType
		}
	}
	return SearchTypeCombined
}

type Filters struct {
	Category string
	Tags     string
	Type     string
}

// IsEmpty compares raw values. Whitespace in a filter still counts as a filter.
func (f Filters) IsEmpty() bool {
	return f.Category == "" && f.Tags == "" && f.Type == ""
}

type SearchState struct {
	Query      string
	SearchType SearchType
	Filters    Filters
}

// Guard rejects a search that carries neither query text nor any filter value.
func Guard(query string, filters Filters) error {
	if strings.TrimSpace(query) == "" && filters.IsEmpty() {
		return ErrNothingToSearch
	}
	return nil
}

type Counters struct {
	Documents  int
	Categories int
	Searches   int
}

func InitialCounters() Counters {
	return Counters{Documents: 6, Categories: 5, Searches: 0}
}

// PopupStats is the fixed content of the statistics popup.
type PopupStats struct {
	Documents   int
	Categories  int
	Tags        int
	Searches    int
	PopularTags []string
}

func Popup() PopupStats {
	return PopupStats{
		Documents:   6,
		Categories:  5,
		Tags:        19,
		Searches:    0,
		PopularTags: []string{"ai", "python", "postgresql", "machine-learning", "api"},
	}
}

type AddDocumentInput struct {
	Title    string
	Content  string
	Summary  string
	Tags     string
	Category string
	Type     string
}

// ParseTags splits comma separated tag input, trimming and dropping empty tokens.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tags = append(tags, token)
		}
	}
	return tags
}
