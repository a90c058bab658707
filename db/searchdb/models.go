package searchdb

import "time"

// Document is a knowledge base entry as stored and indexed.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	Category   string    `json:"category,omitempty"`
	SourceType string    `json:"source_type"`
	SourceURL  string    `json:"source_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Query struct {
	Text       string
	Category   string
	Tags       []string
	SourceType string
	Limit      int
	Offset     int
}

func (q Query) HasFilters() bool {
	return q.Category != "" || len(q.Tags) > 0 || q.SourceType != ""
}

type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type Response struct {
	Hits     []Hit   `json:"hits"`
	Total    uint64  `json:"total"`
	MaxScore float64 `json:"max_score"`
}
