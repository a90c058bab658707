// Package catalog holds the fixed sample documents shown on the demo page and
// the substring filter that runs over them.
package catalog

import (
	"slices"
	"strings"
	"time"
)

type Document struct {
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Tags           []string  `json:"tags"`
	RelevanceScore float64   `json:"relevance_score"`
	CreatedAt      time.Time `json:"created_at"`
	CategoryNames  []string  `json:"category_names"`
	SourceType     string    `json:"source_type"`
}

// Sample returns a fresh copy of the four demo documents in display order.
func Sample() []Document {
	return []Document{
		{
			Title:          "Основы машинного обучения",
			Summary:        "Введение в ML и основные концепции: supervised, unsupervised, reinforcement learning",
			Tags:           []string{"machine-learning", "ai", "python", "neural-networks"},
			RelevanceScore: 0.95,
			CreatedAt:      mustParseTime("2025-11-29T17:45:37Z"),
			CategoryNames:  []string{"AI & Machine Learning"},
			SourceType:     "article",
		},
		{
			Title:          "Как создать REST API на Python",
			Summary:        "Руководство по созданию API с FastAPI - современный веб-фреймворк",
			Tags:           []string{"python", "fastapi", "api", "backend"},
			RelevanceScore: 0.82,
			CreatedAt:      mustParseTime("2025-11-29T17:45:38Z"),
			CategoryNames:  []string{"Programming"},
			SourceType:     "tutorial",
		},
		{
			Title:          "Deep Learning и нейронные сети",
			Summary:        "Обзор архитектур: CNN для изображений, RNN/LSTM для последовательностей, Transformers для NLP",
			Tags:           []string{"deep-learning", "ai", "neural-networks", "transformers"},
			RelevanceScore: 0.88,
			CreatedAt:      mustParseTime("2025-11-29T17:45:39Z"),
			CategoryNames:  []string{"AI & Machine Learning"},
			SourceType:     "article",
		},
		{
			Title:          "Введение в Supabase и векторный поиск",
			Summary:        "Обзор Supabase и возможностей векторного поиска через pgvector",
			Tags:           []string{"supabase", "postgresql", "vector-search", "ai"},
			RelevanceScore: 0.75,
			CreatedAt:      mustParseTime("2025-11-29T17:41:41Z"),
			CategoryNames:  []string{"Programming"},
			SourceType:     "note",
		},
	}
}

// Filter returns the documents whose title, summary or any tag contains query,
// ignoring case. An empty query matches everything. Order is preserved.
func Filter(query string, docs []Document) []Document {
	if query == "" {
		return slices.Clone(docs)
	}

	queryLower := strings.ToLower(query)
	matches := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if Matches(doc, queryLower) {
			matches = append(matches, doc)
		}
	}

	return matches
}

// Matches expects queryLower to be lower-cased already.
func Matches(doc Document, queryLower string) bool {
	if strings.Contains(strings.ToLower(doc.Title), queryLower) ||
		strings.Contains(strings.ToLower(doc.Summary), queryLower) {
		return true
	}

	return slices.ContainsFunc(doc.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), queryLower)
	})
}

func mustParseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return parsed
}
