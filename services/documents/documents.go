package documents

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/knowledgebase/catalog"
	"github.com/meghashyamc/knowledgebase/db/kvdb"
	"github.com/meghashyamc/knowledgebase/db/searchdb"
	"github.com/meghashyamc/knowledgebase/logger"
)

const (
	maxContentLength   = 5000
	maxSummaryLength   = 200
	defaultSourceType  = "note"
	mostCommonTagCount = 5
	totalSearchesKey   = "total_searches"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Indexer is the part of the search database the document service writes to.
type Indexer interface {
	Index(documents []searchdb.Document) error
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var defaultCategories = []Category{
	{ID: "1", Name: "AI & Machine Learning", Color: "#FF6B6B"},
	{ID: "2", Name: "Programming", Color: "#4ECDC4"},
	{ID: "3", Name: "Business", Color: "#45B7D1"},
	{ID: "4", Name: "Personal", Color: "#96CEB4"},
	{ID: "5", Name: "Research", Color: "#FFEAA7"},
}

type AddRequest struct {
	Title      string
	Content    string
	Summary    string
	Tags       []string
	SourceType string
	SourceURL  string
	Category   string
}

type ListRequest struct {
	Limit    int
	Offset   int
	Category string
	Tag      string
}

type ListResponse struct {
	Documents []searchdb.Document
	Total     int
}

type Stats struct {
	TotalDocuments  int      `json:"total_documents"`
	TotalCategories int      `json:"total_categories"`
	TotalSearches   uint64   `json:"total_searches"`
	MostCommonTags  []string `json:"most_common_tags"`
}

type Service struct {
	logger  logger.Logger
	kv      kvdb.DB
	indexer Indexer
	now     func() time.Time
}

func New(logger logger.Logger, kv kvdb.DB, indexer Indexer) *Service {
	return &Service{
		logger:  logger,
		kv:      kv,
		indexer: indexer,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Seed fills an empty store with the default categories and the sample catalog.
func (s *Service) Seed(ctx context.Context) error {
	categoryCount, err := s.kv.Count(kvdb.CategoriesBucket)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if categoryCount == 0 {
		for _, category := range defaultCategories {
			if err := s.putJSON(kvdb.CategoriesBucket, category.ID, category); err != nil {
				return err
			}
		}
		s.logger.Info("seeded categories", "count", len(defaultCategories))
	}

	documentCount, err := s.kv.Count(kvdb.DocumentsBucket)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if documentCount > 0 {
		return nil
	}

	samples := catalog.Sample()
	documents := make([]searchdb.Document, 0, len(samples))
	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := searchdb.Document{
			ID:         uuid.New().String(),
			Title:      sample.Title,
			Content:    sample.Summary,
			Summary:    sample.Summary,
			Tags:       sample.Tags,
			SourceType: sample.SourceType,
			CreatedAt:  sample.CreatedAt,
		}
		if len(sample.CategoryNames) > 0 {
			doc.Category = sample.CategoryNames[0]
		}
		if err := s.putJSON(kvdb.DocumentsBucket, doc.ID, doc); err != nil {
			return err
		}
		documents = append(documents, doc)
	}

	if err := s.indexer.Index(documents); err != nil {
		s.logger.Error("failed to index sample documents", "err", err.Error())
		return fmt.Errorf("failed to index sample documents: %w", err)
	}
	s.logger.Info("seeded sample documents", "count", len(documents))

	return nil
}

func (s *Service) Add(ctx context.Context, request AddRequest) (*searchdb.Document, error) {
	if request.Category != "" {
		if _, err := s.categoryByName(request.Category); err != nil {
			return nil, err
		}
	}

	content := truncateRunes(strings.TrimSpace(request.Content), maxContentLength)
	summary := strings.TrimSpace(request.Summary)
	if summary == "" {
		summary = truncateRunes(content, maxSummaryLength)
	}
	sourceType := strings.TrimSpace(request.SourceType)
	if sourceType == "" {
		sourceType = defaultSourceType
	}

	doc := searchdb.Document{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(request.Title),
		Content:    content,
		Summary:    summary,
		Tags:       normalizeTags(request.Tags),
		Category:   request.Category,
		SourceType: sourceType,
		SourceURL:  request.SourceURL,
		CreatedAt:  s.now(),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.putJSON(kvdb.DocumentsBucket, doc.ID, doc); err != nil {
		return nil, err
	}

	if err := s.indexer.Index([]searchdb.Document{doc}); err != nil {
		s.logger.Error("failed to index document, rolling back", "id", doc.ID, "err", err.Error())
		if deleteErr := s.kv.Delete(kvdb.DocumentsBucket, doc.ID); deleteErr != nil {
			s.logger.Error("failed to roll back document", "id", doc.ID, "err", deleteErr.Error())
		}
		return nil, fmt.Errorf("failed to index document: %w", err)
	}

	s.logger.Info("document added", "id", doc.ID, "title", doc.Title)
	return &doc, nil
}

func (s *Service) Get(ctx context.Context, id string) (*searchdb.Document, error) {
	value, err := s.kv.Get(kvdb.DocumentsBucket, id)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) || errors.Is(err, kvdb.ErrInvalidKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc searchdb.Document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		s.logger.Error("failed to unmarshal document", "id", id, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}

	return &doc, nil
}

// GetMany returns the documents in the order of ids, skipping ids that no longer exist.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]searchdb.Document, error) {
	documents := make([]searchdb.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				s.logger.Warn("indexed document missing from store", "id", id)
				continue
			}
			return nil, err
		}
		documents = append(documents, *doc)
	}
	return documents, nil
}

// List returns documents newest first, optionally narrowed to a category and a tag.
func (s *Service) List(ctx context.Context, request ListRequest) (*ListResponse, error) {
	all, err := s.all()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := make([]searchdb.Document, 0, len(all))
	for _, doc := range all {
		if request.Category != "" && doc.Category != request.Category {
			continue
		}
		if request.Tag != "" && !slices.Contains(doc.Tags, request.Tag) {
			continue
		}
		filtered = append(filtered, doc)
	}

	slices.SortFunc(filtered, func(a, b searchdb.Document) int {
		if byTime := b.CreatedAt.Compare(a.CreatedAt); byTime != 0 {
			return byTime
		}
		return cmp.Compare(a.ID, b.ID)
	})

	start := min(request.Offset, len(filtered))
	end := len(filtered)
	if request.Limit > 0 {
		end = min(start+request.Limit, len(filtered))
	}

	return &ListResponse{Documents: filtered[start:end], Total: len(filtered)}, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	values, err := s.kv.GetAll(kvdb.CategoriesBucket)
	if err != nil {
		s.logger.Error("failed to read categories", "err", err.Error())
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	categories := make([]Category, 0, len(values))
	for id, value := range values {
		var category Category
		if err := json.Unmarshal([]byte(value), &category); err != nil {
			s.logger.Error("failed to unmarshal category", "id", id, "err", err.Error())
			return nil, fmt.Errorf("failed to unmarshal category %s: %w", id, err)
		}
		categories = append(categories, category)
	}
	slices.SortFunc(categories, func(a, b Category) int { return cmp.Compare(a.ID, b.ID) })

	return categories, nil
}

// RecordSearch bumps the persisted search counter.
func (s *Service) RecordSearch(ctx context.Context) (uint64, error) {
	count, err := s.kv.Increment(kvdb.CountersBucket, totalSearchesKey)
	if err != nil {
		s.logger.Error("failed to record search", "err", err.Error())
		return 0, fmt.Errorf("failed to record search: %w", err)
	}
	return count, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.all()
	if err != nil {
		return nil, err
	}
	categoryCount, err := s.kv.Count(kvdb.CategoriesBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	searches, err := s.kv.GetCounter(kvdb.CountersBucket, totalSearchesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read search counter: %w", err)
	}

	return &Stats{
		TotalDocuments:  len(all),
		TotalCategories: categoryCount,
		TotalSearches:   searches,
		MostCommonTags:  mostCommonTags(all, mostCommonTagCount),
	}, nil
}

func (s *Service) all() ([]searchdb.Document, error) {
	values, err := s.kv.GetAll(kvdb.DocumentsBucket)
	if err != nil {
		s.logger.Error("failed to read documents", "err", err.Error())
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	documents := make([]searchdb.Document, 0, len(values))
	for id, value := range values {
		var doc searchdb.Document
		if err := json.Unmarshal([]byte(value), &doc); err != nil {
			s.logger.Error("failed to unmarshal document", "id", id, "err", err.Error())
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func (s *Service) categoryByName(name string) (*Category, error) {
	categories, err := s.Categories(context.Background())
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		if category.Name == name {
			return &category, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
}

func (s *Service) putJSON(bucket string, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to marshal value", "bucket", bucket, "key", key, "err", err.Error())
		return fmt.Errorf("failed to marshal %s/%s: %w", bucket, key, err)
	}
	if err := s.kv.Set(bucket, key, string(data)); err != nil {
		return fmt.Errorf("failed to store %s/%s: %w", bucket, key, err)
	}
	return nil
}

func mostCommonTags(documents []searchdb.Document, limit int) []string {
	counts := make(map[string]int)
	for _, doc := range documents {
		for _, tag := range doc.Tags {
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	slices.SortFunc(tags, func(a, b string) int {
		if byCount := cmp.Compare(counts[b], counts[a]); byCount != 0 {
			return byCount
		}
		return cmp.Compare(a, b)
	})

	return tags[:min(limit, len(tags))]
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(normalized, tag) {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
