package searchdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/meghashyamc/knowledgebase/config"
	"github.com/meghashyamc/knowledgebase/logger"
)

const IndexingBatchSize = 100

const (
	indexFieldTitle      = "title"
	indexFieldSummary    = "summary"
	indexFieldContent    = "content"
	indexFieldTags       = "tags"
	indexFieldCategory   = "category"
	indexFieldSourceType = "source_type"
	indexFieldCreatedAt  = "created_at"
)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	mapping := createIndexMapping()
	indexPath := filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath())
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "path", indexPath, "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func (b *BleveDB) Index(documents []Document) error {

	batch := b.index.NewBatch()

	for i, doc := range documents {

		if err := batch.Index(doc.ID, doc); err != nil {
			b.logger.Error("could not index document", "id", doc.ID, "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index documents", "err", err.Error())
			return err
		}
	}

	return nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	for _, field := range []string{indexFieldTitle, indexFieldSummary, indexFieldContent} {
		textFieldMapping := bleve.NewTextFieldMapping()
		textFieldMapping.Analyzer = standard.Name
		textFieldMapping.Store = false
		docMapping.AddFieldMappingsAt(field, textFieldMapping)
	}

	// Filter fields - not analyzed (exact match)
	for _, field := range []string{indexFieldTags, indexFieldCategory, indexFieldSourceType} {
		keywordFieldMapping := bleve.NewTextFieldMapping()
		keywordFieldMapping.Analyzer = keyword.Name
		keywordFieldMapping.Store = false
		docMapping.AddFieldMappingsAt(field, keywordFieldMapping)
	}

	docMapping.AddFieldMappingsAt(indexFieldCreatedAt, bleve.NewDateTimeFieldMapping())

	// Stored in the key-value store, not needed in the index
	docMapping.AddFieldMappingsAt("id", disabledFieldMapping())
	docMapping.AddFieldMappingsAt("source_url", disabledFieldMapping())

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func disabledFieldMapping() *mapping.FieldMapping {
	fieldMapping := bleve.NewTextFieldMapping()
	fieldMapping.Index = false
	fieldMapping.Store = false
	fieldMapping.IncludeInAll = false
	fieldMapping.DocValues = false
	return fieldMapping
}

// Search ranks by score for text queries and newest first otherwise.
func (b *BleveDB) Search(q Query) (*Response, error) {
	searchQuery := b.buildSearchQuery(q)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, q.Limit, q.Offset, false)
	if strings.TrimSpace(q.Text) == "" {
		searchRequest.SortBy([]string{"-" + indexFieldCreatedAt, "_id"})
	}

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		hits[i] = Hit{ID: hit.ID, Score: hit.Score}
	}

	return &Response{
		Hits:     hits,
		Total:    searchResult.Total,
		MaxScore: searchResult.MaxScore,
	}, nil
}

func (b *BleveDB) buildSearchQuery(q Query) query.Query {

	const (
		boostForTitle        = 3.0
		boostForSummary      = 2.0
		boostForContent      = 1.0
		boostForTag          = 2.0
		boostForPhraseMatch  = 5.0
		boostForPartialMatch = 1.5
	)

	text := strings.ToLower(strings.TrimSpace(q.Text))

	var textQuery query.Query
	if text == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		disjunctQuery := bleve.NewDisjunctionQuery()

		for field, boost := range map[string]float64{
			indexFieldTitle:   boostForTitle,
			indexFieldSummary: boostForSummary,
			indexFieldContent: boostForContent,
		} {
			matchQuery := bleve.NewMatchQuery(text)
			matchQuery.SetField(field)
			matchQuery.SetBoost(boost)
			disjunctQuery.AddQuery(matchQuery)
		}

		phraseQuery := bleve.NewMatchPhraseQuery(text)
		phraseQuery.SetField(indexFieldTitle)
		phraseQuery.SetBoost(boostForPhraseMatch)
		disjunctQuery.AddQuery(phraseQuery)

		tagQuery := bleve.NewTermQuery(text)
		tagQuery.SetField(indexFieldTags)
		tagQuery.SetBoost(boostForTag)
		disjunctQuery.AddQuery(tagQuery)

		if len(text) > 2 && !strings.Contains(text, " ") {
			for _, field := range []string{indexFieldTitle, indexFieldSummary} {
				prefixQuery := bleve.NewPrefixQuery(text)
				prefixQuery.SetField(field)
				prefixQuery.SetBoost(boostForPartialMatch)
				disjunctQuery.AddQuery(prefixQuery)
			}
		}

		textQuery = disjunctQuery
	}

	if !q.HasFilters() {
		return textQuery
	}

	conjunctionQuery := bleve.NewConjunctionQuery(textQuery)
	if q.Category != "" {
		conjunctionQuery.AddQuery(termQuery(indexFieldCategory, q.Category))
	}
	for _, tag := range q.Tags {
		conjunctionQuery.AddQuery(termQuery(indexFieldTags, tag))
	}
	if q.SourceType != "" {
		conjunctionQuery.AddQuery(termQuery(indexFieldSourceType, q.SourceType))
	}

	return conjunctionQuery
}

func termQuery(field string, term string) query.Query {
	termQuery := bleve.NewTermQuery(term)
	termQuery.SetField(field)
	return termQuery
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
