package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/meghashyamc/knowledgebase/db/searchdb"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/metrics"
	"github.com/meghashyamc/knowledgebase/session"
)

// Index is the read side of the search database.
type Index interface {
	Search(query searchdb.Query) (*searchdb.Response, error)
	GetDocCount() (uint64, error)
}

// DocumentStore resolves index hits into full documents.
type DocumentStore interface {
	GetMany(ctx context.Context, ids []string) ([]searchdb.Document, error)
	RecordSearch(ctx context.Context) (uint64, error)
}

type Request struct {
	Query      string
	SearchType session.SearchType
	Category   string
	Tags       []string
	SourceType string
	Limit      int
	Offset     int
}

type Result struct {
	searchdb.Document
	RelevanceScore float64 `json:"relevance_score"`
}

type Response struct {
	Results []Result
	Total   int
}

type Service struct {
	logger    logger.Logger
	index     Index
	documents DocumentStore
}

func New(logger logger.Logger, index Index, documents DocumentStore) *Service {
	return &Service{
		logger:    logger,
		index:     index,
		documents: documents,
	}
}

// Search runs the request in the requested mode. Relevance scores are scaled to [0,1].
func (s *Service) Search(ctx context.Context, request Request) (*Response, error) {
	request.Query = strings.TrimSpace(request.Query)
	filters := session.Filters{
		Category: request.Category,
		Tags:     strings.Join(request.Tags, ","),
		Type:     request.SourceType,
	}
	if err := session.Guard(request.Query, filters); err != nil {
		return nil, err
	}

	var (
		ranking []ranked
		err     error
	)
	switch request.SearchType {
	case session.SearchTypeSemantic:
		ranking, err = s.semanticRanking(ctx, request)
	case session.SearchTypeHybrid:
		ranking, err = s.hybridRanking(ctx, request)
	default:
		ranking, err = s.combinedRanking(request)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.documents.RecordSearch(ctx); err != nil {
		s.logger.Warn("could not record search", "err", err.Error())
	}
	metrics.ObserveSearch(string(request.SearchType), len(ranking))

	total := len(ranking)
	page := paginate(ranking, request.Limit, request.Offset)
	results, err := s.hydrate(ctx, page)
	if err != nil {
		return nil, err
	}

	s.logger.Info("search", "query", request.Query, "search_type", string(request.SearchType), "total", total)
	return &Response{Results: results, Total: total}, nil
}

func (s *Service) combinedRanking(request Request) ([]ranked, error) {
	limit, err := s.allDocumentsLimit()
	if err != nil {
		return nil, err
	}

	response, err := s.index.Search(s.indexQuery(request, request.Query, limit))
	if err != nil {
		return nil, fmt.Errorf("full-text search failed: %w", err)
	}

	ranking := make([]ranked, 0, len(response.Hits))
	for _, hit := range response.Hits {
		score := 1.0
		if request.Query != "" && response.MaxScore > 0 {
			score = hit.Score / response.MaxScore
		}
		ranking = append(ranking, ranked{id: hit.ID, score: score})
	}
	return ranking, nil
}

// semanticRanking scores every filtered document by hashed-vector similarity.
// Without query text the newest-first filter order is kept.
func (s *Service) semanticRanking(ctx context.Context, request Request) ([]ranked, error) {
	limit, err := s.allDocumentsLimit()
	if err != nil {
		return nil, err
	}

	response, err := s.index.Search(s.indexQuery(request, "", limit))
	if err != nil {
		return nil, fmt.Errorf("candidate search failed: %w", err)
	}

	ids := make([]string, 0, len(response.Hits))
	for _, hit := range response.Hits {
		ids = append(ids, hit.ID)
	}
	if request.Query == "" {
		ranking := make([]ranked, 0, len(ids))
		for _, id := range ids {
			ranking = append(ranking, ranked{id: id, score: 1})
		}
		return ranking, nil
	}

	candidates, err := s.documents.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	queryVector := textToVector(request.Query, vectorDimension)
	ranking := make([]ranked, 0, len(candidates))
	for _, doc := range candidates {
		similarity := cosine(queryVector, textToVector(documentText(doc), vectorDimension))
		if similarity > 0 {
			ranking = append(ranking, ranked{id: doc.ID, score: similarity})
		}
	}
	sortRanked(ranking)

	return ranking, nil
}

func (s *Service) hybridRanking(ctx context.Context, request Request) ([]ranked, error) {
	combined, err := s.combinedRanking(request)
	if err != nil {
		return nil, err
	}
	semantic, err := s.semanticRanking(ctx, request)
	if err != nil {
		return nil, err
	}

	fused := fuseRRF(combined, semantic)
	if len(fused) > 0 && fused[0].score > 0 {
		maxScore := fused[0].score
		for i := range fused {
			fused[i].score /= maxScore
		}
	}
	return fused, nil
}

func (s *Service) indexQuery(request Request, text string, limit int) searchdb.Query {
	return searchdb.Query{
		Text:       text,
		Category:   request.Category,
		Tags:       request.Tags,
		SourceType: request.SourceType,
		Limit:      limit,
	}
}

// allDocumentsLimit sizes index requests so that every document can be ranked.
func (s *Service) allDocumentsLimit() (int, error) {
	count, err := s.index.GetDocCount()
	if err != nil {
		s.logger.Error("could not count indexed documents", "err", err.Error())
		return 0, fmt.Errorf("could not count indexed documents: %w", err)
	}
	return max(int(count), 1), nil
}

func (s *Service) hydrate(ctx context.Context, page []ranked) ([]Result, error) {
	ids := make([]string, 0, len(page))
	scores := make(map[string]float64, len(page))
	for _, r := range page {
		ids = append(ids, r.id)
		scores[r.id] = r.score
	}

	documents, err := s.documents.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(documents))
	for _, doc := range documents {
		results = append(results, Result{Document: doc, RelevanceScore: scores[doc.ID]})
	}
	return results, nil
}

func paginate(ranking []ranked, limit int, offset int) []ranked {
	start := min(max(offset, 0), len(ranking))
	end := len(ranking)
	if limit > 0 {
		end = min(start+limit, len(ranking))
	}
	return ranking[start:end]
}

func documentText(doc searchdb.Document) string {
	return strings.Join([]string{doc.Title, doc.Summary, doc.Content, strings.Join(doc.Tags, " ")}, " ")
}
