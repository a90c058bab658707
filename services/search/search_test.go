package search

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/knowledgebase/config"
	"github.com/meghashyamc/knowledgebase/db/kvdb"
	"github.com/meghashyamc/knowledgebase/db/searchdb"
	"github.com/meghashyamc/knowledgebase/services/documents"
	"github.com/meghashyamc/knowledgebase/session"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T, assert *require.Assertions) (*Service, *documents.Service) {
	storagePath := t.TempDir()
	t.Setenv("STORAGE_PATH", storagePath)
	t.Setenv("KVDB_PATH", filepath.Join(storagePath, "kb.db"))
	cfg, err := config.Load("test", nil)
	assert.NoError(err, "could not load config")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	kvDB, err := kvdb.New(logger, cfg)
	assert.NoError(err, "could not create kv database")
	searchDB, err := searchdb.New(logger, cfg)
	assert.NoError(err, "could not create search database")
	t.Cleanup(func() {
		assert.NoError(searchDB.Close())
		assert.NoError(kvDB.Close())
	})

	documentService := documents.New(logger, kvDB, searchDB)
	assert.NoError(documentService.Seed(context.Background()))

	return New(logger, searchDB, documentService), documentService
}

func resultTitles(response *Response) []string {
	titles := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		titles = append(titles, result.Title)
	}
	return titles
}

var searchTestCases = []struct {
	name           string
	request        Request
	expectedTitles []string
	ordered        bool
}{
	{
		name:           "CombinedPython",
		request:        Request{Query: "python", Limit: 20},
		expectedTitles: []string{"Основы машинного обучения", "Как создать REST API на Python"},
	},
	{
		name:           "CombinedWithCategory",
		request:        Request{Query: "python", Category: "Programming", Limit: 20},
		expectedTitles: []string{"Как создать REST API на Python"},
	},
	{
		name:           "FiltersOnlyNewestFirst",
		request:        Request{Category: "AI & Machine Learning", Limit: 20},
		expectedTitles: []string{"Deep Learning и нейронные сети", "Основы машинного обучения"},
		ordered:        true,
	},
	{
		name:           "TagsFilter",
		request:        Request{Tags: []string{"ai", "neural-networks"}, Limit: 20},
		expectedTitles: []string{"Deep Learning и нейронные сети", "Основы машинного обучения"},
		ordered:        true,
	},
	{
		name:           "SemanticSupabase",
		request:        Request{Query: "supabase pgvector", SearchType: session.SearchTypeSemantic, Limit: 20},
		expectedTitles: []string{"Введение в Supabase и векторный поиск"},
	},
	{
		name:           "SemanticWithSourceType",
		request:        Request{Query: "ai", SearchType: session.SearchTypeSemantic, SourceType: "article", Limit: 20},
		expectedTitles: []string{"Основы машинного обучения", "Deep Learning и нейронные сети"},
	},
	{
		name:           "HybridPython",
		request:        Request{Query: "python", SearchType: session.SearchTypeHybrid, Limit: 20},
		expectedTitles: []string{"Основы машинного обучения", "Как создать REST API на Python"},
	},
	{
		name:           "NoMatches",
		request:        Request{Query: "kubernetes", SearchType: session.SearchTypeHybrid, Limit: 20},
		expectedTitles: []string{},
	},
}

func TestSearch(t *testing.T) {
	assert := require.New(t)
	service, _ := setupTestService(t, assert)

	for _, testCase := range searchTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			response, err := service.Search(context.Background(), testCase.request)
			assert.NoError(err)
			assert.Equal(len(testCase.expectedTitles), response.Total)
			if testCase.ordered {
				assert.Equal(testCase.expectedTitles, resultTitles(response))
			} else {
				assert.ElementsMatch(testCase.expectedTitles, resultTitles(response))
			}
			for _, result := range response.Results {
				assert.Greater(result.RelevanceScore, 0.0)
				assert.LessOrEqual(result.RelevanceScore, 1.0)
			}
		})
	}
}

func TestSearchGuard(t *testing.T) {
	assert := require.New(t)
	service, documentService := setupTestService(t, assert)
	ctx := context.Background()

	_, err := service.Search(ctx, Request{Query: "   ", Limit: 20})
	assert.ErrorIs(err, session.ErrNothingToSearch)

	stats, err := documentService.Stats(ctx)
	assert.NoError(err)
	assert.Zero(stats.TotalSearches, "rejected searches are not counted")
}

func TestSearchCountsAcceptedSearches(t *testing.T) {
	assert := require.New(t)
	service, documentService := setupTestService(t, assert)
	ctx := context.Background()

	_, err := service.Search(ctx, Request{Query: "ai", Limit: 20})
	assert.NoError(err)
	_, err = service.Search(ctx, Request{Query: "nothing here", SearchType: session.SearchTypeSemantic, Limit: 20})
	assert.NoError(err)

	stats, err := documentService.Stats(ctx)
	assert.NoError(err)
	assert.Equal(uint64(2), stats.TotalSearches)
}

func TestSearchPagination(t *testing.T) {
	assert := require.New(t)
	service, _ := setupTestService(t, assert)
	ctx := context.Background()

	full, err := service.Search(ctx, Request{Query: "ai", Limit: 20})
	assert.NoError(err)
	assert.Equal(3, full.Total)

	page, err := service.Search(ctx, Request{Query: "ai", Limit: 2, Offset: 2})
	assert.NoError(err)
	assert.Equal(3, page.Total)
	assert.Len(page.Results, 1)
	assert.Equal(full.Results[2].ID, page.Results[0].ID)
}

func TestAddedDocumentsAreSearchable(t *testing.T) {
	assert := require.New(t)
	service, documentService := setupTestService(t, assert)
	ctx := context.Background()

	_, err := documentService.Add(ctx, documents.AddRequest{Title: "Zebra migration", Content: "stripes on the savanna", Tags: []string{"wildlife"}})
	assert.NoError(err)

	response, err := service.Search(ctx, Request{Query: "zebra", Limit: 20})
	assert.NoError(err)
	assert.Equal([]string{"Zebra migration"}, resultTitles(response))
}
