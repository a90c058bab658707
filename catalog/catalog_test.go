package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func titles(docs []Document) []string {
	result := make([]string, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.Title)
	}
	return result
}

var filterTestCases = []struct {
	name           string
	query          string
	expectedTitles []string
}{
	{
		name:  "EmptyQueryReturnsWholeCatalog",
		query: "",
		expectedTitles: []string{
			"Основы машинного обучения",
			"Как создать REST API на Python",
			"Deep Learning и нейронные сети",
			"Введение в Supabase и векторный поиск",
		},
	},
	{
		name:  "Python",
		query: "python",
		expectedTitles: []string{
			"Основы машинного обучения",
			"Как создать REST API на Python",
		},
	},
	{
		name:           "UpperCaseQuery",
		query:          "SUPABASE",
		expectedTitles: []string{"Введение в Supabase и векторный поиск"},
	},
	{
		name:           "CyrillicCaseInsensitive",
		query:          "ОБЗОР",
		expectedTitles: []string{"Deep Learning и нейронные сети", "Введение в Supabase и векторный поиск"},
	},
	{
		name:           "SubstringWithinTag",
		query:          "gres",
		expectedTitles: []string{"Введение в Supabase и векторный поиск"},
	},
	{
		name:  "TagSharedByThree",
		query: "ai",
		expectedTitles: []string{
			"Основы машинного обучения",
			"Deep Learning и нейронные сети",
			"Введение в Supabase и векторный поиск",
		},
	},
	{
		name:           "NoMatches",
		query:          "kubernetes",
		expectedTitles: []string{},
	},
}

func TestFilter(t *testing.T) {
	for _, testCase := range filterTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expectedTitles, titles(Filter(testCase.query, Sample())))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	assert := require.New(t)
	for _, query := range []string{"", "python", "ai", "нейронные", "nothing"} {
		once := Filter(query, Sample())
		twice := Filter(query, once)
		assert.Equal(titles(once), titles(twice), "query %q", query)
	}
}

func TestFilterEmptyCatalog(t *testing.T) {
	assert := require.New(t)
	assert.Empty(Filter("python", nil))
	assert.Empty(Filter("", nil))
}

func TestFilterDoesNotMutateCatalog(t *testing.T) {
	assert := require.New(t)
	docs := Sample()
	result := Filter("", docs)
	result[0].Title = "changed"
	assert.Equal("Основы машинного обучения", docs[0].Title)
}

func TestSampleReturnsFreshCopy(t *testing.T) {
	assert := require.New(t)
	first := Sample()
	first[0].Tags[0] = "changed"
	assert.Equal("machine-learning", Sample()[0].Tags[0])
	assert.Equal(time.Date(2025, 11, 29, 17, 41, 41, 0, time.UTC), Sample()[3].CreatedAt)
}
