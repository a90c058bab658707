package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Page label keys. English text doubles as the key.
const (
	LabelTitle              = "AI Knowledge Base"
	LabelDocuments          = "documents"
	LabelCategories         = "categories"
	LabelSearches           = "searches"
	LabelStatistics         = "Statistics"
	LabelDocumentation      = "Documentation"
	LabelSearchPlaceholder  = "Search the knowledge base..."
	LabelSearch             = "Search"
	LabelAllCategories      = "All categories"
	LabelTagsFilter         = "tags"
	LabelAllTypes           = "All types"
	LabelResults            = "Results"
	LabelAddDocument        = "Add document"
	LabelDocTitle           = "Title"
	LabelDocContent         = "Content"
	LabelDocSummary         = "Summary"
	LabelDocTags            = "tag1, tag2"
	LabelSave               = "Save"
	LabelStatDocuments      = "Documents"
	LabelStatCategories     = "Categories"
	LabelStatTags           = "Tags"
	LabelStatSearches       = "Searches"
	LabelPopularTags        = "Popular tags"
	LabelClose              = "Close"
	LabelSearchTypeCombined = "combined"
	LabelSearchTypeSemantic = "semantic"
	LabelSearchTypeHybrid   = "hybrid"
)

// Labels holds the translated static text of the page.
type Labels struct {
	Title             string
	Documents         string
	Categories        string
	Searches          string
	Statistics        string
	Documentation     string
	SearchPlaceholder string
	Search            string
	AllCategories     string
	TagsFilter        string
	AllTypes          string
	Results           string
	AddDocument       string
	DocTitle          string
	DocContent        string
	DocSummary        string
	DocTags           string
	Save              string
	StatDocuments     string
	StatCategories    string
	StatTags          string
	StatSearches      string
	PopularTags       string
	Close             string
}

func init() {
	for key, translation := range map[string]string{
		LabelTitle:              "База знаний AI",
		LabelDocuments:          "документов",
		LabelCategories:         "категорий",
		LabelSearches:           "поисков",
		LabelStatistics:         "Статистика",
		LabelDocumentation:      "Документация",
		LabelSearchPlaceholder:  "Поиск по базе знаний...",
		LabelSearch:             "Найти",
		LabelAllCategories:      "Все категории",
		LabelTagsFilter:         "теги",
		LabelAllTypes:           "Все типы",
		LabelResults:            "Результаты",
		LabelAddDocument:        "Добавить документ",
		LabelDocTitle:           "Заголовок",
		LabelDocContent:         "Содержание",
		LabelDocSummary:         "Краткое описание",
		LabelDocTags:            "тег1, тег2",
		LabelSave:               "Сохранить",
		LabelStatDocuments:      "Документов",
		LabelStatCategories:     "Категорий",
		LabelStatTags:           "Тегов",
		LabelStatSearches:       "Поисков",
		LabelPopularTags:        "Популярные теги",
		LabelClose:              "Закрыть",
		LabelSearchTypeCombined: "комбинированный",
		LabelSearchTypeSemantic: "семантический",
		LabelSearchTypeHybrid:   "гибридный",
	} {
		if err := message.SetString(language.Russian, key, translation); err != nil {
			panic(err)
		}
	}
}

func (l *Locale) Labels() Labels {
	return Labels{
		Title:             l.Text(LabelTitle),
		Documents:         l.Text(LabelDocuments),
		Categories:        l.Text(LabelCategories),
		Searches:          l.Text(LabelSearches),
		Statistics:        l.Text(LabelStatistics),
		Documentation:     l.Text(LabelDocumentation),
		SearchPlaceholder: l.Text(LabelSearchPlaceholder),
		Search:            l.Text(LabelSearch),
		AllCategories:     l.Text(LabelAllCategories),
		TagsFilter:        l.Text(LabelTagsFilter),
		AllTypes:          l.Text(LabelAllTypes),
		Results:           l.Text(LabelResults),
		AddDocument:       l.Text(LabelAddDocument),
		DocTitle:          l.Text(LabelDocTitle),
		DocContent:        l.Text(LabelDocContent),
		DocSummary:        l.Text(LabelDocSummary),
		DocTags:           l.Text(LabelDocTags),
		Save:              l.Text(LabelSave),
		StatDocuments:     l.Text(LabelStatDocuments),
		StatCategories:    l.Text(LabelStatCategories),
		StatTags:          l.Text(LabelStatTags),
		StatSearches:      l.Text(LabelStatSearches),
		PopularTags:       l.Text(LabelPopularTags),
		Close:             l.Text(LabelClose),
	}
}
