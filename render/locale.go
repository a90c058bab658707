package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys shared with the page. English text doubles as the key.
const (
	MsgToday          = "today"
	MsgYesterday      = "yesterday"
	MsgDaysAgo        = "%d days ago"
	MsgWeeksAgo       = "%d weeks ago"
	MsgDocumentsCount = "%d documents"
	MsgNothingFound   = "Nothing found"
	MsgNothingToFind  = "Enter a query or choose filters"
	MsgDocumentAdded  = "Document added successfully! (demo mode)"
)

var supportedLanguages = []language.Tag{language.English, language.Russian}

var languageMatcher = language.NewMatcher(supportedLanguages)

var dateLayouts = map[language.Tag]string{
	language.English: "1/2/2006",
	language.Russian: "02.01.2006",
}

func init() {
	for key, translation := range map[string]string{
		MsgToday:          "Сегодня",
		MsgYesterday:      "Вчера",
		MsgDaysAgo:        "%d дней назад",
		MsgWeeksAgo:       "%d недель назад",
		MsgDocumentsCount: "%d документов",
		MsgNothingFound:   "Ничего не найдено 😔",
		MsgNothingToFind:  "Введите запрос или выберите фильтры",
		MsgDocumentAdded:  "✅ Документ успешно добавлен! (DEMO режим)",
	} {
		if err := message.SetString(language.Russian, key, translation); err != nil {
			panic(err)
		}
	}
}

type Locale struct {
	tag        language.Tag
	printer    *message.Printer
	dateLayout string
}

// NewLocale picks the closest supported language for name ("en", "ru-RU", ...).
// Unknown names fall back to English.
func NewLocale(name string) *Locale {
	tag := language.English
	if parsed, err := language.Parse(name); err == nil {
		_, index, confidence := languageMatcher.Match(parsed)
		if confidence != language.No {
			tag = supportedLanguages[index]
		}
	}

	return &Locale{
		tag:        tag,
		printer:    message.NewPrinter(tag),
		dateLayout: dateLayouts[tag],
	}
}

func (l *Locale) Tag() language.Tag {
	return l.tag
}

// Sprintf formats key through the locale's message catalog.
func (l *Locale) Sprintf(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Text translates a message key that takes no arguments.
func (l *Locale) Text(key string) string {
	return l.printer.Sprintf(message.Key(key, key))
}
