// Package render turns matched catalog documents into the escaped view model
// the page templates display.
package render

import (
	"html/template"
	"math"
	"strconv"
	"time"

	"github.com/meghashyamc/knowledgebase/catalog"
)

const day = 24 * time.Hour

type Card struct {
	Title   template.HTML
	Summary template.HTML
	Score   string
	Tags    []template.HTML
	Age     string
}

type Placeholder struct {
	Text string
}

// Results has either Cards or a Placeholder, never both.
type Results struct {
	Query       string
	Count       int
	CountLabel  string
	Cards       []Card
	Placeholder *Placeholder
}

func Render(docs []catalog.Document, query string, now time.Time, locale *Locale) Results {
	results := Results{
		Query:      query,
		Count:      len(docs),
		CountLabel: locale.Sprintf(MsgDocumentsCount, len(docs)),
	}

	if len(docs) == 0 {
		results.Placeholder = &Placeholder{Text: locale.Text(MsgNothingFound)}
		return results
	}

	results.Cards = make([]Card, 0, len(docs))
	for _, doc := range docs {
		results.Cards = append(results.Cards, NewCard(doc, now, locale))
	}

	return results
}

func NewCard(doc catalog.Document, now time.Time, locale *Locale) Card {
	tags := make([]template.HTML, 0, len(doc.Tags))
	for _, tag := range doc.Tags {
		tags = append(tags, Escape("#"+tag))
	}

	return Card{
		Title:   Escape(doc.Title),
		Summary: Escape(doc.Summary),
		Score:   Percent(doc.RelevanceScore),
		Tags:    tags,
		Age:     AgeLabel(doc.CreatedAt, now, locale),
	}
}

// Escape neutralizes markup so the value can be written into a page verbatim.
func Escape(text string) template.HTML {
	return template.HTML(template.HTMLEscapeString(text))
}

// Percent renders a [0,1] score as a whole percentage, e.g. 0.95 -> "95%".
func Percent(score float64) string {
	return strconv.FormatInt(int64(math.Round(score*100)), 10) + "%"
}

func DiffDays(createdAt time.Time, now time.Time) int {
	return int(math.Floor(float64(now.Sub(createdAt)) / float64(day)))
}

// AgeLabel describes how long ago createdAt was. Future timestamps give a
// negative day count and fall into the "days ago" branch.
func AgeLabel(createdAt time.Time, now time.Time, locale *Locale) string {
	diffDays := DiffDays(createdAt, now)

	switch {
	case diffDays == 0:
		return locale.Sprintf(MsgToday)
	case diffDays == 1:
		return locale.Sprintf(MsgYesterday)
	case diffDays < 7:
		return locale.Sprintf(MsgDaysAgo, diffDays)
	case diffDays < 30:
		return locale.Sprintf(MsgWeeksAgo, diffDays/7)
	}

	return createdAt.In(now.Location()).Format(locale.dateLayout)
}
