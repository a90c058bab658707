package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/metrics"
	"github.com/meghashyamc/knowledgebase/render"
	"github.com/meghashyamc/knowledgebase/session"
)

const SessionCookie = "kb_session"

const pageTemplate = "index"

var pageCategories = []string{"AI & Machine Learning", "Programming", "Business", "Personal", "Research"}

var pageSourceTypes = []string{"article", "tutorial", "note", "video"}

type PageOptions struct {
	Locale  *render.Locale
	DocsURL string
	Now     func() time.Time
}

type SearchForm struct {
	Query      string `form:"query"`
	SearchType string `form:"search_type"`
	Category   string `form:"category"`
	Tags       string `form:"tags"`
	Type       string `form:"type"`
}

type DemoDocumentForm struct {
	Title    string `form:"title"`
	Content  string `form:"content"`
	Summary  string `form:"summary"`
	Tags     string `form:"tags"`
	Category string `form:"category"`
	Type     string `form:"type"`
}

type option struct {
	Value   string
	Label   string
	Checked bool
}

type pageMessage struct {
	Kind      session.MessageKind
	Text      string
	TTLMillis int64
}

type pageData struct {
	Lang        string
	Labels      render.Labels
	Messages    []pageMessage
	Counters    session.Counters
	DocsURL     string
	State       session.SearchState
	SearchTypes []option
	Categories  []option
	SourceTypes []option
	Results     *render.Results
	AddFormOpen bool
	ShowStats   bool
	Stats       session.PopupStats
}

type page struct {
	store   *session.Store
	logger  logger.Logger
	options PageOptions
}

func SetupPage(router *gin.Engine, logger logger.Logger, store *session.Store, options PageOptions) {
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Locale == nil {
		options.Locale = render.NewLocale("en")
	}
	p := &page{store: store, logger: logger, options: options}

	router.GET("/", p.handleStart())
	router.GET("/view", p.withSession(p.handleView(false)))
	router.GET("/stats", p.withSession(p.handleView(true)))
	router.POST("/search", p.withSession(p.handleSearch()))
	router.POST("/add/toggle", p.withSession(p.handleToggleAddForm()))
	router.POST("/documents/demo", p.withSession(p.handleAddDocument()))

}

// handleStart begins a fresh session on every page load.
func (p *page) handleStart() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := p.options.Now()
		sess := p.store.New(now)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, 0, "/", "", false, true)
		p.render(c, sess, now, false)
	}
}

func (p *page) handleView(showStats bool) func(*gin.Context, *session.Session) {
	return func(c *gin.Context, sess *session.Session) {
		p.render(c, sess, p.options.Now(), showStats)
	}
}

func (p *page) handleSearch() func(*gin.Context, *session.Session) {
	return func(c *gin.Context, sess *session.Session) {
		form := SearchForm{}
		if err := c.ShouldBind(&form); err != nil {
			p.logger.Warn("could not extract search form", "err", err.Error())
			c.AbortWithStatus(http.StatusUnprocessableEntity)
			return
		}

		searchType := session.ParseSearchType(form.SearchType)
		filters := session.Filters{Category: form.Category, Tags: form.Tags, Type: form.Type}
		matches, err := sess.Search(form.Query, searchType, filters, p.options.Now())
		if err != nil {
			metrics.ObserveRejectedSearch()
		} else {
			metrics.ObserveSearch(string(searchType), len(matches))
		}

		c.Redirect(http.StatusSeeOther, "/view")
	}
}

func (p *page) handleToggleAddForm() func(*gin.Context, *session.Session) {
	return func(c *gin.Context, sess *session.Session) {
		sess.ToggleAddForm(p.options.Now())
		c.Redirect(http.StatusSeeOther, "/view")
	}
}

func (p *page) handleAddDocument() func(*gin.Context, *session.Session) {
	return func(c *gin.Context, sess *session.Session) {
		form := DemoDocumentForm{}
		if err := c.ShouldBind(&form); err != nil {
			p.logger.Warn("could not extract document form", "err", err.Error())
			c.AbortWithStatus(http.StatusUnprocessableEntity)
			return
		}

		sess.AddDocument(session.AddDocumentInput{
			Title:    form.Title,
			Content:  form.Content,
			Summary:  form.Summary,
			Tags:     form.Tags,
			Category: form.Category,
			Type:     form.Type,
		}, p.options.Now())
		metrics.ObserveDocumentAdded("demo")

		c.Redirect(http.StatusSeeOther, "/view")
	}
}

// withSession resolves the session cookie. Unknown or expired sessions start over.
func (p *page) withSession(handler func(*gin.Context, *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		sess, ok := p.store.Get(id)
		if !ok {
			p.logger.Debug("unknown session", "session_id", id)
			c.Redirect(http.StatusSeeOther, "/")
			return
		}

		handler(c, sess)
	}
}

func (p *page) render(c *gin.Context, sess *session.Session, now time.Time, showStats bool) {
	view := sess.View(now)

	data := pageData{
		Lang:        p.options.Locale.Tag().String(),
		Labels:      p.options.Locale.Labels(),
		Counters:    view.Counters,
		DocsURL:     p.options.DocsURL,
		State:       view.State,
		SearchTypes: searchTypeOptions(view.State.SearchType, p.options.Locale),
		Categories:  selectOptions(pageCategories, view.State.Filters.Category),
		SourceTypes: selectOptions(pageSourceTypes, view.State.Filters.Type),
		AddFormOpen: view.AddFormOpen,
		ShowStats:   showStats,
		Stats:       session.Popup(),
	}

	for _, message := range view.Messages {
		data.Messages = append(data.Messages, pageMessage{
			Kind:      message.Kind,
			Text:      p.options.Locale.Text(message.Text),
			TTLMillis: message.ExpiresAt.Sub(now).Milliseconds(),
		})
	}

	if view.HasResults {
		results := render.Render(view.Results, view.State.Query, now, p.options.Locale)
		data.Results = &results
	}

	c.HTML(http.StatusOK, pageTemplate, data)
}

func searchTypeOptions(selected session.SearchType, locale *render.Locale) []option {
	if selected == "" {
		selected = session.SearchTypeCombined
	}
	opts := make([]option, 0, len(session.SearchTypes))
	for _, searchType := range session.SearchTypes {
		opts = append(opts, option{Value: string(searchType), Label: locale.Text(string(searchType)), Checked: searchType == selected})
	}
	return opts
}

func selectOptions(values []string, selected string) []option {
	opts := make([]option, 0, len(values))
	for _, value := range values {
		opts = append(opts, option{Value: value, Label: value, Checked: value == selected})
	}
	return opts
}
