// Package session holds the per page-load state of the demo search page.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/meghashyamc/knowledgebase/catalog"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/render"
)

type MessageKind string

const (
	MessageError   MessageKind = "error"
	MessageSuccess MessageKind = "success"
)

// Message is a transient notice shown until ExpiresAt.
type Message struct {
	Kind      MessageKind
	Text      string
	ExpiresAt time.Time
}

type Session struct {
	ID string

	mu          sync.Mutex
	logger      logger.Logger
	catalog     []catalog.Document
	messageTTL  time.Duration
	state       SearchState
	counters    Counters
	addFormOpen bool
	results     []catalog.Document
	hasResults  bool
	messages    []Message
	lastSeen    time.Time
}

// View is a consistent snapshot of a session for rendering.
type View struct {
	State       SearchState
	Counters    Counters
	AddFormOpen bool
	HasResults  bool
	Results     []catalog.Document
	Messages    []Message
}

func newSession(id string, logger logger.Logger, docs []catalog.Document, messageTTL time.Duration, now time.Time) *Session {
	return &Session{
		ID:         id,
		logger:     logger,
		catalog:    docs,
		messageTTL: messageTTL,
		state:      SearchState{SearchType: SearchTypeCombined},
		counters:   InitialCounters(),
		lastSeen:   now,
	}
}

// Search validates the submission and, when accepted, replaces the search state
// and the displayed results. Filters are stored but do not narrow the results.
func (s *Session) Search(query string, searchType SearchType, filters Filters, now time.Time) ([]catalog.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	query = strings.TrimSpace(query)
	if err := Guard(query, filters); err != nil {
		s.logger.Debug("search rejected", "session_id", s.ID)
		s.addMessage(MessageError, render.MsgNothingToFind, now)
		return nil, err
	}

	s.state = SearchState{Query: query, SearchType: searchType, Filters: filters}
	s.logger.Info("search", "session_id", s.ID, "query", query, "search_type", string(searchType))

	s.results = catalog.Filter(query, s.catalog)
	s.hasResults = true

	return s.results, nil
}

// AddDocument only bumps the displayed document counter. The document never
// reaches the searchable catalog.
func (s *Session) AddDocument(input AddDocumentInput, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	s.logger.Info("saving document", "session_id", s.ID, "title", input.Title, "tags", ParseTags(input.Tags))

	s.addMessage(MessageSuccess, render.MsgDocumentAdded, now)
	s.addFormOpen = false
	s.counters.Documents++
}

func (s *Session) ToggleAddForm(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	s.addFormOpen = !s.addFormOpen
	return s.addFormOpen
}

// View drops expired messages and returns what the page should display.
func (s *Session) View(now time.Time) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now

	live := s.messages[:0]
	for _, message := range s.messages {
		if now.Before(message.ExpiresAt) {
			live = append(live, message)
		}
	}
	s.messages = live

	return View{
		State:       s.state,
		Counters:    s.counters,
		AddFormOpen: s.addFormOpen,
		HasResults:  s.hasResults,
		Results:     append([]catalog.Document(nil), s.results...),
		Messages:    append([]Message(nil), s.messages...),
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// newest first, like the page inserts them at the top
func (s *Session) addMessage(kind MessageKind, text string, now time.Time) {
	message := Message{Kind: kind, Text: text, ExpiresAt: now.Add(s.messageTTL)}
	s.messages = append([]Message{message}, s.messages...)
}
