package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/knowledgebase/catalog"
	"github.com/meghashyamc/knowledgebase/logger"
)

const sweepInterval = time.Minute

// Store keeps live sessions in memory. Nothing survives a restart.
type Store struct {
	logger      logger.Logger
	messageTTL  time.Duration
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(logger logger.Logger, messageTTL time.Duration, idleTimeout time.Duration) *Store {
	return &Store{
		logger:      logger,
		messageTTL:  messageTTL,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*Session),
	}
}

// New starts a session over a fresh copy of the sample catalog.
func (s *Store) New(now time.Time) *Session {
	sess := newSession(uuid.New().String(), s.logger, catalog.Sample(), s.messageTTL, now)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session started", "session_id", sess.ID)
	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep discards sessions idle for longer than the idle timeout.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTimeout {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("swept idle sessions", "count", removed)
	}
	return removed
}

// Run sweeps idle sessions until ctx is done.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.Sweep(now)
		case <-ctx.Done():
			s.logger.Info("session store stopped", "reason", ctx.Err())
			return
		}
	}
}
