package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/logger"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle view session is kept.
const DefaultSessionTTL = 30 * time.Minute

// Session is one view session owned by a user.
type Session struct {
	ID         string
	Controller *SubscriptionListController
	lastSeen   time.Time
}

// SessionStore keeps view sessions in memory and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     ControllerDeps
	opts     ControllerOptions
	ttl      time.Duration
	now      func() time.Time
	logger   logger.Logger
}

// NewSessionStore creates a store whose controllers share deps and opts.
func NewSessionStore(deps ControllerDeps, opts ControllerOptions, ttl time.Duration, logger logger.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		deps:     deps,
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create opens a new session for userID on tab.
func (s *SessionStore) Create(userID string, tab Tab) *Session {
	session := &Session{
		ID:         uuid.NewString(),
		Controller: NewSubscriptionListController(userID, tab, s.deps, s.opts),
		lastSeen:   s.now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("View session created", "sessionID", session.ID, "userID", userID, "tab", tab)
	return session
}

// Get returns the session id owned by userID and refreshes its idle timer.
func (s *SessionStore) Get(id, userID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, entity.ErrNotFound)
	}
	if s.now().Sub(session.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, fmt.Errorf("session %s expired: %w", id, entity.ErrNotFound)
	}
	if session.Controller.UserID() != userID {
		return nil, fmt.Errorf("session %s: %w", id, entity.ErrForbidden)
	}
	session.lastSeen = s.now()
	return session, nil
}

// Delete drops a session. Unknown ids are ignored.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every idle session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("Expired idle view sessions", "count", n)
			}
		}
	}
}
