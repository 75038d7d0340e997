// Package session provides the in-memory session store.
//
// Histories live for the process lifetime only; losing them on restart is an
// accepted limitation at campus scale. The store serializes the
// read-process-write cycle per session id so overlapping requests on one
// session cannot lose updates.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tien2204/sotaysinhvienhust-rag/internal/domain"
)

type entry struct {
	mu      sync.Mutex
	session domain.Session
}

// Store maps session identifiers to conversation histories.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Checkout returns the session id and a copy of its history, minting a fresh
// identifier when the given one is empty or unknown. The session stays locked
// until Commit or Release, so one turn at a time runs per session.
func (s *Store) Checkout(sessionID string) (string, []domain.Message) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	if sessionID == "" || !ok {
		sessionID = "sess_" + uuid.New().String()[:8]
		e = &entry{session: domain.Session{
			SessionID: sessionID,
			CreatedAt: time.Now(),
		}}
		s.sessions[sessionID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	history := make([]domain.Message, len(e.session.History))
	copy(history, e.session.History)
	return sessionID, history
}

// Commit replaces the session history and releases the session.
func (s *Store) Commit(sessionID string, history []domain.Message) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return
	}
	e.session.History = make([]domain.Message, len(history))
	copy(e.session.History, history)
	e.mu.Unlock()
}

// Release unlocks the session without writing (failed turns).
func (s *Store) Release(sessionID string) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		e.mu.Unlock()
	}
}

// History returns a copy of the session history, or false for unknown ids.
func (s *Store) History(sessionID string) ([]domain.Message, bool) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	history := make([]domain.Message, len(e.session.History))
	copy(history, e.session.History)
	return history, true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
