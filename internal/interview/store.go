package interview

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned by Snapshot for unknown session IDs. Reads
// never create sessions implicitly.
var ErrSessionNotFound = errors.New("interview session not found")

// Store holds interview state keyed by session ID.
//
// Implementations must serialize access per session: Update holds the
// session's lock for the duration of fn, including any collaborator calls fn
// makes, so two concurrent Respond calls for the same session cannot both
// observe the same CurrentField. Operations on distinct sessions may run in
// parallel.
type Store interface {
	// Update runs fn with exclusive access to the session's state, creating
	// an empty state first if the session does not exist. Mutations made by
	// fn are retained unless fn returns an error, in which case they are
	// discarded.
	Update(sessionID string, fn func(*State) error) error

	// Snapshot returns a copy of the session's state, or ErrSessionNotFound.
	Snapshot(sessionID string) (*State, error)
}

// MemoryStore is the in-process Store used by the base deployment. A durable
// implementation can be swapped in behind the same interface.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu    sync.Mutex
	state *State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*sessionEntry)}
}

func (s *MemoryStore) entry(sessionID string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{state: newState(sessionID)}
		s.sessions[sessionID] = e
	}
	return e
}

func (s *MemoryStore) Update(sessionID string, fn func(*State) error) error {
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	// fn works on a copy; the entry is replaced only on success so a failed
	// transition leaves no partial mutation behind.
	working := e.state.clone()
	if err := fn(working); err != nil {
		return err
	}
	e.state = working
	return nil
}

func (s *MemoryStore) Snapshot(sessionID string) (*State, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone(), nil
}
