package conversation

import (
	"slices"
	"sync"
)

// Store manages the conversation histories of all sessions
type Store interface {
	// History returns a copy of the turns stored for a session, or nil if the session is unknown
	History(sessionID string) []Turn
	// AppendExchange appends a user turn and the model's reply to a session's history as one unit, creating the
	// session if it does not exist yet
	AppendExchange(sessionID string, user Turn, model Turn)
}

// MemoryStore implements Store with a mutex-guarded map. Histories live for the lifetime of the process and are never
// evicted.
type MemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]Turn
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		histories: make(map[string][]Turn),
	}
}

func (s *MemoryStore) History(sessionID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.histories[sessionID]
	if len(turns) == 0 {
		return nil
	}
	return slices.Clone(turns)
}

func (s *MemoryStore) AppendExchange(sessionID string, user Turn, model Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[sessionID] = append(s.histories[sessionID], user, model)
}

// Len returns the number of turns stored for a session
func (s *MemoryStore) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.histories[sessionID])
}

// Sessions returns the number of sessions with at least one stored exchange
func (s *MemoryStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.histories)
}

var _ Store = (*MemoryStore)(nil)
