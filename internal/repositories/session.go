package repositories

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
)

var ErrSessionNotFound = errors.New("interview session not found")

// SessionState bundles a live interview session with the request-layer
// context it was started with. The fixed fields are set once at start;
// the transcript and end flag are mutated by concurrent handlers and go
// through the accessors.
type SessionState struct {
	Session        *interview.Session
	ResumeID       uuid.UUID
	JobDescription string
	InterviewType  string
	Difficulty     string
	Mode           string
	IntroMessage   string

	mu        sync.RWMutex
	responses []string // raw answers, in order, for behavioral analytics
	ended     bool     // recruiter ended the interview early
}

// AppendResponse records a raw answer for behavioral analytics.
func (s *SessionState) AppendResponse(answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, answer)
}

// Responses returns a copy of the recorded answers.
func (s *SessionState) Responses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	responses := make([]string, len(s.responses))
	copy(responses, s.responses)
	return responses
}

// MarkEnded flags the session as ended early. Returns false if it was
// already ended, so archiving happens exactly once.
func (s *SessionState) MarkEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return false
	}
	s.ended = true
	return true
}

// Ended reports whether the interview was ended early.
func (s *SessionState) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}

// SessionStore owns live interview sessions for their lifetime. The
// interview core never holds global state; the store is injected into the
// service layer.
type SessionStore interface {
	Create(state *SessionState) error
	Get(id uuid.UUID) (*SessionState, error)
	Update(state *SessionState) error
	Delete(id uuid.UUID) error
	List() ([]*SessionState, error)
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*SessionState
}

// NewMemorySessionStore returns an in-process SessionStore. Cross-restart
// persistence is handled separately by archiving finished sessions to
// Postgres.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[uuid.UUID]*SessionState),
	}
}

// Create implements SessionStore.
func (s *memorySessionStore) Create(state *SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[state.Session.ID]; exists {
		return errors.New("session already exists")
	}
	s.sessions[state.Session.ID] = state
	return nil
}

// Get implements SessionStore.
func (s *memorySessionStore) Get(id uuid.UUID) (*SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// Update implements SessionStore. The memory store hands out live
// pointers, so this only checks the session is still owned by the store.
func (s *memorySessionStore) Update(state *SessionState) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[state.Session.ID]; !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete implements SessionStore.
func (s *memorySessionStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List implements SessionStore.
func (s *memorySessionStore) List() ([]*SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]*SessionState, 0, len(s.sessions))
	for _, state := range s.sessions {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Session.StartedAt.Before(states[j].Session.StartedAt)
	})
	return states, nil
}
