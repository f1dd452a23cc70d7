package exam

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/castellanr/quizbank/internal/model"
)

// ErrSessionNotFound is returned when a registry lookup misses.
var ErrSessionNotFound = errors.New("exam: session not found")

// Registry holds the live exam sessions, keyed by opaque ID. One registry
// serves the whole process; sessions are independent of each other.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Start creates a session over the given questions, begins its countdown,
// and registers it under a fresh ID.
func (r *Registry) Start(cfg model.ExamConfig, questions []model.Question) (string, *Session, error) {
	s, err := NewSession(cfg, questions)
	if err != nil {
		return "", nil, err
	}
	s.StartClock()

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id, s, nil
}

// Get looks up a live session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session from the registry and returns it. The caller
// decides whether to finish or abandon it.
func (r *Registry) Remove(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(r.sessions, id)
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
