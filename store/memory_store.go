package store

import (
	"context"
	"sync"
	"time"

	"coursefront/models"
)

// memoryStore is a process-local store for development and tests.
type memoryStore struct {
	mu     sync.Mutex
	states map[string]models.BrowserState
}

func NewMemoryStore() Store {
	return &memoryStore{states: map[string]models.BrowserState{}}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (*models.BrowserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &state, nil
}

func (s *memoryStore) Save(_ context.Context, state *models.BrowserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now
	s.states[state.SessionID] = *state
	return nil
}

func (s *memoryStore) Update(_ context.Context, sessionID string, mutate func(*models.BrowserState)) (*models.BrowserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	state, ok := s.states[sessionID]
	if !ok {
		state = models.BrowserState{SessionID: sessionID, CreatedAt: now}
	}
	mutate(&state)
	state.SessionID = sessionID
	state.UpdatedAt = now
	s.states[sessionID] = state
	return &state, nil
}

func (s *memoryStore) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[sessionID]; ok {
		state.UpdatedAt = time.Now()
		s.states[sessionID] = state
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

func (s *memoryStore) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, state := range s.states {
		if state.UpdatedAt.Before(cutoff) {
			delete(s.states, id)
			n++
		}
	}
	return n, nil
}
