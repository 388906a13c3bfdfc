// Package store keeps per-browser state (API tokens and issuance hints)
// that a single-page app would otherwise hold in local storage.
package store

import (
	"context"
	"errors"
	"time"

	"coursefront/models"
)

var ErrNotFound = errors.New("browser state not found")

type Store interface {
	// Load returns ErrNotFound when the session has never been saved.
	Load(ctx context.Context, sessionID string) (*models.BrowserState, error)
	Save(ctx context.Context, state *models.BrowserState) error
	// Update loads the current state (or an empty one), applies mutate and
	// saves it without letting another writer interleave. It returns the
	// state as stored.
	Update(ctx context.Context, sessionID string, mutate func(*models.BrowserState)) (*models.BrowserState, error)
	// Touch marks an existing state as active. Missing states are ignored.
	Touch(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	// PurgeBefore removes states untouched since cutoff and returns how many went.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LoadOrNew never fails on a missing record; it hands back an empty state.
func LoadOrNew(ctx context.Context, s Store, sessionID string) (*models.BrowserState, error) {
	state, err := s.Load(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return &models.BrowserState{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}
