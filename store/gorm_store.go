package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coursefront/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
	// serializes Update within this process; SQLite has no row locks
	mu sync.Mutex
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Load(ctx context.Context, sessionID string) (*models.BrowserState, error) {
	var state models.BrowserState
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load browser state: %w", err)
	}
	return &state, nil
}

func (s *gormStore) Save(ctx context.Context, state *models.BrowserState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("save browser state: session id required")
	}
	state.UpdatedAt = time.Now()
	if err := upsertState(s.db.WithContext(ctx), state); err != nil {
		return fmt.Errorf("save browser state: %w", err)
	}
	return nil
}

func upsertState(tx *gorm.DB, state *models.BrowserState) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "hints_user_id", "issued_certificates", "submitted_feedback", "updated_at"}),
	}).Create(state).Error
}

// Update reads the row FOR UPDATE inside a transaction so other instances
// sharing the database wait for this write.
func (s *gormStore) Update(ctx context.Context, sessionID string, mutate func(*models.BrowserState)) (*models.BrowserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out models.BrowserState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var state models.BrowserState
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("session_id = ?", sessionID).First(&state).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			state = models.BrowserState{SessionID: sessionID}
		} else if err != nil {
			return err
		}
		mutate(&state)
		state.SessionID = sessionID
		state.UpdatedAt = time.Now()
		if err := upsertState(tx, &state); err != nil {
			return err
		}
		out = state
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update browser state: %w", err)
	}
	return &out, nil
}

func (s *gormStore) Touch(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).Model(&models.BrowserState{}).
		Where("session_id = ?", sessionID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("touch browser state: %w", err)
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.BrowserState{}).Error; err != nil {
		return fmt.Errorf("delete browser state: %w", err)
	}
	return nil
}

func (s *gormStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&models.BrowserState{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge browser state: %w", res.Error)
	}
	return res.RowsAffected, nil
}
