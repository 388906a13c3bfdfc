package session

import (
	"context"
	"time"

	"coursefront/models"
)

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshToken
}

func (s *Session) SetAccessToken(ctx context.Context, access string) error {
	return s.update(ctx, func(st *models.BrowserState) { st.AccessToken = access })
}

func (s *Session) SetTokens(ctx context.Context, access, refresh string) error {
	return s.update(ctx, func(st *models.BrowserState) {
		st.AccessToken = access
		st.RefreshToken = refresh
	})
}

func (s *Session) ClearTokens(ctx context.Context) error {
	return s.update(ctx, (*models.BrowserState).ClearTokens)
}

// Issuance hints. They only answer when the API cannot be reached, and only
// for the user who earned them.

func (s *Session) HasIssuedCertificate(courseID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownsHints() && s.state.HasIssuedCertificate(courseID)
}

func (s *Session) MarkIssuedCertificate(ctx context.Context, courseID uint) error {
	uid := s.userID()
	return s.update(ctx, func(st *models.BrowserState) {
		st.OwnHintsFor(uid)
		st.MarkIssuedCertificate(courseID)
	})
}

func (s *Session) HasSubmittedFeedback(courseID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownsHints() && s.state.HasSubmittedFeedback(courseID)
}

func (s *Session) MarkSubmittedFeedback(ctx context.Context, courseID uint) error {
	uid := s.userID()
	return s.update(ctx, func(st *models.BrowserState) {
		st.OwnHintsFor(uid)
		st.MarkSubmittedFeedback(courseID)
	})
}

// ownsHints must be called with s.mu held.
func (s *Session) ownsHints() bool {
	return s.user != nil && s.state.HintsUserID == s.user.ID
}

func (s *Session) userID() uint {
	if u := s.CurrentUser(); u != nil {
		return u.ID
	}
	return 0
}

// KeepAlive marks the stored state as active once its last write is older
// than every. Housekeeping purges by that timestamp.
func (s *Session) KeepAlive(ctx context.Context, every time.Duration) error {
	s.mu.Lock()
	updated := s.state.UpdatedAt
	s.mu.Unlock()
	if updated.IsZero() || time.Since(updated) < every {
		return nil
	}
	if err := s.store.Touch(ctx, s.id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.UpdatedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// update applies mutate to the stored state rather than this request's
// copy, so overlapping requests from one browser keep each other's writes.
func (s *Session) update(ctx context.Context, mutate func(*models.BrowserState)) error {
	fresh, err := s.store.Update(ctx, s.id, mutate)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = fresh
	s.mu.Unlock()
	return nil
}
