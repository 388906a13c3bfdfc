// Package session holds the identity of one browser: its stored tokens,
// the current user and the login/register/logout operations.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"coursefront/apiclient"
	"coursefront/apierr"
	"coursefront/logger"
	"coursefront/models"
	"coursefront/store"

	"github.com/go-resty/resty/v2"
)

// Identity is what views need to know about, and do with, the current user.
type Identity interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context) error
	CurrentUser() *models.User
	IsAuthenticated() bool
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Manager is built once at startup and opens a Session per browser request.
type Manager struct {
	http  *resty.Client
	store store.Store
	log   *logger.Logger
}

func NewManager(httpClient *resty.Client, st store.Store, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{http: httpClient, store: st, log: log.With("component", "session")}
}

// Open loads the browser's persisted state. It does not contact the API.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Session, error) {
	state, err := store.LoadOrNew(ctx, m.store, sessionID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	s := &Session{id: sessionID, state: state, store: m.store, log: m.log}
	s.api = apiclient.New(m.http, s, m.log)
	return s, nil
}

type Session struct {
	id    string
	mu    sync.Mutex
	state *models.BrowserState
	store store.Store
	api   *apiclient.Client
	user  *models.User
	log   *logger.Logger
}

var _ Identity = (*Session)(nil)
var _ apiclient.TokenStore = (*Session)(nil)

func (s *Session) ID() string {
	return s.id
}

// API returns the client bound to this browser's tokens.
func (s *Session) API() *apiclient.Client {
	return s.api
}

// Restore validates a stored access token by fetching the profile. Any
// failure clears the tokens and leaves the session anonymous.
func (s *Session) Restore(ctx context.Context) error {
	if s.AccessToken() == "" {
		s.setUser(nil)
		return nil
	}
	user, err := s.api.Profile(ctx)
	if err != nil {
		s.log.Info("stored session rejected", "kind", apierr.KindOf(err))
		s.setUser(nil)
		if clearErr := s.ClearTokens(ctx); clearErr != nil {
			return clearErr
		}
		return nil
	}
	s.setUser(user)
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	pair, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	if pair.Access == "" {
		return apierr.UnexpectedShape(fmt.Errorf("login response without access token"))
	}
	if err := s.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return err
	}
	user, err := s.api.Profile(ctx)
	if err != nil {
		_ = s.ClearTokens(ctx)
		return err
	}
	if err := s.update(ctx, func(st *models.BrowserState) { st.OwnHintsFor(user.ID) }); err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

// Register creates the account then logs in with the same credentials.
// Validation problems come back as apierr.KindValidation.
func (s *Session) Register(ctx context.Context, in RegisterInput) error {
	err := s.api.Register(ctx, apiclient.RegisterRequest{
		Email:     strings.TrimSpace(in.Email),
		Password:  in.Password,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	})
	if err != nil {
		return err
	}
	return s.Login(ctx, in.Email, in.Password)
}

// Logout forgets tokens, user and the user's issuance hints. Safe to call
// repeatedly.
func (s *Session) Logout(ctx context.Context) error {
	s.setUser(nil)
	return s.update(ctx, func(st *models.BrowserState) {
		st.ClearTokens()
		st.ClearHints()
	})
}

func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// IsStaff is true for authenticated staff users only
func (s *Session) IsStaff() bool {
	u := s.CurrentUser()
	return u != nil && u.IsStaff
}

// SetUser replaces the cached profile snapshot, e.g. after a profile edit.
func (s *Session) SetUser(u *models.User) {
	s.setUser(u)
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
