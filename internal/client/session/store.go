// Package session is the client side of Sol-X authentication: a session
// store persisted between runs, the API client it logs in through, and the
// route and navigation decisions driven by the stored role.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/solx/solx-api/internal/core/domain"
)

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = errors.New("session: not signed in")

// State is the persisted session triple.
type State struct {
	User            *domain.PublicUser `json:"user"`
	Token           string             `json:"token"`
	IsAuthenticated bool               `json:"isAuthenticated"`
}

// Valid reports whether the triple is consistent: authenticated with both
// a token and a user carrying a known role.
func (s State) Valid() bool {
	return s.IsAuthenticated &&
		s.Token != "" &&
		s.User != nil &&
		s.User.ID != "" &&
		s.User.Role.Valid()
}

// Authenticator performs the remote login.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

// Store holds the current session. All methods are safe for concurrent use;
// persistence completes before a mutating call returns.
type Store struct {
	api     Authenticator
	persist Persister

	mu      sync.RWMutex
	state   State
	loading bool
}

// New returns an unauthenticated Store. Call Load to rehydrate it.
func New(api Authenticator, persist Persister) *Store {
	return &Store{api: api, persist: persist}
}

// Load rehydrates from the persister. Anything other than a valid triple
// leaves the store signed out; read failures are also returned.
func (s *Store) Load() error {
	st, err := s.persist.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil || !st.Valid() {
		s.state = State{}
		return err
	}
	s.state = cloneState(st)
	return nil
}

// Login authenticates remotely. API errors are returned as is and leave
// the current state untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.SetAuth(resp.User, resp.AccessToken)
}

// SetAuth installs a user and token obtained elsewhere.
func (s *Store) SetAuth(user domain.PublicUser, token string) error {
	st := State{User: &user, Token: token, IsAuthenticated: true}
	if !st.Valid() {
		return fmt.Errorf("session: incomplete credentials")
	}
	return s.commit(st)
}

// UpdateUser replaces the cached user and keeps the token.
func (s *Store) UpdateUser(user domain.PublicUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Valid() {
		return ErrNoSession
	}
	return s.commitLocked(State{User: &user, Token: s.state.Token, IsAuthenticated: true})
}

// Logout forgets the session on disk and then in memory. If the file can
// be neither removed nor overwritten the session stays as it was and the
// error is returned. It is safe to call when already signed out.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist.Clear(); err != nil {
		if saveErr := s.persist.Save(State{}); saveErr != nil {
			return fmt.Errorf("session: logout: %w", errors.Join(err, saveErr))
		}
	}
	s.state = State{}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Loading reports whether a Login call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) commit(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(st)
}

func (s *Store) commitLocked(st State) error {
	if err := s.persist.Save(st); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.state = cloneState(st)
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func cloneState(st State) State {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
