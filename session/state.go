// Package session owns the authenticated session: the in-memory access token,
// the refresh exchange, the request pipeline that renews expired tokens, and the
// once-per-run bootstrap that restores a saved session.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rentdesk/cli/api"
	"golang.org/x/oauth2"
)

var (
	// ErrRefreshFailed is returned when the refresh credential could not be exchanged.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoRefreshCredential is wrapped by ErrRefreshFailed when nothing is stored.
	ErrNoRefreshCredential = errors.New("no refresh credential stored")
	// ErrSessionExpired is returned after a forced logout.
	ErrSessionExpired = errors.New("session expired, log in again")
	// ErrNotLoggedIn is returned by commands that need a session when none is held.
	ErrNotLoggedIn = errors.New("not logged in")
)

// CredentialStore persists the refresh credential and the persist preference.
type CredentialStore interface {
	Save(token string) error
	Read() (string, error)
	Clear() error
	Persist() (bool, error)
	SetPersist(persist bool) error
}

// Authenticator performs the auth endpoint calls.
type Authenticator interface {
	Login(ctx context.Context, p api.LoginParam) (api.TokenPayload, error)
	Refresh(ctx context.Context, credential string) (api.TokenPayload, error)
	Logout(ctx context.Context, credential string) error
}

// State holds the current access token. The zero value is an empty session.
type State struct {
	mu  sync.RWMutex
	tok oauth2.Token
}

// NewState returns an empty session.
func NewState() *State {
	return &State{}
}

// Get returns a copy of the current token.
func (s *State) Get() oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok
}

// Set replaces the current token.
func (s *State) Set(tok oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
}

// Reset empties the session.
func (s *State) Reset() {
	s.Set(oauth2.Token{})
}

// Authenticated reports whether an access token is held.
func (s *State) Authenticated() bool {
	return s.Get().AccessToken != ""
}

// Authorization returns the Authorization header value, or "" when empty.
func (s *State) Authorization() string {
	tok := s.Get()
	if tok.AccessToken == "" {
		return ""
	}
	return tok.Type() + " " + tok.AccessToken
}

// Token implements oauth2.TokenSource.
func (s *State) Token() (*oauth2.Token, error) {
	tok := s.Get()
	if tok.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return &tok, nil
}

func tokenFromPayload(p api.TokenPayload) oauth2.Token {
	return oauth2.Token{AccessToken: p.Token, TokenType: p.Type}
}
