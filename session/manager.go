package session

import (
	"context"
	"fmt"

	"github.com/rentdesk/cli/api"
	"github.com/rentdesk/cli/tui"
	"github.com/rentdesk/cli/validate"
	"github.com/rs/zerolog"
)

// Manager handles explicit login and logout.
type Manager struct {
	public  Authenticator
	private Authenticator
	store   CredentialStore
	state   *State
	display tui.Displayer
	logger  zerolog.Logger
}

// NewManager creates a Manager. public serves login and must not carry the
// pipeline; private serves the logout call and should.
func NewManager(
	public, private Authenticator,
	store CredentialStore,
	state *State,
	d tui.Displayer,
	logger zerolog.Logger,
) *Manager {
	return &Manager{
		public:  public,
		private: private,
		store:   store,
		state:   state,
		display: d,
		logger:  logger,
	}
}

// Login validates p, signs in and stores the refresh credential along with the
// persist preference.
func (m *Manager) Login(ctx context.Context, p api.LoginParam, persist bool) error {
	if err := validate.Login(p); err != nil {
		return err
	}

	m.display.LoggingIn(p.Email)
	payload, err := m.public.Login(ctx, p)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	tok := tokenFromPayload(payload)
	m.state.Set(tok)

	if payload.RefreshToken != "" {
		if err := m.store.Save(payload.RefreshToken); err != nil {
			m.display.CredentialSaveFailed(err)
			m.logger.Warn().Err(err).Msg("failed to save refresh credential")
		} else {
			m.display.CredentialSaved()
		}
	} else if err := m.store.Clear(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to clear previous refresh credential")
	}

	if err := m.store.SetPersist(persist); err != nil {
		m.logger.Warn().Err(err).Msg("failed to save persist preference")
	}

	m.display.LoggedIn(tok.Type())
	return nil
}

// Logout ends the session. The server call is best effort; the local session is
// always cleared. The persist preference is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if m.state.Authenticated() {
		credential, err := m.store.Read()
		if err != nil {
			m.logger.Warn().Err(err).Msg("failed to read refresh credential")
		}
		if err := m.private.Logout(ctx, credential); err != nil {
			m.logger.Warn().Err(err).Msg("server logout failed")
		}
	}

	err := m.store.Clear()
	m.state.Reset()
	if err != nil {
		return fmt.Errorf("failed to clear refresh credential: %w", err)
	}
	m.display.LoggedOut()
	return nil
}

// RequireAuth returns ErrNotLoggedIn when no access token is held.
func (m *Manager) RequireAuth() error {
	if !m.state.Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}
