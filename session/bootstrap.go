package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rentdesk/cli/tui"
	"github.com/rs/zerolog"
)

// Phase is the bootstrap progress.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseChecking
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseChecking:
		return "CHECKING"
	case PhaseReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of a bootstrap. Err is the refresh failure, if any; it is
// informational and never prevents reaching PhaseReady.
type Outcome struct {
	Authenticated bool
	Refreshed     bool
	Err           error
}

// Bootstrap decides once whether a saved session can be restored.
type Bootstrap struct {
	state     *State
	store     CredentialStore
	refresher *Refresher
	display   tui.Displayer
	logger    zerolog.Logger

	// OnPhase, when set before Run, observes every phase change.
	OnPhase func(Phase)

	once    sync.Once
	mu      sync.Mutex
	phase   Phase
	outcome Outcome
}

// NewBootstrap creates a Bootstrap in PhaseInit.
func NewBootstrap(
	state *State,
	store CredentialStore,
	refresher *Refresher,
	d tui.Displayer,
	logger zerolog.Logger,
) *Bootstrap {
	return &Bootstrap{state: state, store: store, refresher: refresher, display: d, logger: logger}
}

// Phase returns the current phase.
func (b *Bootstrap) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

// Run restores the session at most once. Later calls return the first outcome.
func (b *Bootstrap) Run(ctx context.Context) Outcome {
	b.once.Do(func() {
		b.outcome = b.run(ctx)
		b.display.Ready(b.outcome.Authenticated)
	})
	return b.outcome
}

func (b *Bootstrap) run(ctx context.Context) Outcome {
	if b.state.Authenticated() {
		b.display.SessionActive()
		b.setPhase(PhaseReady)
		return Outcome{Authenticated: true}
	}

	b.setPhase(PhaseChecking)
	b.display.Checking()

	persist, err := b.store.Persist()
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to read persist preference")
	}
	if !persist {
		b.display.PersistDisabled()
		b.setPhase(PhaseReady)
		return Outcome{Err: err}
	}

	if _, err := b.refresher.Refresh(ctx); err != nil {
		switch {
		case errors.Is(err, ErrNoRefreshCredential):
			b.display.NoSavedSession()
		case ctx.Err() != nil:
			// Interrupted; the credential was not rejected.
		default:
			if clearErr := b.store.Clear(); clearErr != nil {
				b.logger.Warn().Err(clearErr).Msg("failed to clear rejected refresh credential")
			}
		}
		b.state.Reset()
		b.setPhase(PhaseReady)
		return Outcome{Err: err}
	}

	b.setPhase(PhaseReady)
	return Outcome{Authenticated: true, Refreshed: true}
}

func (b *Bootstrap) setPhase(p Phase) {
	b.mu.Lock()
	b.phase = p
	b.mu.Unlock()
	if b.OnPhase != nil {
		b.OnPhase(p)
	}
}
