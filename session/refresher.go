package session

import (
	"context"
	"fmt"

	"github.com/rentdesk/cli/tui"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Refresher exchanges the stored refresh credential for a new access token.
// Concurrent callers share one in-flight exchange.
type Refresher struct {
	auth    Authenticator
	store   CredentialStore
	state   *State
	display tui.Displayer
	logger  zerolog.Logger

	group singleflight.Group
}

// NewRefresher creates a Refresher that updates state on success.
func NewRefresher(
	auth Authenticator,
	store CredentialStore,
	state *State,
	d tui.Displayer,
	logger zerolog.Logger,
) *Refresher {
	return &Refresher{auth: auth, store: store, state: state, display: d, logger: logger}
}

// Refresh performs the exchange and returns the new access token. Failures wrap
// ErrRefreshFailed. The caller decides whether to clear the session.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	return r.do(ctx, func() (string, bool) { return "", false })
}

// Renew replaces the rejected authorization stale. When the session already holds a
// different token, another request has renewed it and that token is returned
// without a new exchange.
func (r *Refresher) Renew(ctx context.Context, stale string) (string, error) {
	return r.do(ctx, func() (string, bool) {
		tok := r.state.Get()
		if tok.AccessToken != "" && tok.Type()+" "+tok.AccessToken != stale {
			return tok.AccessToken, true
		}
		return "", false
	})
}

// do runs the exchange under the shared key. current, evaluated by whichever caller
// starts the flight, may short-circuit it.
func (r *Refresher) do(ctx context.Context, current func() (string, bool)) (string, error) {
	ch := r.group.DoChan(refreshKey, func() (any, error) {
		if tok, ok := current(); ok {
			return tok, nil
		}
		// The flight outlives the cancellation of the caller that started it.
		return r.exchange(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, ctx.Err())
	}
}

func (r *Refresher) exchange(ctx context.Context) (string, error) {
	credential, err := r.store.Read()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if credential == "" {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, ErrNoRefreshCredential)
	}

	r.display.Refreshing()
	payload, err := r.auth.Refresh(ctx, credential)
	if err != nil {
		r.display.RefreshFailed(err)
		r.logger.Debug().Err(err).Msg("refresh exchange failed")
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	r.state.Set(tokenFromPayload(payload))

	// Keep the old credential unless the server rotated it.
	if payload.RefreshToken != "" && payload.RefreshToken != credential {
		if err := r.store.Save(payload.RefreshToken); err != nil {
			r.display.CredentialSaveFailed(err)
			r.logger.Warn().Err(err).Msg("failed to save rotated refresh credential")
		} else {
			r.display.CredentialSaved()
		}
	}

	r.display.RefreshOK()
	r.logger.Debug().Bool("rotated", payload.RefreshToken != "").Msg("access token refreshed")
	return payload.Token, nil
}
