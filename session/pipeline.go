package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rentdesk/cli/api"
	"github.com/rentdesk/cli/tui"
	"github.com/rs/zerolog"
)

// Pipeline authorizes requests from the session and renews the access token once
// when the API rejects it.
type Pipeline struct {
	state     *State
	refresher *Refresher
	store     CredentialStore
	display   tui.Displayer
	logger    zerolog.Logger
}

// NewPipeline creates a Pipeline. store is cleared when renewal fails.
func NewPipeline(
	state *State,
	refresher *Refresher,
	store CredentialStore,
	d tui.Displayer,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{state: state, refresher: refresher, store: store, display: d, logger: logger}
}

// Attach registers the pipeline on c. Calling detach unregisters it.
func (p *Pipeline) Attach(c *api.Client) (detach func()) {
	return c.Use(p.intercept)
}

func (p *Pipeline) intercept(next api.Handler) api.Handler {
	return func(ctx context.Context, req *api.Request) (*api.Response, error) {
		sent := req
		if req.Header.Get("Authorization") == "" {
			if auth := p.state.Authorization(); auth != "" {
				sent = req.Clone()
				sent.Header.Set("Authorization", auth)
			}
		}

		resp, err := next(ctx, sent)
		if err != nil || resp.StatusCode != http.StatusUnauthorized || req.Retried {
			return resp, err
		}

		p.display.AccessTokenRejected()
		var token string
		if sent != req {
			token, err = p.refresher.Renew(ctx, sent.Header.Get("Authorization"))
		} else {
			// The caller's own header says nothing about the session token.
			token, err = p.refresher.Refresh(ctx)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			p.expire()
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		auth := p.state.Authorization()
		if auth == "" {
			auth = "Bearer " + token
		}

		retry := req.Clone()
		retry.Retried = true
		retry.Header.Set("Authorization", auth)

		p.display.TokenRefreshedRetrying()
		p.logger.Debug().Str("method", req.Method).Str("path", req.Path).Msg("retrying with renewed token")
		return next(ctx, retry)
	}
}

// expire performs the forced logout after a failed renewal.
func (p *Pipeline) expire() {
	if err := p.store.Clear(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to clear refresh credential")
	}
	p.state.Reset()
	p.display.SessionExpired()
}
