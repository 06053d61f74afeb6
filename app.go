package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/rentdesk/cli/api"
	"github.com/rentdesk/cli/config"
	"github.com/rentdesk/cli/session"
	"github.com/rentdesk/cli/store"
	"github.com/rentdesk/cli/tui"
	"github.com/rs/zerolog"
)

// app holds the wiring shared by every command of one invocation.
type app struct {
	cfg     *config.Config
	display tui.Displayer
	out     io.Writer
	logger  zerolog.Logger

	store     *store.FileStore
	state     *session.State
	client    *api.Client // carries the session pipeline
	bootstrap *session.Bootstrap
	manager   *session.Manager
	detach    func()
}

func newApp(cfg *config.Config, d tui.Displayer, out io.Writer, logger zerolog.Logger) (*app, error) {
	opts := []api.Option{api.WithTimeout(cfg.RequestTimeout), api.WithLogger(logger)}

	// public carries no pipeline: login and refresh must never trigger a refresh.
	public, err := api.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		return nil, err
	}
	private, err := api.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		return nil, err
	}

	st := store.NewFileStore(cfg.CredentialFile, cfg.BaseURL)
	state := session.NewState()

	refresher := session.NewRefresher(public.Auth(cfg.RefreshCookie), st, state, d, logger)
	pipeline := session.NewPipeline(state, refresher, st, d, logger)
	bootstrap := session.NewBootstrap(state, st, refresher, d, logger)
	bootstrap.OnPhase = func(p session.Phase) {
		logger.Debug().Stringer("phase", p).Msg("session bootstrap")
	}
	manager := session.NewManager(
		public.Auth(cfg.RefreshCookie),
		private.Auth(cfg.RefreshCookie),
		st, state, d, logger,
	)

	return &app{
		cfg:       cfg,
		display:   d,
		out:       out,
		logger:    logger,
		store:     st,
		state:     state,
		client:    private,
		bootstrap: bootstrap,
		manager:   manager,
		detach:    pipeline.Attach(private),
	}, nil
}

func (a *app) close() {
	a.detach()
}

// command is one runnable subcommand.
type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"login":     cmdLogin,
	"logout":    cmdLogout,
	"status":    cmdStatus,
	"stats":     cmdStats,
	"landlords": group("landlords", landlordCommands),
	"tenants":   group("tenants", tenantCommands),
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd(ctx, a, args[1:])
}

// group dispatches to the named subcommands of a resource.
func group(name string, subs map[string]command) command {
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: rentdesk %s <%s>", name, strings.Join(slices.Sorted(maps.Keys(subs)), "|"))
		}
		sub, ok := subs[args[0]]
		if !ok {
			return fmt.Errorf("unknown %s command %q", name, args[0])
		}
		return sub(ctx, a, args[1:])
	}
}

// ensureSession runs the bootstrap and fails when no session results.
func (a *app) ensureSession(ctx context.Context) error {
	out := a.bootstrap.Run(ctx)
	if out.Err != nil {
		a.logger.Debug().Err(out.Err).Msg("session not restored")
	}
	return a.manager.RequireAuth()
}

// newFlagSet returns a flag set for a subcommand. Errors are returned, not fatal.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("rentdesk "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parseWithID parses args that start with, or end with, a record ID.
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return "", errors.New("missing record ID")
	}
	return id, nil
}

// explain adds the next step to session errors.
func explain(err error) error {
	if errors.Is(err, session.ErrNotLoggedIn) || errors.Is(err, session.ErrSessionExpired) {
		return fmt.Errorf("%w (run: rentdesk login)", err)
	}
	return err
}
