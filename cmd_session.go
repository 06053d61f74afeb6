package main

import (
	"context"
	"fmt"

	"github.com/rentdesk/cli/api"
	"golang.org/x/sync/errgroup"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	persist := fs.Bool("persist", true, "restore the session on later runs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := api.LoginParam{Email: *email, Password: *password}
	if err := a.manager.Login(ctx, p, *persist); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", p.Email)
	a.display.Done("Logged in")
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("logout").Parse(args); err != nil {
		return err
	}
	// Restore first so the server is told about the session being ended.
	a.bootstrap.Run(ctx)
	if err := a.manager.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	a.display.Done("Logged out")
	return nil
}

func cmdStatus(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("status").Parse(args); err != nil {
		return err
	}
	outcome := a.bootstrap.Run(ctx)

	persist, err := a.store.Persist()
	if err != nil {
		return err
	}
	credential, err := a.store.Read()
	if err != nil {
		return err
	}

	session := "not logged in"
	if outcome.Authenticated {
		session = "active"
		if outcome.Refreshed {
			session = "restored"
		}
	}
	var lastErr string
	if outcome.Err != nil {
		lastErr = outcome.Err.Error()
	}
	var tokenType string
	if outcome.Authenticated {
		tok := a.state.Get()
		tokenType = tok.Type()
	}

	renderFields(a.out,
		[2]string{"Server", a.cfg.BaseURL},
		[2]string{"Session", session},
		[2]string{"Token type", tokenType},
		[2]string{"Persist", yesNo(persist)},
		[2]string{"Saved credential", yesNo(credential != "")},
		[2]string{"Credential file", a.store.Path()},
		[2]string{"Restore error", lastErr},
	)
	a.display.Done("")
	return nil
}

func cmdStats(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("stats").Parse(args); err != nil {
		return err
	}
	if err := a.ensureSession(ctx); err != nil {
		return err
	}
	a.display.Working("Counting records")

	var landlords, tenants int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := a.client.Landlords().Count(gctx)
		landlords = n
		return err
	})
	g.Go(func() error {
		n, err := a.client.Tenants().Count(gctx)
		tenants = n
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	renderTable(a.out, []string{"Records", "Total"}, [][]string{
		{"Landlords", formatCount(landlords)},
		{"Tenants", formatCount(tenants)},
	})
	a.display.Done(fmt.Sprintf("%d landlords, %d tenants", landlords, tenants))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
