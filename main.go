package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/rentdesk/cli/config"
	"github.com/rentdesk/cli/tui"
	"github.com/rs/zerolog"
)

const usageText = `Usage: rentdesk [global flags] <command> [flags]

Commands:
  login    -email E -password P [-persist=false]
  logout
  status
  stats
  landlords list|get|create|add-property|delete|count|export
  tenants   list|get|create|add-rent|delete|count|export

Run "rentdesk <command> -h" for command flags.

Global flags:
`

// invocation is the parsed command line.
type invocation struct {
	flags config.Flags
	args  []string
}

// parseArgs parses the global flags and returns the command and its arguments.
func parseArgs(args []string, stderr io.Writer) (invocation, error) {
	fs := flag.NewFlagSet("rentdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return invocation{}, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return invocation{}, errors.New("no command given")
	}
	return invocation{flags: flags, args: fs.Args()}, nil
}

// newLogger returns a console logger on w at the named level.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// isTTY reports whether stderr is a character device (interactive terminal).
// We check stderr because the TUI renders to stderr, allowing stdout to be piped.
func isTTY() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func main() {
	inv, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load(inv.flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Insecure() {
		fmt.Fprintln(
			os.Stderr,
			"⚠️  WARNING: Using HTTP instead of HTTPS. Credentials will be transmitted in plaintext!",
		)
		fmt.Fprintln(os.Stderr)
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if isTTY() {
		// Run TUI program on stderr; command output is held until it exits.
		m := tui.NewModel()
		// WithInput(nil): disable stdin/keyboard input so BubbleTea skips terminal
		// capability queries (?2026/?2027). Ctrl+C is handled by signal.NotifyContext.
		p := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithInput(nil))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			}
		}()

		var out bytes.Buffer
		runErr := run(ctx, cfg, inv.args, tui.NewProgramDisplayer(p), &out, logger)
		p.Quit() // let BubbleTea drain terminal query responses before exiting
		wg.Wait()
		os.Stdout.Write(out.Bytes())
		if runErr != nil {
			stop()
			os.Exit(1)
		}
	} else {
		if err := run(ctx, cfg, inv.args, tui.NewPlainDisplayer(os.Stderr), os.Stdout, logger); err != nil {
			stop()
			os.Exit(1)
		}
	}
}

// run executes one command. Progress goes to d and results to out.
func run(
	ctx context.Context,
	cfg *config.Config,
	args []string,
	d tui.Displayer,
	out io.Writer,
	logger zerolog.Logger,
) error {
	d.Banner(cfg.BaseURL)

	a, err := newApp(cfg, d, out, logger)
	if err != nil {
		d.Fatal(err)
		return err
	}
	defer a.close()

	if err := a.dispatch(ctx, args); err != nil {
		d.Fatal(explain(err))
		return err
	}
	return nil
}
