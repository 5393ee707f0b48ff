// ABOUTME: CLI entry point for sk-go with terminal crash recovery
// ABOUTME: Parses flags, loads config, picks the candidate source, runs the finder, prints the selection

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/mauromedda/sk-go/internal/config"
	"github.com/mauromedda/sk-go/internal/finder"
	"github.com/mauromedda/sk-go/internal/keymap"
	sklog "github.com/mauromedda/sk-go/internal/log"
	"github.com/mauromedda/sk-go/pkg/tui/terminal"
	"github.com/mauromedda/sk-go/pkg/tui/theme"
)

const programName = "sk-go"

// Exit statuses.
const (
	exitOK      = 0
	exitNoMatch = 1
	exitError   = 1
	exitUsage   = 2
	exitAborted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run performs startup, runs the finder, and returns the exit status.
func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", programName)
		return exitUsage
	}

	if cli.help {
		if err := writeUsage(stdout, helpKeymap(cli.binds)); err != nil {
			return exitError
		}
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}

	km, err := buildKeymap(cfg.Bind, cli.binds)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitError
	}

	palette, err := resolvePalette(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}
	defer closeLog()

	opts := finder.Options{
		Keymap:  km,
		Prompt:  cfg.Prompt,
		Palette: palette,
	}
	if term.IsTerminal(int(stdin.Fd())) {
		opts.Command = cfg.DefaultCommand
	} else {
		opts.Input = stdin
	}

	t, err := terminal.Open()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}
	defer t.Close()
	defer terminal.RestoreOnPanic(t)
	opts.Terminal = t

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	res, err := finder.Run(ctx, opts)
	// Results go out only once the tty is back in its original mode.
	if cerr := t.Close(); cerr != nil {
		sklog.Warn("closing terminal: %v", cerr)
	}
	switch {
	case err != nil && ctx.Err() != nil:
		return exitAborted
	case err != nil:
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	case !res.Accepted:
		return exitAborted
	case len(res.Items) == 0:
		return exitNoMatch
	}

	w := bufio.NewWriter(stdout)
	for _, it := range res.Items {
		fmt.Fprintln(w, it.Raw)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(stderr, "%s: writing results: %v\n", programName, err)
		return exitError
	}
	return exitOK
}

// buildKeymap layers the config bindings and then each -b value over the
// defaults.
func buildKeymap(configBind string, flagBinds []string) (*keymap.Keymap, error) {
	km := keymap.Defaults()
	specs := append([]string{configBind}, flagBinds...)
	for i, spec := range specs {
		if spec == "" {
			continue
		}
		bindings, err := keymap.ParseBindings(spec)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("config bind: %w", err)
			}
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		km.Bind(bindings)
	}
	return km, nil
}

// helpKeymap returns the effective bindings for the help screen, or the
// defaults when the config or the -b values do not load.
func helpKeymap(flagBinds []string) *keymap.Keymap {
	cfg, err := config.Load()
	if err != nil {
		return keymap.Defaults()
	}
	km, err := buildKeymap(cfg.Bind, flagBinds)
	if err != nil {
		return keymap.Defaults()
	}
	return km
}

// resolvePalette returns the configured theme's palette with color overrides.
func resolvePalette(cfg *config.Config) (theme.Palette, error) {
	th, ok := theme.Builtin(cfg.Theme)
	if !ok {
		return theme.Palette{}, fmt.Errorf("unknown theme %q (available: %v)", cfg.Theme, theme.BuiltinNames())
	}
	if len(cfg.Colors) == 0 {
		return th.Palette, nil
	}
	p, err := theme.Override(th.Palette, cfg.Colors)
	if err != nil {
		return theme.Palette{}, fmt.Errorf("config colors: %w", err)
	}
	return p, nil
}

// setupLogging points the logger at the configured file. Without one, log
// output stays discarded.
func setupLogging(cfg *config.Config) (func(), error) {
	if cfg.LogLevel != "" {
		lvl, err := sklog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		sklog.SetLevel(lvl)
	}
	if cfg.LogFile == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	sklog.SetOutput(f)
	return func() {
		sklog.SetOutput(nil)
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(os.Stderr, "%s: closing log: %v\n", programName, err)
		}
	}, nil
}
