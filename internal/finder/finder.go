// ABOUTME: Finder entry point: wires pool, boxes, and workers, then runs the coordinating loop
// ABOUTME: The terminal is restored on every exit path; a crashed worker ends the run with its error

package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/input"
	"github.com/mauromedda/sk-go/internal/item"
	"github.com/mauromedda/sk-go/internal/keymap"
	"github.com/mauromedda/sk-go/internal/log"
	"github.com/mauromedda/sk-go/internal/matcher"
	"github.com/mauromedda/sk-go/internal/model"
	"github.com/mauromedda/sk-go/internal/ranked"
	"github.com/mauromedda/sk-go/internal/reader"
	"github.com/mauromedda/sk-go/pkg/tui"
	"github.com/mauromedda/sk-go/pkg/tui/terminal"
	"github.com/mauromedda/sk-go/pkg/tui/theme"
)

const (
	// tickInterval bounds the loop's wait so the spinner keeps moving
	// without events.
	tickInterval    = 20 * time.Millisecond
	spinnerInterval = 100 * time.Millisecond
	frameInterval   = 10 * time.Millisecond
	matchQueue      = 4096
)

// Options configures a run.
type Options struct {
	Terminal terminal.Terminal
	Input    io.Reader // candidate source; nil runs Command
	Command  string
	Keymap   *keymap.Keymap
	Prompt   string
	Query    string
	Palette  theme.Palette
}

// Result is the outcome of a run.
type Result struct {
	Accepted bool
	Items    []item.Item // selected candidates in selection order
}

// Run shows the finder until the user accepts or aborts, or ctx ends. The
// terminal is in raw mode only for the duration of the call.
func Run(ctx context.Context, opts Options) (res Result, err error) {
	t := opts.Terminal
	if t == nil {
		return Result{}, errors.New("finder: no terminal")
	}
	km := opts.Keymap
	if km == nil {
		km = keymap.Defaults()
	}

	w, h, err := t.Size()
	if err != nil {
		return Result{}, err
	}
	if err := t.EnterRawMode(); err != nil {
		return Result{}, err
	}
	defer func() {
		if rerr := t.ExitRawMode(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	ui, cmd := eventbox.New(), eventbox.New()
	pool := item.NewPool()
	matches := make(chan ranked.Match, matchQueue)

	mdl := model.New(pool, ui, model.Options{
		Prompt:  opts.Prompt,
		Query:   opts.Query,
		Palette: opts.Palette,
	})
	mdl.Resize(w, h)
	resolver := input.NewResolver(t, km, ui)
	t.OnResize(func(w, h int) {
		ui.Set(event.Resized{Width: w, Height: h})
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(guard("reader", ui, func() error {
		return reader.New(pool, ui, reader.Options{Input: opts.Input, Command: opts.Command}).Run(gctx)
	}))
	g.Go(guard("matcher", ui, func() error {
		return matcher.New(pool, cmd, ui, matches).Run(gctx)
	}))
	g.Go(guard("input", ui, func() error {
		return resolver.Run(gctx)
	}))

	l := &loop{
		screen:   tui.NewScreen(t),
		model:    mdl,
		ui:       ui,
		cmd:      cmd,
		matches:  matches,
		commands: resolver.Commands(),
		limiter:  rate.NewLimiter(rate.Every(frameInterval), 1),
	}
	log.Info("finder: started (%dx%d)", w, h)
	mdl.Requery()
	res, err = l.run(gctx)

	cancel()
	// A worker failure cancels gctx, so the loop may report only the
	// cancellation; the worker's error is the real cause.
	if werr := g.Wait(); werr != nil && (err == nil || ctx.Err() == nil && errors.Is(err, context.Canceled)) {
		err = werr
	}
	log.Info("finder: done (accepted=%v, items=%d, err=%v)", res.Accepted, len(res.Items), err)
	return res, err
}

// guard runs a worker, turning a panic into an error. Any worker error asks
// the loop to shut down.
func guard(name string, ui *eventbox.Box, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s worker panicked: %v\n%s", name, r, debug.Stack())
			}
			if err != nil {
				log.Error("finder: %v", err)
				ui.Set(event.ShutdownRequested{Err: err})
			}
		}()
		return fn()
	}
}
