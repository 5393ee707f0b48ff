// ABOUTME: Coordinating loop: the only goroutine that touches the model and the screen
// ABOUTME: Dispatches box events, ordered key commands, and matches, then redraws when allowed

package finder

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/input"
	"github.com/mauromedda/sk-go/internal/keymap"
	"github.com/mauromedda/sk-go/internal/log"
	"github.com/mauromedda/sk-go/internal/model"
	"github.com/mauromedda/sk-go/internal/ranked"
	"github.com/mauromedda/sk-go/pkg/tui"
)

type loop struct {
	screen   *tui.Screen
	model    *model.Model
	ui       *eventbox.Box
	cmd      *eventbox.Box
	matches  <-chan ranked.Match
	commands <-chan input.Command
	limiter  *rate.Limiter

	dirty    bool
	lastSpin time.Time
}

// outcome tells the loop whether a command ended the run.
type outcome int

const (
	keepGoing outcome = iota
	accept
	abort
)

func (l *loop) run(ctx context.Context) (Result, error) {
	l.dirty = true
	for {
		batch := l.ui.WaitTimeout(tickInterval)
		if err := ctx.Err(); err != nil {
			if werr := workerFailure(batch); werr != nil {
				return Result{}, werr
			}
			return Result{}, err
		}

		for _, e := range batch {
			if err := l.handle(e); err != nil {
				return Result{}, err
			}
		}

		if res, done := l.drainCommands(); done {
			return res, nil
		}
		l.drainMatches()

		if l.model.Busy() && time.Since(l.lastSpin) >= spinnerInterval {
			l.lastSpin = time.Now()
			l.model.Tick()
			l.dirty = true
		}
		if l.dirty && l.limiter.Allow() {
			if err := l.draw(); err != nil {
				return Result{}, err
			}
		}
	}
}

// workerFailure returns the error carried by a shutdown request in batch.
func workerFailure(batch []event.Event) error {
	for _, e := range batch {
		if sd, ok := e.(event.ShutdownRequested); ok {
			return sd.Err
		}
	}
	return nil
}

func (l *loop) handle(e event.Event) error {
	l.dirty = true
	switch e := e.(type) {
	case event.NewItem:
		l.model.ItemsArrived(e.Total)
		l.cmd.Set(event.PoolGrew{})
	case event.Finished:
		l.model.ReaderFinished(e.Total, e.Err)
		l.cmd.Set(event.PoolGrew{})
	case event.QueryChanged:
		l.cmd.Set(event.ResetQuery{Gen: e.Gen, Query: e.Query})
	case event.PassStart:
		l.discardMatches()
		l.model.ClearItems(e.Gen)
		l.cmd.Set(event.PassStartAck{Gen: e.Gen})
	case event.Progress:
		l.model.UpdateProgress(e)
	case event.PassEnd:
		l.model.PassEnded(e.Gen)
	case event.KeysQueued:
		// Commands are drained after the batch.
	case event.InvalidInput:
		log.Debug("finder: ignored input %s", e.Raw)
	case event.Resized:
		l.model.Resize(e.Width, e.Height)
	case event.ShutdownRequested:
		return e.Err
	default:
		log.Warn("finder: unexpected event %v", e.Kind())
	}
	return nil
}

func (l *loop) drainCommands() (Result, bool) {
	for {
		select {
		case c := <-l.commands:
			l.dirty = true
			switch l.apply(c) {
			case accept:
				return Result{Accepted: true, Items: l.model.Accept()}, true
			case abort:
				return Result{}, true
			}
		default:
			return Result{}, false
		}
	}
}

// drainMatches moves every queued match into the model without blocking.
func (l *loop) drainMatches() {
	for {
		select {
		case m := <-l.matches:
			if l.model.PushItem(m) {
				l.dirty = true
			}
		default:
			return
		}
	}
}

// discardMatches drops queued matches; they all predate the pass being
// acknowledged.
func (l *loop) discardMatches() {
	for {
		select {
		case <-l.matches:
		default:
			return
		}
	}
}

func (l *loop) apply(c input.Command) outcome {
	m := l.model
	if c.IsText() {
		m.AddChar(c.Rune)
		return keepGoing
	}

	switch c.Action {
	case keymap.ActAbort:
		return abort
	case keymap.ActAccept:
		return accept
	case keymap.ActCancel:
		if m.QueryEmpty() {
			return abort
		}
		m.ClearQuery()
	case keymap.ActDeleteCharEOF:
		if m.QueryEmpty() {
			return abort
		}
		m.DeleteChar()
	case keymap.ActBackwardChar:
		m.BackwardChar()
	case keymap.ActBackwardDeleteChar:
		m.BackwardDeleteChar()
	case keymap.ActBackwardKillWord:
		m.BackwardKillWord()
	case keymap.ActBackwardWord:
		m.BackwardWord()
	case keymap.ActBeginningOfLine:
		m.BeginningOfLine()
	case keymap.ActClearScreen:
		l.screen.Invalidate()
	case keymap.ActDeleteChar:
		m.DeleteChar()
	case keymap.ActDeselectAll:
		m.DeselectAll()
	case keymap.ActDown:
		m.MoveLineCursor(1)
	case keymap.ActEndOfLine:
		m.EndOfLine()
	case keymap.ActForwardChar:
		m.ForwardChar()
	case keymap.ActForwardWord:
		m.ForwardWord()
	case keymap.ActKillLine:
		m.KillLine()
	case keymap.ActKillWord:
		m.KillWord()
	case keymap.ActPageDown:
		m.PageDown()
	case keymap.ActPageUp:
		m.PageUp()
	case keymap.ActSelectAll:
		m.SelectAll()
	case keymap.ActToggle:
		m.ToggleSelect()
	case keymap.ActToggleAll:
		m.ToggleAll()
	case keymap.ActToggleDown, keymap.ActToggleOut:
		m.ToggleSelect()
		m.MoveLineCursor(1)
	case keymap.ActToggleUp, keymap.ActToggleIn:
		m.ToggleSelect()
		m.MoveLineCursor(-1)
	case keymap.ActToggleSort:
		m.ToggleSort()
	case keymap.ActUnixLineDiscard:
		m.UnixLineDiscard()
	case keymap.ActUnixWordRubout:
		m.UnixWordRubout()
	case keymap.ActUp:
		m.MoveLineCursor(-1)
	case keymap.ActYank:
		m.Yank()
	case keymap.ActIgnore, keymap.ActNextHistory, keymap.ActPreviousHistory:
		// History is not kept across runs.
	}
	return keepGoing
}

func (l *loop) draw() error {
	l.dirty = false
	w, h := l.model.Size()
	return l.screen.Draw(l.model, w, h)
}
