// ABOUTME: Matcher worker: scans the candidate pool against the current query in batches
// ABOUTME: Restarts on query change behind a start-of-pass handshake so stale matches never reach the UI

package matcher

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/item"
	"github.com/mauromedda/sk-go/internal/log"
	"github.com/mauromedda/sk-go/internal/ranked"
)

// BatchSize is the number of candidates scored between two checks of the
// command box.
const BatchSize = 1024

// State is the matcher's scheduling state.
type State int

const (
	Idle       State = iota // caught up with the pool; blocks on the command box
	Scanning                // scoring candidates past the cursor
	Cancelling              // waiting for the UI to acknowledge a new pass
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Cancelling:
		return "cancelling"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Matcher owns one matching pass at a time. Commands arrive on cmd
// (ResetQuery, PoolGrew, PassStartAck); status goes to ui (PassStart,
// Progress, PassEnd); matches go to out tagged with their generation.
type Matcher struct {
	pool *item.Pool
	cmd  *eventbox.Box
	ui   *eventbox.Box
	out  chan<- ranked.Match

	state         State
	gen           uint64
	pattern       []rune
	caseSensitive bool
	cursor        int
	matched       int
	buf           []item.Item
}

// New creates a matcher over pool. It starts Idle with an empty query and
// scans nothing until the first ResetQuery.
func New(pool *item.Pool, cmd, ui *eventbox.Box, out chan<- ranked.Match) *Matcher {
	return &Matcher{
		pool: pool,
		cmd:  cmd,
		ui:   ui,
		out:  out,
		buf:  make([]item.Item, 0, BatchSize),
	}
}

// Run processes commands until ctx ends. Cancellation is the only way out
// and is not an error.
func (m *Matcher) Run(ctx context.Context) error {
	for {
		var batch []event.Event
		if m.state == Scanning {
			if err := m.scanBatch(ctx); err != nil {
				return nil
			}
			batch = m.cmd.TryTake()
		} else {
			var err error
			if batch, err = m.cmd.Wait(ctx); err != nil {
				return nil
			}
		}
		if err := m.handle(ctx, batch); err != nil {
			return nil
		}
	}
}

// handle applies a batch of commands. Batches are ordered by kind, so a
// ResetQuery is seen before any PassStartAck in the same batch.
func (m *Matcher) handle(ctx context.Context, batch []event.Event) error {
	for _, e := range batch {
		switch e := e.(type) {
		case event.ResetQuery:
			if err := m.restart(ctx, e); err != nil {
				return err
			}
		case event.PoolGrew:
			if m.state == Idle && m.cursor < m.pool.Len() {
				m.setState(Scanning)
			}
		case event.PassStartAck:
			// Stale: the handshake for this generation already completed.
		}
	}
	return nil
}

// restart begins the pass for rq and blocks until the UI acknowledges it.
// A newer ResetQuery during the wait supersedes rq and restarts the
// handshake; PoolGrew needs no handling since the new pass scans to the end.
func (m *Matcher) restart(ctx context.Context, rq event.ResetQuery) error {
	m.reset(rq)
	for {
		batch, err := m.cmd.Wait(ctx)
		if err != nil {
			return err
		}
		acked := false
		for _, e := range batch {
			switch e := e.(type) {
			case event.ResetQuery:
				m.reset(e)
				acked = false
			case event.PassStartAck:
				if e.Gen == m.gen {
					acked = true
				}
			}
		}
		if acked {
			log.Debug("matcher: pass %d acknowledged, query %q", m.gen, string(m.pattern))
			m.setState(Scanning)
			return nil
		}
	}
}

// reset discards the current pass and announces the one for rq.
func (m *Matcher) reset(rq event.ResetQuery) {
	m.setState(Cancelling)
	query := norm.NFC.String(rq.Query)
	m.gen = rq.Gen
	m.pattern = []rune(query)
	m.caseSensitive = CaseSensitive(query)
	m.cursor = 0
	m.matched = 0
	m.ui.Set(event.PassStart{Gen: m.gen})
}

// scanBatch scores up to BatchSize candidates past the cursor and reports
// progress. It returns ctx.Err() if ctx ends while a match is undelivered.
func (m *Matcher) scanBatch(ctx context.Context) error {
	end := m.cursor + BatchSize
	m.buf = m.pool.Snapshot(m.buf, m.cursor, end)
	for _, it := range m.buf {
		res, ok := Score(m.pattern, it.Text(), m.caseSensitive)
		if !ok {
			continue
		}
		m.matched++
		select {
		case m.out <- ranked.Match{
			Index:     it.Index,
			Score:     res.Score,
			Positions: res.Positions,
			Text:      it.Text(),
			Gen:       m.gen,
		}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.cursor += len(m.buf)

	total := m.pool.Len()
	m.ui.Set(event.Progress{Gen: m.gen, Matched: m.matched, Total: total, Processed: m.cursor})
	if m.cursor >= total {
		m.setState(Idle)
		m.ui.Set(event.PassEnd{Gen: m.gen})
	}
	return nil
}

func (m *Matcher) setState(s State) {
	if m.state != s {
		log.Debug("matcher: %s -> %s (gen %d)", m.state, s, m.gen)
		m.state = s
	}
}
