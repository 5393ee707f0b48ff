// ABOUTME: Tests for the matcher worker driven by a stand-in UI loop over real boxes
// ABOUTME: Covers ranking end to end, the pass handshake, pool growth, progress, and generation isolation

package matcher

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/item"
	"github.com/mauromedda/sk-go/internal/ranked"
)

// harness plays the UI side of the matcher protocol.
type harness struct {
	pool  *item.Pool
	cmd   *eventbox.Box
	ui    *eventbox.Box
	out   chan ranked.Match
	set   *ranked.Set
	acked uint64

	progress event.Progress
	stale    int // matches dropped for a generation other than acked
}

func newHarness(t *testing.T, lines []string, outBuf int) *harness {
	t.Helper()

	h := &harness{
		pool: item.NewPool(),
		cmd:  eventbox.New(),
		ui:   eventbox.New(),
		out:  make(chan ranked.Match, outBuf),
		set:  ranked.NewSet(ranked.ByRank),
	}
	for _, l := range lines {
		h.pool.Append(l)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	m := New(h.pool, h.cmd, h.ui, h.out)
	go func() { done <- m.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
	return h
}

func (h *harness) drain() {
	for {
		select {
		case m := <-h.out:
			if m.Gen != h.acked {
				h.stale++
				continue
			}
			h.set.Insert(m)
		default:
			return
		}
	}
}

// pump runs the UI side until stop returns true for a received event.
func (h *harness) pump(t *testing.T, stop func(event.Event) bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		h.drain()
		for _, e := range h.ui.WaitTimeout(time.Millisecond) {
			switch e := e.(type) {
			case event.PassStart:
				for len(h.out) > 0 {
					<-h.out
				}
				h.set.Clear()
				h.acked = e.Gen
				h.cmd.Set(event.PassStartAck{Gen: e.Gen})
			case event.Progress:
				if e.Gen == h.acked {
					h.progress = e
				}
			}
			if stop(e) {
				h.drain()
				return
			}
		}
	}
	t.Fatal("timed out waiting for the matcher")
}

func passEnd(gen uint64) func(event.Event) bool {
	return func(e event.Event) bool {
		end, ok := e.(event.PassEnd)
		return ok && end.Gen == gen
	}
}

func (h *harness) query(t *testing.T, gen uint64, q string) []string {
	t.Helper()
	h.cmd.Set(event.ResetQuery{Gen: gen, Query: q})
	h.pump(t, passEnd(gen))
	return h.texts()
}

func (h *harness) texts() []string {
	var out []string
	for _, m := range h.set.Top(0, h.set.Len()) {
		out = append(out, m.Text)
	}
	return out
}

func TestMatcher_RanksWithTieBreak(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{"apple", "application", "banana"}, 64)
	got := h.query(t, 1, "ap")
	want := []string{"apple", "application"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("results = %v, want %v", got, want)
	}
}

func TestMatcher_SmartCaseQuery(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{"apple", "Application"}, 64)
	got := h.query(t, 1, "App")
	if strings.Join(got, ",") != "Application" {
		t.Errorf("results = %v, want [Application]", got)
	}
}

func TestMatcher_RequeryReplacesResults(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{"alpha", "beta", "gamma"}, 64)
	if got := h.query(t, 1, "a"); len(got) != 3 {
		t.Fatalf("results for a = %v", got)
	}
	got := h.query(t, 2, "bt")
	if strings.Join(got, ",") != "beta" {
		t.Errorf("results for bt = %v, want [beta]", got)
	}
}

func TestMatcher_WaitsForAck(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{"one", "two"}, 64)
	h.cmd.Set(event.ResetQuery{Gen: 1, Query: "o"})

	var start []event.Event
	deadline := time.Now().Add(5 * time.Second)
	for start == nil && time.Now().Before(deadline) {
		start = h.ui.WaitTimeout(10 * time.Millisecond)
	}
	if len(start) != 1 || start[0] != (event.PassStart{Gen: 1}) {
		t.Fatalf("first ui batch = %v, want PassStart{1}", start)
	}

	// Nothing may be emitted before the acknowledgment.
	time.Sleep(30 * time.Millisecond)
	if len(h.out) != 0 || h.ui.Pending() != 0 {
		t.Fatalf("matcher emitted %d matches, %d events before ack", len(h.out), h.ui.Pending())
	}

	h.acked = 1
	h.cmd.Set(event.PassStartAck{Gen: 1})
	h.pump(t, passEnd(1))
	if got := h.texts(); len(got) != 2 {
		t.Errorf("results = %v, want both candidates", got)
	}
}

func TestMatcher_StaleAckIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{"one"}, 64)
	h.cmd.Set(event.ResetQuery{Gen: 2, Query: ""})
	h.cmd.Set(event.PassStartAck{Gen: 1})

	time.Sleep(30 * time.Millisecond)
	if len(h.out) != 0 {
		t.Fatal("matcher scanned on an acknowledgment for another generation")
	}
	h.pump(t, passEnd(2))
	if got := h.texts(); len(got) != 1 {
		t.Errorf("results = %v", got)
	}
}

func TestMatcher_PoolGrowth(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, 64)
	if got := h.query(t, 1, "log"); len(got) != 0 {
		t.Fatalf("results on empty pool = %v", got)
	}

	h.pool.Append("main.go")
	h.pool.Append("server.log")
	h.pool.Append("logger.go")
	h.cmd.Set(event.PoolGrew{})
	h.pump(t, passEnd(1))

	got := h.texts()
	if strings.Join(got, ",") != "logger.go,server.log" {
		t.Errorf("results = %v, want [logger.go server.log]", got)
	}
}

func TestMatcher_Progress(t *testing.T) {
	t.Parallel()

	lines := make([]string, 3*BatchSize+7)
	for i := range lines {
		lines[i] = fmt.Sprintf("file-%05d.txt", i)
	}
	h := newHarness(t, lines, 256)
	h.query(t, 1, "7.t")

	p := h.progress
	if p.Total != len(lines) || p.Processed != len(lines) {
		t.Errorf("progress = %+v, want all %d processed", p, len(lines))
	}
	if p.Matched != h.set.Len() {
		t.Errorf("progress matched = %d, result set holds %d", p.Matched, h.set.Len())
	}
}

func TestMatcher_GenerationIsolation(t *testing.T) {
	t.Parallel()

	lines := make([]string, 20*BatchSize)
	for i := range lines {
		lines[i] = fmt.Sprintf("entry-%d", i)
	}
	// A small output buffer keeps generation 1 blocked mid-pass with
	// undelivered matches when generation 2 arrives.
	h := newHarness(t, lines, 64)

	h.cmd.Set(event.ResetQuery{Gen: 1, Query: "e"})
	h.pump(t, func(e event.Event) bool {
		_, ok := e.(event.PassStart)
		return ok
	})
	select {
	case m := <-h.out:
		if m.Gen != 1 {
			t.Fatalf("first match has generation %d", m.Gen)
		}
		h.set.Insert(m)
	case <-time.After(5 * time.Second):
		t.Fatal("no match for generation 1")
	}

	h.cmd.Set(event.ResetQuery{Gen: 2, Query: "-20479"})
	h.pump(t, passEnd(2))

	got := h.set.Top(0, h.set.Len())
	if len(got) != 1 || got[0].Text != "entry-20479" || got[0].Gen != 2 {
		t.Fatalf("results after requery = %+v, want only entry-20479 from generation 2", got)
	}
}
