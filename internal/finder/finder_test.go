// ABOUTME: Tests for the finder loop driven through a VirtualTerminal
// ABOUTME: Covers accept, abort, multi-select, source failure, cancellation, and the worker guard

package finder

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/item"
	"github.com/mauromedda/sk-go/pkg/tui/terminal"
)

type outcomeOrErr struct {
	res Result
	err error
}

func start(t *testing.T, ctx context.Context, vt *terminal.VirtualTerminal, opts Options) <-chan outcomeOrErr {
	t.Helper()
	opts.Terminal = vt
	done := make(chan outcomeOrErr, 1)
	go func() {
		res, err := Run(ctx, opts)
		done <- outcomeOrErr{res, err}
	}()
	return done
}

// waitOutput polls the terminal until its output contains want.
func waitOutput(t *testing.T, vt *terminal.VirtualTerminal, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(vt.Output(), want) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("output never contained %q; got %q", want, vt.Output())
}

func wait(t *testing.T, done <-chan outcomeOrErr) (Result, error) {
	t.Helper()
	select {
	case o := <-done:
		return o.res, o.err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return Result{}, nil
	}
}

func texts(items []item.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Raw)
	}
	return out
}

func TestRun_AcceptHighlighted(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(40, 10)
	t.Cleanup(func() { _ = vt.Close() })
	done := start(t, context.Background(), vt, Options{
		Input: strings.NewReader("apple\nbanana\napricot\n"),
		Query: "ap",
	})

	waitOutput(t, vt, "2/3")
	vt.Type("\r")

	res, err := wait(t, done)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Accepted {
		t.Fatal("want accepted")
	}
	if got := texts(res.Items); !slices.Equal(got, []string{"apple"}) {
		t.Errorf("items = %v, want [apple]", got)
	}
	if vt.IsRawMode() || vt.ExitCount() != 1 {
		t.Errorf("terminal not restored: raw=%v exits=%d", vt.IsRawMode(), vt.ExitCount())
	}
}

func TestRun_Abort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys string
	}{
		{"ctrl-c", "\x03"},
		{"ctrl-g", "\x07"},
		{"ctrl-d on empty query", "\x04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := terminal.NewVirtualTerminal(40, 10)
			t.Cleanup(func() { _ = vt.Close() })
			done := start(t, context.Background(), vt, Options{
				Input: strings.NewReader("one\ntwo\n"),
			})

			waitOutput(t, vt, "2/2")
			vt.Type(tt.keys)

			res, err := wait(t, done)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Accepted || len(res.Items) != 0 {
				t.Errorf("result = %+v, want aborted", res)
			}
			if vt.IsRawMode() {
				t.Error("terminal left in raw mode")
			}
		})
	}
}

func TestRun_MultiSelectKeepsOrder(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(40, 10)
	t.Cleanup(func() { _ = vt.Close() })
	done := start(t, context.Background(), vt, Options{
		Input: strings.NewReader("one\ntwo\nthree\n"),
	})

	waitOutput(t, vt, "3/3")
	vt.Type("\t\t\r")

	res, err := wait(t, done)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := texts(res.Items); !slices.Equal(got, []string{"one", "two"}) {
		t.Errorf("items = %v, want [one two]", got)
	}
}

func TestRun_TypedQueryNarrows(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(40, 10)
	t.Cleanup(func() { _ = vt.Close() })
	done := start(t, context.Background(), vt, Options{
		Input: strings.NewReader("alpha\nbeta\ngamma\n"),
	})

	waitOutput(t, vt, "3/3")
	vt.Type("bt")
	waitOutput(t, vt, "1/3")
	vt.Type("\r")

	res, err := wait(t, done)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := texts(res.Items); !slices.Equal(got, []string{"beta"}) {
		t.Errorf("items = %v, want [beta]", got)
	}
}

func TestRun_AcceptWithNoMatches(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(40, 10)
	t.Cleanup(func() { _ = vt.Close() })
	done := start(t, context.Background(), vt, Options{
		Input: strings.NewReader("one\n"),
		Query: "zzz",
	})

	waitOutput(t, vt, "0/1")
	vt.Type("\r")

	res, err := wait(t, done)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Accepted || len(res.Items) != 0 {
		t.Errorf("result = %+v, want accepted with no items", res)
	}
}

func TestRun_SourceFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(60, 10)
	t.Cleanup(func() { _ = vt.Close() })
	done := start(t, context.Background(), vt, Options{
		Command: "echo ok; echo broken >&2; exit 4",
	})

	waitOutput(t, vt, "broken")
	vt.Type("\r")

	res, err := wait(t, done)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := texts(res.Items); !slices.Equal(got, []string{"ok"}) {
		t.Errorf("items = %v, want [ok]", got)
	}
}

func TestRun_ContextCancelRestoresTerminal(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(40, 10)
	t.Cleanup(func() { _ = vt.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	done := start(t, ctx, vt, Options{
		Input: strings.NewReader("one\n"),
	})

	waitOutput(t, vt, "1/1")
	cancel()

	_, err := wait(t, done)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if vt.IsRawMode() || vt.EnterCount() != 1 || vt.ExitCount() != 1 {
		t.Errorf("raw=%v enters=%d exits=%d", vt.IsRawMode(), vt.EnterCount(), vt.ExitCount())
	}
}

func TestRun_ResizeRedraws(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtualTerminal(40, 10)
	t.Cleanup(func() { _ = vt.Close() })
	done := start(t, context.Background(), vt, Options{
		Input: strings.NewReader("one\n"),
	})

	waitOutput(t, vt, "1/1")
	vt.Reset()
	vt.SetSize(30, 6)
	waitOutput(t, vt, "\x1b[2J")
	vt.Type("\x03")

	if _, err := wait(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_NoTerminal(t *testing.T) {
	t.Parallel()

	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatal("want error without a terminal")
	}
}

func TestGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fn       func() error
		wantErr  string
		shutdown bool
	}{
		{"clean exit", func() error { return nil }, "", false},
		{"error", func() error { return errors.New("disk gone") }, "disk gone", true},
		{"panic", func() error { panic("oops") }, "matcher worker panicked: oops", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			box := eventbox.New()
			err := guard("matcher", box, tt.fn)()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("err = %v, want nil", err)
				}
			} else if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}

			e, ok := box.Peek(event.Shutdown)
			if ok != tt.shutdown {
				t.Fatalf("shutdown queued = %v, want %v", ok, tt.shutdown)
			}
			if ok && e.(event.ShutdownRequested).Err != err {
				t.Errorf("shutdown carries %v, want %v", e.(event.ShutdownRequested).Err, err)
			}
		})
	}
}
