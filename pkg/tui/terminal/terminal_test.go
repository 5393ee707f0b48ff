// ABOUTME: Tests for VirtualTerminal: idempotent raw mode, output capture, typed input, and resize.
// ABOUTME: ProcessTerminal needs a real tty and is exercised by the e2e suite instead.

package terminal

import (
	"io"
	"testing"
)

var (
	_ Terminal = (*VirtualTerminal)(nil)
	_ Terminal = (*ProcessTerminal)(nil)
)

func TestVirtualTerminal_RawModeIdempotent(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	for range 2 {
		if err := vt.EnterRawMode(); err != nil {
			t.Fatalf("EnterRawMode() error: %v", err)
		}
	}
	if !vt.IsRawMode() || vt.EnterCount() != 1 {
		t.Errorf("after two enters: raw=%v count=%d, want true/1", vt.IsRawMode(), vt.EnterCount())
	}

	for range 2 {
		if err := vt.ExitRawMode(); err != nil {
			t.Fatalf("ExitRawMode() error: %v", err)
		}
	}
	if vt.IsRawMode() || vt.ExitCount() != 1 {
		t.Errorf("after two exits: raw=%v count=%d, want false/1", vt.IsRawMode(), vt.ExitCount())
	}
}

func TestVirtualTerminal_Output(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	_, _ = vt.Write([]byte("one"))
	_, _ = vt.Write([]byte("two"))
	if got := vt.Output(); got != "onetwo" {
		t.Errorf("Output() = %q, want %q", got, "onetwo")
	}
	vt.Reset()
	if got := vt.Output(); got != "" {
		t.Errorf("Output() after Reset = %q", got)
	}
}

func TestVirtualTerminal_TypeAndClose(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	go func() {
		vt.Type("ab")
		_ = vt.Close()
	}()

	got, err := io.ReadAll(vt)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if string(got) != "ab" {
		t.Errorf("read %q, want %q", got, "ab")
	}
}

func TestVirtualTerminal_SetSizeNotifies(t *testing.T) {
	t.Parallel()
	vt := NewVirtualTerminal(80, 24)

	var gotW, gotH int
	vt.OnResize(func(w, h int) { gotW, gotH = w, h })
	vt.SetSize(100, 40)

	if gotW != 100 || gotH != 40 {
		t.Errorf("resize callback got (%d, %d), want (100, 40)", gotW, gotH)
	}
	if w, h, _ := vt.Size(); w != 100 || h != 40 {
		t.Errorf("Size() = (%d, %d), want (100, 40)", w, h)
	}
}
