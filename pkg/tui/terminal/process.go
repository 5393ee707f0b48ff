// ABOUTME: ProcessTerminal implements Terminal on the controlling tty via golang.org/x/term.
// ABOUTME: Using /dev/tty keeps stdin free for piped candidates and stdout free for results.

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by the process's controlling tty.
type ProcessTerminal struct {
	tty      *os.File
	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
	sigCh    chan os.Signal
}

// Open opens the controlling terminal. It fails when the process has none,
// which is a fatal startup error for the finder.
func Open() (*ProcessTerminal, error) {
	tty, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	if !term.IsTerminal(int(tty.Fd())) {
		_ = tty.Close()
		return nil, fmt.Errorf("opening terminal: %s is not a terminal", ttyPath)
	}
	return &ProcessTerminal{tty: tty}, nil
}

// EnterRawMode switches the tty to raw mode, saving the previous state, and
// enters the alternate screen.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.tty.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	if _, err := t.tty.WriteString(enterScreen); err != nil {
		return fmt.Errorf("entering alternate screen: %w", err)
	}
	return nil
}

// ExitRawMode leaves the alternate screen and restores the saved tty state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	_, _ = t.tty.WriteString(leaveScreen)
	if err := term.Restore(int(t.tty.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.tty.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the tty.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.tty.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// Read reads raw key bytes from the tty.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	return t.tty.Read(p)
}

// OnResize registers a callback invoked when the terminal is resized.
// Platform-specific signal handling is set up by startResizeListener.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	started := t.sigCh != nil
	t.mu.Unlock()

	if !started {
		t.startResizeListener()
	}
}

// Close restores the tty, stops resize notifications, and closes the tty,
// which unblocks a pending Read.
func (t *ProcessTerminal) Close() error {
	rawErr := t.ExitRawMode()

	t.mu.Lock()
	if t.sigCh != nil {
		signal.Stop(t.sigCh)
		close(t.sigCh)
		t.sigCh = nil
	}
	t.mu.Unlock()

	if err := t.tty.Close(); err != nil {
		return fmt.Errorf("closing terminal: %w", err)
	}
	return rawErr
}
