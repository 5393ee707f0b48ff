// ABOUTME: Windows console path and resize stub for ProcessTerminal.
// ABOUTME: Windows has no SIGWINCH; the finder re-reads the size on every frame instead.

//go:build windows

package terminal

const ttyPath = "CONIN$"

// startResizeListener is a no-op on Windows.
func (t *ProcessTerminal) startResizeListener() {}
