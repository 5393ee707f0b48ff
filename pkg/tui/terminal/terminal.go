// ABOUTME: Defines the Terminal interface for scoped raw mode, size queries, key input, and output.
// ABOUTME: Abstracts terminal operations so implementations can target a real tty or a virtual one.

package terminal

// Terminal abstracts the controlling terminal: raw mode with the alternate
// screen, size queries, output writing, key input, and resize notifications.
// EnterRawMode and ExitRawMode are idempotent so ExitRawMode can be deferred
// on every exit path.
type Terminal interface {
	EnterRawMode() error
	ExitRawMode() error
	Size() (width, height int, err error)
	Write(p []byte) (n int, err error)
	Read(p []byte) (n int, err error)
	OnResize(fn func(width, height int))
}

// Escape sequences written around a raw-mode session.
const (
	enterScreen = "\x1b[?1049h\x1b[?2004h\x1b[?25l" // alt screen, bracketed paste, hide cursor
	leaveScreen = "\x1b[?2004l\x1b[?25h\x1b[?1049l" // reverse order
)
