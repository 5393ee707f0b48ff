// ABOUTME: Screen draws full frames on the alternate screen with per-row diffing
// ABOUTME: Only changed rows are rewritten, wrapped in CSI 2026 synchronized output

package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mauromedda/sk-go/pkg/tui/width"
)

// Screen renders frames to w using absolute cursor addressing. It is not
// safe for concurrent use; the coordinating loop is its only caller.
type Screen struct {
	w      io.Writer
	prev   []string
	width  int
	height int
	out    strings.Builder
}

// NewScreen creates a Screen writing to w.
func NewScreen(w io.Writer) *Screen {
	return &Screen{w: w}
}

// Invalidate forgets the previous frame so the next Draw repaints every row.
func (s *Screen) Invalidate() {
	s.prev = nil
}

// Draw renders c at the given size and writes the difference from the
// previous frame. A size change clears the screen first.
func (s *Screen) Draw(c Component, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}

	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)
	c.Render(buf, w, h)

	lines := buf.Lines
	if len(lines) > h {
		lines = lines[len(lines)-h:]
	}
	row, col := extractCursorPosition(lines)

	s.out.Reset()
	s.out.WriteString("\x1b[?2026h\x1b[?25l")
	if w != s.width || h != s.height {
		s.out.WriteString("\x1b[2J")
		s.prev = nil
		s.width, s.height = w, h
	}
	var num [20]byte
	for i := range h {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		if s.prev != nil && i < len(s.prev) && s.prev[i] == line {
			continue
		}
		writeMove(&s.out, num[:], i, 0)
		s.out.WriteString("\x1b[2K")
		s.out.WriteString(line)
	}
	if row >= 0 {
		writeMove(&s.out, num[:], row, col)
		s.out.WriteString("\x1b[?25h")
	}
	s.out.WriteString("\x1b[?2026l")

	if _, err := io.WriteString(s.w, s.out.String()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	s.prev = append(s.prev[:0], lines...)
	for len(s.prev) < h {
		s.prev = append(s.prev, "")
	}
	return nil
}

// writeMove emits an absolute cursor move to the zero-based row and column.
func writeMove(b *strings.Builder, num []byte, row, col int) {
	b.WriteString("\x1b[")
	b.Write(strconv.AppendInt(num[:0], int64(row+1), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(num[:0], int64(col+1), 10))
	b.WriteByte('H')
}

// extractCursorPosition finds the CursorMarker in lines, removes it,
// and returns (row, col). Returns (-1, -1) if not found.
func extractCursorPosition(lines []string) (row, col int) {
	for i, line := range lines {
		before, after, ok := strings.Cut(line, CursorMarker)
		if ok {
			lines[i] = before + after
			return i, width.VisibleWidth(before)
		}
	}
	return -1, -1
}
