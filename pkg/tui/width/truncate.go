// ABOUTME: Fitting text into a fixed number of columns: ANSI-aware truncation with an
// ABOUTME: ellipsis, and rune windows that keep a focus rune visible on narrow screens

package width

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Marker is drawn where Window cut text off.
const Marker = ".."

// TruncateToWidth truncates s to at most maxWidth visible columns.
// If truncation occurs, the last visible column becomes an ellipsis.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}

	var b strings.Builder
	col := 0
	target := maxWidth - 1
	for i := 0; i < len(s) && col < target; {
		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			b.WriteString(s[i:end])
			i = end
			continue
		}
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		cw := graphemeWidth(cluster)
		if col+cw > target {
			break
		}
		b.WriteString(cluster)
		col += cw
		i += len(s[i:]) - len(rest)
	}
	b.WriteString("\x1b[0m")
	b.WriteRune('…')
	return b.String()
}

// Window picks the runes of text to draw in avail columns so that the rune
// at index focus is visible. It returns the half-open rune range; when
// start > 0 or end < len(text) the caller draws Marker on that side, and
// the range leaves room for it. A negative focus anchors at the start.
func Window(text []rune, avail, focus int) (start, end int) {
	n := len(text)
	widths := make([]int, n)
	total := 0
	for i, r := range text {
		widths[i] = RuneWidth(r)
		total += widths[i]
	}
	if total <= avail {
		return 0, n
	}
	focus = min(max(focus, 0), n-1)

	body := avail - len(Marker)
	cols := 0
	for end < n && cols+widths[end] <= body {
		cols += widths[end]
		end++
	}
	if focus < end {
		return 0, end
	}

	// Anchor the window on focus, markers on both sides.
	body = avail - 2*len(Marker)
	start, end, cols = focus+1, focus+1, 0
	for start > 0 && cols+widths[start-1] <= body {
		start--
		cols += widths[start]
	}
	for end < n && cols+widths[end] <= body {
		cols += widths[end]
		end++
	}
	if end == n {
		for start > 0 && cols+widths[start-1] <= avail-len(Marker) {
			start--
			cols += widths[start]
		}
	}
	return start, end
}
