// ABOUTME: Renders the interaction state: query line, info line, then ranked rows best first
// ABOUTME: Matched runes are highlighted; long rows are windowed so the last match stays visible

package model

import (
	"strconv"
	"strings"

	"github.com/mauromedda/sk-go/pkg/tui"
	"github.com/mauromedda/sk-go/pkg/tui/width"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

const reset = "\x1b[0m"

// Render writes the query line, the info line, and height-2 result rows.
func (m *Model) Render(out *tui.RenderBuffer, w, h int) {
	if h <= 0 {
		return
	}
	out.WriteLine(m.renderQuery(w))
	if h == 1 {
		return
	}
	out.WriteLine(m.renderInfo(w))

	rows := h - chromeRows
	page := m.results.Top(m.offset, rows)
	var b strings.Builder
	for i, r := range page {
		b.Reset()
		m.renderRow(&b, r.Text, r.Positions, m.offset+i == m.cursor, m.sel.Contains(r.Index), w)
		out.WriteLine(b.String())
	}
	for range rows - len(page) {
		out.WriteLine("")
	}
}

func (m *Model) renderQuery(w int) string {
	p := m.palette
	prompt := width.TruncateToWidth(m.prompt, max(0, w-1))
	avail := w - width.VisibleWidth(prompt) - 1

	text := m.query.Runes()
	cursor := m.query.Cursor()
	start, end := width.Window(text, max(0, avail), cursor)
	cursor = min(max(cursor, start), end)

	var b strings.Builder
	b.WriteString(p.Prompt.Apply(prompt))
	if start > 0 {
		b.WriteString(p.Muted.Apply(width.Marker))
	}
	b.WriteString(p.Query.Apply(string(text[start:cursor])))
	b.WriteString(tui.CursorMarker)
	b.WriteString(p.Query.Apply(string(text[cursor:end])))
	if end < len(text) {
		b.WriteString(p.Muted.Apply(width.Marker))
	}
	return b.String()
}

func (m *Model) renderInfo(w int) string {
	p := m.palette
	var b strings.Builder
	if m.Busy() {
		b.WriteString(p.Spinner.Apply(spinnerFrames[m.tick%len(spinnerFrames)]))
	} else {
		b.WriteByte(' ')
	}
	b.WriteByte(' ')

	info := strconv.Itoa(m.stats.Matched) + "/" + strconv.Itoa(m.stats.Total)
	if n := m.sel.Len(); n > 0 {
		info += " [" + strconv.Itoa(n) + "]"
	}
	if m.Unsorted() {
		info += " -S"
	}
	b.WriteString(p.Info.Apply(info))
	if m.stats.ReaderErr != nil {
		b.WriteString(p.Muted.Apply("  (source: " + m.stats.ReaderErr.Error() + ")"))
	}
	return width.TruncateToWidth(b.String(), w)
}

// renderRow draws one result: a cursor column, a selection column, and the
// candidate text with matched runes highlighted.
func (m *Model) renderRow(b *strings.Builder, text string, positions []int, current, selected bool, w int) {
	p := m.palette
	base, hl := "", p.Match.Code()
	if current {
		base, hl = p.Current.Code(), p.CurrentMatch.Code()
	}

	if current {
		b.WriteString(p.Cursor.Apply(">"))
	} else {
		b.WriteByte(' ')
	}
	if selected {
		b.WriteString(p.Selected.Apply(">"))
	} else {
		b.WriteByte(' ')
	}

	runes := displayRunes(text)
	focus := -1
	if len(positions) > 0 {
		focus = positions[len(positions)-1]
	}
	avail := max(0, w-2)
	start, end := width.Window(runes, avail, focus)

	b.WriteString(base)
	cols := 0
	if start > 0 {
		b.WriteString(width.Marker)
		cols += len(width.Marker)
	}
	pi := 0
	for pi < len(positions) && positions[pi] < start {
		pi++
	}
	for i := start; i < end; i++ {
		r := runes[i]
		cols += width.RuneWidth(r)
		if pi < len(positions) && positions[pi] == i {
			pi++
			b.WriteString(hl)
			b.WriteRune(r)
			b.WriteString(reset)
			b.WriteString(base)
			continue
		}
		b.WriteRune(r)
	}
	if end < len(runes) {
		b.WriteString(width.Marker)
		cols += len(width.Marker)
	}
	if current && cols < avail {
		b.WriteString(strings.Repeat(" ", avail-cols))
	}
	if base != "" {
		b.WriteString(reset)
	}
}

// displayRunes converts text to runes with control characters blanked so
// they cannot move the terminal cursor. Rune offsets are preserved.
func displayRunes(text string) []rune {
	runes := []rune(text)
	for i, r := range runes {
		if r < 0x20 || r == 0x7f {
			runes[i] = ' '
		}
	}
	return runes
}
