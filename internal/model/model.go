// ABOUTME: Interaction state: query, ranked results, selection, viewport, and matcher statistics
// ABOUTME: Owned by the coordinating loop; query edits bump the generation and signal a new pass

package model

import (
	"iter"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/item"
	"github.com/mauromedda/sk-go/internal/query"
	"github.com/mauromedda/sk-go/internal/ranked"
	"github.com/mauromedda/sk-go/internal/selection"
	"github.com/mauromedda/sk-go/pkg/tui/theme"
)

// chromeRows is the number of screen rows above the results: the query
// line and the info line.
const chromeRows = 2

// Options configures a Model.
type Options struct {
	Prompt  string
	Query   string // initial query
	Palette theme.Palette
}

// Stats are the counters shown on the info line.
type Stats struct {
	Matched    int
	Total      int
	Processed  int
	ReaderDone bool
	ReaderErr  error
	Matching   bool
}

// Model is the interaction state. It is not safe for concurrent use: the
// coordinating loop is its only reader and writer.
type Model struct {
	pool    *item.Pool
	box     *eventbox.Box
	prompt  string
	palette theme.Palette

	query   *query.Buffer
	results *ranked.Set
	sel     *selection.Set

	cursor int  // highlighted row, as a rank in results
	pinned bool // the user moved the cursor during the displayed pass
	offset int  // rank of the first visible row
	width  int
	height int

	stats   Stats
	gen     uint64          // last generation issued for the query
	acked   uint64          // generation whose matches are displayed
	empties map[uint64]bool // issued generations whose query was empty
	sorted  bool
	empty   bool // the displayed generation's query was empty
	tick    int
}

// New creates the interaction state. Query-change signals are set on box.
func New(pool *item.Pool, box *eventbox.Box, opts Options) *Model {
	return &Model{
		pool:    pool,
		box:     box,
		prompt:  opts.Prompt,
		palette: opts.Palette,
		query:   query.New(opts.Query),
		results: ranked.NewSet(ranked.ByIndex),
		sel:     selection.New(),
		empties: make(map[uint64]bool),
		sorted:  true,
		empty:   opts.Query == "",
	}
}

// Requery issues a new generation for the current query and signals it.
func (m *Model) Requery() {
	m.gen++
	m.empties[m.gen] = m.query.Len() == 0
	m.box.Set(event.QueryChanged{Gen: m.gen, Query: m.query.String()})
}

// Generation returns the last generation issued.
func (m *Model) Generation() uint64 { return m.gen }

// Acked returns the generation whose matches are currently displayed.
func (m *Model) Acked() uint64 { return m.acked }

// Query returns the query text.
func (m *Model) Query() string { return m.query.String() }

// Stats returns the info-line counters.
func (m *Model) Stats() Stats { return m.stats }

// edit applies a query mutation and starts a new pass when the text changed.
func (m *Model) edit(changed bool) {
	if changed {
		m.Requery()
	}
}

// Query line editing and motion.

func (m *Model) AddChar(r rune) { m.edit(m.query.Insert(r)) }
func (m *Model) BackwardDeleteChar() { m.edit(m.query.DeleteBackward()) }
func (m *Model) DeleteChar() { m.edit(m.query.DeleteForward()) }
func (m *Model) KillLine() { m.edit(m.query.KillLine()) }
func (m *Model) KillWord() { m.edit(m.query.KillWord()) }
func (m *Model) BackwardKillWord() { m.edit(m.query.BackwardKillWord()) }
func (m *Model) UnixLineDiscard() { m.edit(m.query.UnixLineDiscard()) }
func (m *Model) UnixWordRubout() { m.edit(m.query.UnixWordRubout()) }
func (m *Model) Yank() { m.edit(m.query.Yank()) }
func (m *Model) ClearQuery() { m.edit(m.query.Clear()) }
func (m *Model) ForwardChar() { m.query.Forward() }
func (m *Model) BackwardChar() { m.query.Backward() }
func (m *Model) ForwardWord() { m.query.ForwardWord() }
func (m *Model) BackwardWord() { m.query.BackwardWord() }
func (m *Model) BeginningOfLine() { m.query.Home() }
func (m *Model) EndOfLine() { m.query.End() }

// QueryEmpty reports whether the query has no text.
func (m *Model) QueryEmpty() bool { return m.query.Len() == 0 }

// Selection returns selected pool indices in selection order.
func (m *Model) Selection() []int { return m.sel.Indices() }

// Results returns the displayed result set.
func (m *Model) Results() *ranked.Set { return m.results }

// MoveLineCursor moves the highlighted row by n ranks, clamped to the
// results. Negative n moves toward the best match. Once moved, the
// highlight stays on its candidate while better matches arrive.
func (m *Model) MoveLineCursor(n int) {
	m.cursor = max(0, min(m.cursor+n, m.results.Len()-1))
	m.pinned = true
	m.adjustScroll()
}

// PageUp moves the highlight one screen toward the best match.
func (m *Model) PageUp() { m.MoveLineCursor(-m.rows()) }

// PageDown moves the highlight one screen away from the best match.
func (m *Model) PageDown() { m.MoveLineCursor(m.rows()) }

// Current returns the highlighted match.
func (m *Model) Current() (ranked.Match, bool) {
	return m.results.At(m.cursor)
}

// ToggleSelect flips the selection of the highlighted candidate.
func (m *Model) ToggleSelect() {
	if cur, ok := m.Current(); ok {
		m.sel.Toggle(cur.Index)
	}
}

// ForceSelect sets the selection of the highlighted candidate to on.
func (m *Model) ForceSelect(on bool) {
	if cur, ok := m.Current(); ok {
		m.sel.Select(cur.Index, on)
	}
}

// ToggleAll flips the selection of every current match.
func (m *Model) ToggleAll() { m.sel.ToggleAll(m.matchIndices()) }

// SelectAll selects every current match.
func (m *Model) SelectAll() { m.sel.SelectAll(m.matchIndices()) }

// DeselectAll clears the selection.
func (m *Model) DeselectAll() { m.sel.DeselectAll() }

func (m *Model) matchIndices() iter.Seq[int] {
	all := m.results.Top(0, m.results.Len())
	return func(yield func(int) bool) {
		for _, r := range all {
			if !yield(r.Index) {
				return
			}
		}
	}
}

// ToggleSort switches between ranked and pool order for non-empty queries.
func (m *Model) ToggleSort() {
	m.sorted = !m.sorted
	m.results.SetOrder(m.order(m.empty))
}

// Unsorted reports whether the displayed results are in pool order only
// because sorting was switched off.
func (m *Model) Unsorted() bool { return !m.sorted && !m.empty }

func (m *Model) order(emptyQuery bool) ranked.Less {
	if emptyQuery || !m.sorted {
		return ranked.ByIndex
	}
	return ranked.ByRank
}

// ClearItems starts displaying generation gen: previous matches are
// dropped and only matches tagged gen are accepted from now on.
func (m *Model) ClearItems(gen uint64) {
	empty, ok := m.empties[gen]
	if !ok {
		empty = m.query.Len() == 0
	}
	for g := range m.empties {
		if g <= gen {
			delete(m.empties, g)
		}
	}

	m.acked = gen
	m.empty = empty
	m.results.Clear()
	m.results.SetOrder(m.order(empty))
	m.cursor, m.offset, m.pinned = 0, 0, false
	m.stats.Matched, m.stats.Processed = 0, 0
	m.stats.Matching = true
}

// PushItem adds a match of the displayed generation and reports whether
// it was accepted.
func (m *Model) PushItem(r ranked.Match) bool {
	if r.Gen != m.acked {
		return false
	}
	cur, ok := m.Current()
	m.results.Insert(r)
	if m.pinned && ok && m.order(m.empty)(&r, &cur) {
		m.cursor++
		m.adjustScroll()
	}
	return true
}

// UpdateProgress applies matcher counters for the displayed generation.
func (m *Model) UpdateProgress(p event.Progress) {
	if p.Gen != m.acked {
		return
	}
	m.stats.Matched = p.Matched
	m.stats.Processed = p.Processed
	m.stats.Total = max(m.stats.Total, p.Total)
}

// PassEnded marks the pass for gen complete.
func (m *Model) PassEnded(gen uint64) {
	if gen == m.acked {
		m.stats.Matching = false
	}
}

// ItemsArrived records the pool size reported by the producer.
func (m *Model) ItemsArrived(total int) {
	m.stats.Total = max(m.stats.Total, total)
}

// ReaderFinished records that the producer is done.
func (m *Model) ReaderFinished(total int, err error) {
	m.stats.Total = max(m.stats.Total, total)
	m.stats.ReaderDone = true
	m.stats.ReaderErr = err
}

// Busy reports whether the spinner should run.
func (m *Model) Busy() bool {
	return !m.stats.ReaderDone || m.stats.Matching
}

// Tick advances the spinner.
func (m *Model) Tick() { m.tick++ }

// Resize records the terminal size and keeps the highlight on screen.
func (m *Model) Resize(width, height int) {
	m.width, m.height = width, height
	m.adjustScroll()
}

// Size returns the last recorded terminal size.
func (m *Model) Size() (width, height int) { return m.width, m.height }

// Accept returns the candidates to emit, in selection order. With nothing
// selected the highlighted candidate is selected first; with no matches
// the result is empty.
func (m *Model) Accept() []item.Item {
	if m.sel.Len() == 0 {
		m.ForceSelect(true)
	}
	idxs := m.sel.Indices()
	out := make([]item.Item, 0, len(idxs))
	for _, idx := range idxs {
		if it, ok := m.pool.Get(idx); ok {
			out = append(out, it)
		}
	}
	return out
}

// rows is the number of result rows on screen.
func (m *Model) rows() int {
	return max(1, m.height-chromeRows)
}

func (m *Model) adjustScroll() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, m.offset)
}
