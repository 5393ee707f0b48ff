// ABOUTME: Selection set keyed by stable candidate index, independent of ranking
// ABOUTME: A roaring bitmap answers membership; a slice remembers selection order for output

package selection

import (
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is the multi-select state. Indices are pool indices, so re-ranking
// never moves or drops a selection. A Set is owned by a single goroutine.
type Set struct {
	rb    *roaring.Bitmap
	order []int
}

// New creates an empty selection.
func New() *Set {
	return &Set{rb: roaring.New()}
}

// Contains reports whether idx is selected.
func (s *Set) Contains(idx int) bool {
	return s.rb.Contains(uint32(idx))
}

// Len returns the number of selected candidates.
func (s *Set) Len() int {
	return len(s.order)
}

// Toggle flips idx and returns its new state.
func (s *Set) Toggle(idx int) bool {
	on := !s.Contains(idx)
	s.Select(idx, on)
	return on
}

// Select forces idx to on regardless of its prior state.
func (s *Set) Select(idx int, on bool) {
	if s.rb.Contains(uint32(idx)) == on {
		return
	}
	if on {
		s.rb.Add(uint32(idx))
		s.order = append(s.order, idx)
		return
	}
	s.rb.Remove(uint32(idx))
	if i := slices.Index(s.order, idx); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// SelectAll selects every index in seq, keeping existing selections.
func (s *Set) SelectAll(seq iter.Seq[int]) {
	for idx := range seq {
		s.Select(idx, true)
	}
}

// ToggleAll flips every index in seq.
func (s *Set) ToggleAll(seq iter.Seq[int]) {
	for idx := range seq {
		s.Toggle(idx)
	}
}

// DeselectAll clears the selection.
func (s *Set) DeselectAll() {
	s.rb.Clear()
	s.order = s.order[:0]
}

// Indices returns the selected indices in the order they were selected.
func (s *Set) Indices() []int {
	return slices.Clone(s.order)
}
