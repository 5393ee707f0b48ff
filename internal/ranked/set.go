// ABOUTME: Ranked result set: a lazily grown sorted prefix over a heap of unplaced matches
// ABOUTME: Readers pull only as many entries into order as the viewport needs

package ranked

import (
	"container/heap"
	"sort"
	"sync"
)

// Set holds the matches of the current pass in a total order. Inserting
// never re-sorts entries that are already placed; At and Top only order as
// much of the set as they read. All methods are safe for concurrent use,
// and Clear is atomic with respect to readers.
type Set struct {
	mu     sync.Mutex
	less   Less
	sorted []*Match
	rest   matchHeap
}

// NewSet creates an empty set ordered by less.
func NewSet(less Less) *Set {
	return &Set{less: less, rest: matchHeap{less: less}}
}

// Insert adds m. A match that ranks before the last placed entry is placed
// directly by binary search; anything else waits in the heap.
func (s *Set) Insert(m Match) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &m
	n := len(s.sorted)
	if n > 0 && s.less(p, s.sorted[n-1]) {
		i := sort.Search(n, func(i int) bool { return s.less(p, s.sorted[i]) })
		s.sorted = append(s.sorted, nil)
		copy(s.sorted[i+1:], s.sorted[i:])
		s.sorted[i] = p
		return
	}
	heap.Push(&s.rest, p)
}

// Clear removes every match.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.sorted)
	s.sorted = s.sorted[:0]
	clear(s.rest.items)
	s.rest.items = s.rest.items[:0]
}

// SetOrder switches the order and re-derives placement lazily.
func (s *Set) SetOrder(less Less) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.less = less
	s.rest.less = less
	s.rest.items = append(s.rest.items, s.sorted...)
	clear(s.sorted)
	s.sorted = s.sorted[:0]
	heap.Init(&s.rest)
}

// Len returns the number of matches.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sorted) + s.rest.Len()
}

// At returns the i-th match in order.
func (s *Set) At(i int) (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || !s.place(i+1) {
		return Match{}, false
	}
	return *s.sorted[i], true
}

// Top returns up to n matches starting at rank offset.
func (s *Set) Top(offset, n int) []Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset < 0 || n <= 0 {
		return nil
	}
	s.place(offset + n)
	end := min(offset+n, len(s.sorted))
	if offset >= end {
		return nil
	}
	out := make([]Match, 0, end-offset)
	for _, m := range s.sorted[offset:end] {
		out = append(out, *m)
	}
	return out
}

// place moves entries from the heap until count are in order or the heap
// is empty, and reports whether count entries are placed.
func (s *Set) place(count int) bool {
	for len(s.sorted) < count && s.rest.Len() > 0 {
		s.sorted = append(s.sorted, heap.Pop(&s.rest).(*Match))
	}
	return len(s.sorted) >= count
}

// matchHeap is a min-heap under less: the root is the best unplaced match.
type matchHeap struct {
	items []*Match
	less  Less
}

func (h matchHeap) Len() int           { return len(h.items) }
func (h matchHeap) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h matchHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *matchHeap) Push(x any) { h.items = append(h.items, x.(*Match)) }

func (h *matchHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	return x
}
