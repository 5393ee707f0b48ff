// ABOUTME: Match is one scored candidate of a matching pass, tagged with the pass generation
// ABOUTME: ByRank and ByIndex are the two total orders a result set can keep

package ranked

import "strings"

// Match is a candidate that satisfied the query of generation Gen.
type Match struct {
	Index     int    // candidate pool index
	Score     int    // higher is better
	Positions []int  // matched rune positions in Text
	Text      string // candidate text, for tie-breaks and display
	Gen       uint64
}

// Less orders two matches; it must be a strict total order.
type Less func(a, b *Match) bool

// ByRank orders by score descending, then shorter text, then lexical
// text, then pool order.
func ByRank(a, b *Match) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if len(a.Text) != len(b.Text) {
		return len(a.Text) < len(b.Text)
	}
	if c := strings.Compare(a.Text, b.Text); c != 0 {
		return c < 0
	}
	return a.Index < b.Index
}

// ByIndex keeps pool order; used for the empty query and when sorting is
// toggled off.
func ByIndex(a, b *Match) bool {
	return a.Index < b.Index
}
