// ABOUTME: Candidate records: stable pool index, raw line, and NFC text used for matching
// ABOUTME: The raw line is what accept writes back out; it is never modified

package item

import "golang.org/x/text/unicode/norm"

// Item is one candidate line. Items are immutable once appended.
type Item struct {
	Index int
	Raw   string
	text  string
}

// New builds the Item at index for raw. Text that is not in NFC form
// (decomposed macOS file names, for example) gets a composed copy so the
// query and the candidate compare rune for rune.
func New(index int, raw string) Item {
	text := raw
	if !norm.NFC.IsNormalString(raw) {
		text = norm.NFC.String(raw)
	}
	return Item{Index: index, Raw: raw, text: text}
}

// Text returns the text matched against and displayed.
func (it Item) Text() string {
	return it.text
}
