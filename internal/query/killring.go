// ABOUTME: Kill ring for the query line: a bounded history of killed text for yank
// ABOUTME: Consecutive kills merge into one entry, in the direction they were made

package query

const ringSize = 16

// killRing holds killed text, newest last.
type killRing struct {
	entries []string
	// merge is set after a kill and cleared by any other edit, so a run
	// of kills yanks back as one piece.
	merge bool
}

// kill records text. backward kills prepend to a merged entry, forward
// kills append.
func (kr *killRing) kill(text string, backward bool) {
	if text == "" {
		return
	}
	if kr.merge && len(kr.entries) > 0 {
		last := len(kr.entries) - 1
		if backward {
			kr.entries[last] = text + kr.entries[last]
		} else {
			kr.entries[last] += text
		}
		return
	}
	if len(kr.entries) == ringSize {
		copy(kr.entries, kr.entries[1:])
		kr.entries = kr.entries[:ringSize-1]
	}
	kr.entries = append(kr.entries, text)
	kr.merge = true
}

// yank returns the newest entry, or "" when nothing was killed.
func (kr *killRing) yank() string {
	if len(kr.entries) == 0 {
		return ""
	}
	return kr.entries[len(kr.entries)-1]
}

// breakMerge ends a run of kills.
func (kr *killRing) breakMerge() {
	kr.merge = false
}
