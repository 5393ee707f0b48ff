// ABOUTME: Query line buffer: rune text plus cursor with readline-style editing and word motion
// ABOUTME: Mutators report whether the text changed so callers know when to start a new matching pass

package query

import "unicode"

// Buffer is the editable query. The cursor is a rune offset in [0, Len()].
// A Buffer is owned by a single goroutine.
type Buffer struct {
	text   []rune
	cursor int
	ring   killRing
}

// New creates a buffer holding initial with the cursor at its end.
func New(initial string) *Buffer {
	b := &Buffer{text: []rune(initial)}
	b.cursor = len(b.text)
	return b
}

// String returns the query text.
func (b *Buffer) String() string { return string(b.text) }

// Runes returns the query text; callers must not modify it.
func (b *Buffer) Runes() []rune { return b.text }

// Cursor returns the cursor offset in runes.
func (b *Buffer) Cursor() int { return b.cursor }

// Len returns the query length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Clear empties the query.
func (b *Buffer) Clear() bool {
	b.ring.breakMerge()
	if len(b.text) == 0 {
		return false
	}
	b.text = b.text[:0]
	b.cursor = 0
	return true
}

// Insert puts r at the cursor and advances past it.
func (b *Buffer) Insert(r rune) bool {
	b.ring.breakMerge()
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
	return true
}

// DeleteBackward removes the rune before the cursor.
func (b *Buffer) DeleteBackward() bool {
	b.ring.breakMerge()
	if b.cursor == 0 {
		return false
	}
	b.remove(b.cursor-1, b.cursor)
	return true
}

// DeleteForward removes the rune under the cursor.
func (b *Buffer) DeleteForward() bool {
	b.ring.breakMerge()
	if b.cursor >= len(b.text) {
		return false
	}
	b.remove(b.cursor, b.cursor+1)
	return true
}

// KillLine kills from the cursor to the end of the line.
func (b *Buffer) KillLine() bool {
	return b.kill(b.cursor, len(b.text), false)
}

// UnixLineDiscard kills from the start of the line to the cursor.
func (b *Buffer) UnixLineDiscard() bool {
	return b.kill(0, b.cursor, true)
}

// UnixWordRubout kills the whitespace-delimited word before the cursor.
func (b *Buffer) UnixWordRubout() bool {
	pos := b.cursor
	for pos > 0 && unicode.IsSpace(b.text[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(b.text[pos-1]) {
		pos--
	}
	return b.kill(pos, b.cursor, true)
}

// BackwardKillWord kills back to the start of the previous alphanumeric word.
func (b *Buffer) BackwardKillWord() bool {
	return b.kill(b.wordStart(), b.cursor, true)
}

// KillWord kills forward to the end of the next alphanumeric word.
func (b *Buffer) KillWord() bool {
	return b.kill(b.cursor, b.wordEnd(), false)
}

// Yank inserts the most recently killed text at the cursor.
func (b *Buffer) Yank() bool {
	b.ring.breakMerge()
	runes := []rune(b.ring.yank())
	if len(runes) == 0 {
		return false
	}
	text := make([]rune, 0, len(b.text)+len(runes))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, runes...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(runes)
	return true
}

// Backward moves the cursor one rune left.
func (b *Buffer) Backward() bool { return b.moveTo(b.cursor - 1) }

// Forward moves the cursor one rune right.
func (b *Buffer) Forward() bool { return b.moveTo(b.cursor + 1) }

// BackwardWord moves to the start of the previous word.
func (b *Buffer) BackwardWord() bool { return b.moveTo(b.wordStart()) }

// ForwardWord moves past the end of the next word.
func (b *Buffer) ForwardWord() bool { return b.moveTo(b.wordEnd()) }

// Home moves to the start of the line.
func (b *Buffer) Home() bool { return b.moveTo(0) }

// End moves to the end of the line.
func (b *Buffer) End() bool { return b.moveTo(len(b.text)) }

// moveTo clamps pos and reports whether the cursor moved. Movement never
// changes the text.
func (b *Buffer) moveTo(pos int) bool {
	b.ring.breakMerge()
	pos = max(0, min(pos, len(b.text)))
	if pos == b.cursor {
		return false
	}
	b.cursor = pos
	return true
}

func (b *Buffer) kill(from, to int, backward bool) bool {
	if from >= to {
		b.ring.breakMerge()
		return false
	}
	b.ring.kill(string(b.text[from:to]), backward)
	b.remove(from, to)
	return true
}

// remove deletes [from, to) and leaves the cursor at from when it was
// inside or after the range.
func (b *Buffer) remove(from, to int) {
	b.text = append(b.text[:from], b.text[to:]...)
	switch {
	case b.cursor >= to:
		b.cursor -= to - from
	case b.cursor > from:
		b.cursor = from
	}
}

func (b *Buffer) wordStart() int {
	pos := b.cursor
	for pos > 0 && !isWord(b.text[pos-1]) {
		pos--
	}
	for pos > 0 && isWord(b.text[pos-1]) {
		pos--
	}
	return pos
}

func (b *Buffer) wordEnd() int {
	pos := b.cursor
	for pos < len(b.text) && !isWord(b.text[pos]) {
		pos++
	}
	for pos < len(b.text) && isWord(b.text[pos]) {
		pos++
	}
	return pos
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
