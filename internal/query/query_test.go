// ABOUTME: Tests for query line editing: inserts, deletes, kills, yank, and cursor motion
// ABOUTME: Checks both the resulting text/cursor and the changed flag each edit reports

package query

import "testing"

// state renders text with a | at the cursor.
func state(b *Buffer) string {
	r := b.Runes()
	return string(r[:b.Cursor()]) + "|" + string(r[b.Cursor():])
}

// at builds a buffer from text containing one | marking the cursor.
func at(s string) *Buffer {
	for i, r := range []rune(s) {
		if r == '|' {
			runes := []rune(s)
			b := New(string(runes[:i]) + string(runes[i+1:]))
			b.cursor = i
			return b
		}
	}
	return New(s)
}

func TestBuffer_Edits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   string
		op      func(*Buffer) bool
		want    string
		changed bool
	}{
		{"insert middle", "ab|cd", func(b *Buffer) bool { return b.Insert('X') }, "abX|cd", true},
		{"insert wide rune", "|", func(b *Buffer) bool { return b.Insert('日') }, "日|", true},
		{"backspace", "ab|c", (*Buffer).DeleteBackward, "a|c", true},
		{"backspace at start", "|abc", (*Buffer).DeleteBackward, "|abc", false},
		{"delete", "a|bc", (*Buffer).DeleteForward, "a|c", true},
		{"delete at end", "abc|", (*Buffer).DeleteForward, "abc|", false},
		{"kill line", "foo| bar", (*Buffer).KillLine, "foo|", true},
		{"kill line at end", "foo|", (*Buffer).KillLine, "foo|", false},
		{"line discard", "foo |bar", (*Buffer).UnixLineDiscard, "|bar", true},
		{"word rubout", "src/main go|", (*Buffer).UnixWordRubout, "src/main |", true},
		{"word rubout spans punctuation", "x src/main.go|", (*Buffer).UnixWordRubout, "x |", true},
		{"word rubout trailing space", "foo bar  |", (*Buffer).UnixWordRubout, "foo |", true},
		{"backward kill word", "src/main.go|", (*Buffer).BackwardKillWord, "src/main.|", true},
		{"backward kill word over separator", "src/main.|", (*Buffer).BackwardKillWord, "src/|", true},
		{"kill word", "|src/main", (*Buffer).KillWord, "|/main", true},
		{"kill word skips separator", "src|/main.go", (*Buffer).KillWord, "src|.go", true},
		{"clear", "ab|c", (*Buffer).Clear, "|", true},
		{"clear empty", "|", (*Buffer).Clear, "|", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := at(tt.start)
			changed := tt.op(b)
			if got := state(b); got != tt.want {
				t.Errorf("state = %q, want %q", got, tt.want)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}
}

func TestBuffer_Motion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start string
		op    func(*Buffer) bool
		want  string
		moved bool
	}{
		{"backward", "ab|c", (*Buffer).Backward, "a|bc", true},
		{"backward at start", "|abc", (*Buffer).Backward, "|abc", false},
		{"forward", "a|bc", (*Buffer).Forward, "ab|c", true},
		{"forward at end", "abc|", (*Buffer).Forward, "abc|", false},
		{"home", "ab|c", (*Buffer).Home, "|abc", true},
		{"end", "a|bc", (*Buffer).End, "abc|", true},
		{"backward word", "foo bar|", (*Buffer).BackwardWord, "foo |bar", true},
		{"backward word over separators", "foo-- |bar", (*Buffer).BackwardWord, "|foo-- bar", true},
		{"forward word", "|foo bar", (*Buffer).ForwardWord, "foo| bar", true},
		{"forward word over separators", "foo| -bar", (*Buffer).ForwardWord, "foo -bar|", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := at(tt.start)
			before := b.String()
			moved := tt.op(b)
			if got := state(b); got != tt.want {
				t.Errorf("state = %q, want %q", got, tt.want)
			}
			if moved != tt.moved {
				t.Errorf("moved = %v, want %v", moved, tt.moved)
			}
			if b.String() != before {
				t.Errorf("motion changed text to %q", b.String())
			}
		})
	}
}

func TestBuffer_YankMergesConsecutiveKills(t *testing.T) {
	t.Parallel()

	b := at("one two three|")
	b.BackwardKillWord()
	b.BackwardKillWord()
	if got := state(b); got != "one |" {
		t.Fatalf("after kills: %q", got)
	}
	b.Home()
	if !b.Yank() {
		t.Fatal("Yank() reported no change")
	}
	if got := state(b); got != "two three|one " {
		t.Errorf("after yank: %q", got)
	}
}

func TestBuffer_YankAfterInterruptedKills(t *testing.T) {
	t.Parallel()

	b := at("|alpha beta")
	b.KillWord()
	b.Insert('x')
	b.KillWord()
	b.End()
	b.Yank()
	if got := state(b); got != "x beta|" {
		t.Errorf("state = %q, want only the latest kill yanked", got)
	}
}

func TestBuffer_YankEmptyRing(t *testing.T) {
	t.Parallel()

	b := New("abc")
	if b.Yank() {
		t.Error("Yank() on an empty ring reported a change")
	}
	if b.String() != "abc" || b.Cursor() != 3 {
		t.Errorf("state = %q", state(b))
	}
}

func TestKillRing_Bounded(t *testing.T) {
	t.Parallel()

	var kr killRing
	for i := range ringSize + 5 {
		kr.kill(string(rune('a'+i)), false)
		kr.breakMerge()
	}
	if len(kr.entries) != ringSize {
		t.Fatalf("len = %d, want %d", len(kr.entries), ringSize)
	}
	if got := kr.yank(); got != string(rune('a'+ringSize+4)) {
		t.Errorf("yank() = %q", got)
	}
}
