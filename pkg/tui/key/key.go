// ABOUTME: Defines the Key type and ParseKey for terminal keyboard input parsing.
// ABOUTME: Handles printable runes, Ctrl/Alt letter combos, and delegates escape sequences to the legacy table and the CSI parser.

package key

import (
	"unicode/utf8"
)

// Key represents a parsed keyboard input event.
// Ctrl+<letter> is a KeyRune with Ctrl set and a lowercase Rune.
type Key struct {
	Type  KeyType
	Rune  rune // For printable characters
	Alt   bool
	Ctrl  bool
	Shift bool
}

// KeyType enumerates the kinds of key events the finder can receive.
type KeyType int

const (
	KeyRune      KeyType = iota // Printable character or Ctrl/Alt letter
	KeyEnter                    // Enter / Return
	KeyTab                      // Tab
	KeyBackTab                  // Shift+Tab
	KeyBackspace                // Backspace / DEL (0x7F)
	KeyDelete                   // Delete key
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
	KeyHome                     // Home
	KeyEnd                      // End
	KeyPageUp                   // Page Up
	KeyPageDown                 // Page Down
	KeyEscape                   // Escape
	KeyUnknown                  // Unrecognized input
)

// Ctrl returns the Key for Ctrl+<letter>.
func Ctrl(letter rune) Key {
	return Key{Type: KeyRune, Rune: letter, Ctrl: true}
}

// ParseKey parses raw terminal input data into a Key.
// It handles single runes, control characters, and escape sequences.
func ParseKey(data string) Key {
	if len(data) == 0 {
		return Key{Type: KeyUnknown}
	}

	// Single-byte fast path
	if len(data) == 1 {
		return parseSingleByte(data[0])
	}

	// Escape sequence path
	if data[0] == 0x1b {
		return parseEscapeSequence(data)
	}

	// Multi-byte UTF-8 rune
	r, size := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError || size != len(data) {
		return Key{Type: KeyUnknown}
	}
	return Key{Type: KeyRune, Rune: r}
}

// parseSingleByte handles a single-byte input (ASCII or control character).
func parseSingleByte(b byte) Key {
	switch {
	case b == 0x0d:
		return Key{Type: KeyEnter}
	case b == 0x09:
		return Key{Type: KeyTab}
	case b == 0x7f:
		return Key{Type: KeyBackspace}
	case b == 0x1b:
		return Key{Type: KeyEscape}
	case b >= 0x20 && b <= 0x7e:
		return Key{Type: KeyRune, Rune: rune(b)}
	case b >= 0x01 && b <= 0x1a:
		return Ctrl(rune('a' + b - 1))
	}
	return Key{Type: KeyUnknown}
}

// parseEscapeSequence handles ESC-prefixed data.
func parseEscapeSequence(data string) Key {
	if k, ok := ParseCSI(data); ok {
		return k
	}

	if k, ok := legacySequences[data]; ok {
		return k
	}

	// Lone ESC
	if len(data) == 1 {
		return Key{Type: KeyEscape}
	}

	// Alt+<key>: ESC followed by a single byte that parses on its own.
	if len(data) == 2 && data[1] != 0x1b {
		k := parseSingleByte(data[1])
		if k.Type == KeyUnknown {
			return k
		}
		k.Alt = true
		return k
	}

	return Key{Type: KeyUnknown}
}

// keyTypeNames holds the binding names for non-rune keys.
var keyTypeNames = map[KeyType]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackTab:   "btab",
	KeyBackspace: "bspace",
	KeyDelete:    "del",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyEscape:    "esc",
}

// Name returns the binding name of the key, as used in key:action specs
// ("ctrl-a", "alt-b", "enter", "pgdn", "space"). Plain printable runes
// return the rune itself; unknown keys return the empty string.
func (k Key) Name() string {
	var base string
	switch {
	case k.Type == KeyRune && k.Rune == ' ':
		base = "space"
	case k.Type == KeyRune:
		base = string(k.Rune)
	default:
		base = keyTypeNames[k.Type]
	}
	if base == "" {
		return ""
	}
	if k.Ctrl {
		base = "ctrl-" + base
	}
	if k.Alt {
		base = "alt-" + base
	}
	return base
}

// Printable reports whether the key inserts its rune into text input.
func (k Key) Printable() bool {
	return k.Type == KeyRune && !k.Ctrl && !k.Alt && k.Rune >= 0x20 && k.Rune != 0x7f
}

// String returns a human-readable representation of the Key for debug display.
func (k Key) String() string {
	if name := k.Name(); name != "" {
		return name
	}
	return "unknown"
}
