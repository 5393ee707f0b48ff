// ABOUTME: Parser for parameterized CSI key sequences: CSI u, CSI n;m ~ and CSI 1;m <letter>
// ABOUTME: Modifier parameters decode into Shift, Alt and Ctrl; key release events are dropped

package key

import (
	"strconv"
	"strings"
)

// Modifier bits; the wire value is the mask plus one.
const (
	modShift = 1 << iota
	modAlt
	modCtrl
)

const eventRelease = 3

var csiLetterKeys = map[byte]KeyType{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

var csiTildeKeys = map[int]KeyType{
	1: KeyHome,
	3: KeyDelete,
	4: KeyEnd,
	5: KeyPageUp,
	6: KeyPageDown,
}

// csiParams is a decoded parameter list: "code[:alt...][;mods[:event]]".
type csiParams struct {
	code    int
	mods    int
	event   int
	hasMods bool
}

// ParseCSI decodes a parameterized CSI key sequence, as sent by terminals
// for modified navigation keys and by the kitty keyboard protocol. Plain
// legacy sequences such as "\x1b[A" are not handled here.
func ParseCSI(data string) (Key, bool) {
	if len(data) < 4 || !strings.HasPrefix(data, "\x1b[") {
		return Key{}, false
	}
	final := data[len(data)-1]
	p, ok := decodeCSIParams(data[2 : len(data)-1])
	if !ok || p.event == eventRelease {
		return Key{}, false
	}

	var k Key
	switch final {
	case 'u':
		k = codepointKey(rune(p.code), p.mods)
	case '~':
		kt, ok := csiTildeKeys[p.code]
		if !ok {
			return Key{}, false
		}
		k = Key{Type: kt}
	default:
		kt, ok := csiLetterKeys[final]
		if !ok || !p.hasMods {
			return Key{}, false
		}
		k = Key{Type: kt}
	}

	k.Shift = k.Shift || p.mods&modShift != 0
	k.Alt = p.mods&modAlt != 0
	k.Ctrl = p.mods&modCtrl != 0
	return k, true
}

func decodeCSIParams(body string) (csiParams, bool) {
	var p csiParams
	codeField, modField, hasMods := strings.Cut(body, ";")
	code, _, _ := strings.Cut(codeField, ":")
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return p, false
	}
	p.code = n
	if !hasMods {
		return p, true
	}

	modStr, eventStr, hasEvent := strings.Cut(modField, ":")
	m, err := strconv.Atoi(modStr)
	if err != nil || m < 1 {
		return p, false
	}
	p.mods, p.hasMods = m-1, true
	if hasEvent {
		if p.event, err = strconv.Atoi(eventStr); err != nil {
			return p, false
		}
	}
	return p, true
}

// codepointKey maps a CSI u codepoint to a Key. Modifier flags are applied
// by the caller.
func codepointKey(cp rune, mods int) Key {
	switch cp {
	case 13:
		return Key{Type: KeyEnter}
	case 9:
		if mods&modShift != 0 {
			return Key{Type: KeyBackTab}
		}
		return Key{Type: KeyTab}
	case 127:
		return Key{Type: KeyBackspace}
	case 27:
		return Key{Type: KeyEscape}
	}
	// Some terminals report ctrl-K with the shifted codepoint.
	if mods&modCtrl != 0 && cp >= 'A' && cp <= 'Z' {
		cp += 'a' - 'A'
	}
	return Key{Type: KeyRune, Rune: cp}
}
