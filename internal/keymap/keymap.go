// ABOUTME: Key-to-action lookup built from defaults, config bindings, and --bind overrides
// ABOUTME: Parses comma-separated key:action specs and suggests the closest name on a typo

package keymap

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/sk-go/pkg/tui/key"
)

// Binding errors; returned wrapped with the offending text.
var (
	ErrMalformedBinding = errors.New("malformed binding")
	ErrUnknownKey       = errors.New("unknown key")
	ErrUnknownAction    = errors.New("unknown action")
)

// Binding maps one key name to an action.
type Binding struct {
	Key    string
	Action Action
}

// Keymap provides O(1) key-to-action lookup.
type Keymap struct {
	lookup map[string]Action
}

var defaultBindings = map[string]Action{
	"ctrl-a":     ActBeginningOfLine,
	"ctrl-b":     ActBackwardChar,
	"ctrl-c":     ActAbort,
	"ctrl-d":     ActDeleteCharEOF,
	"ctrl-e":     ActEndOfLine,
	"ctrl-f":     ActForwardChar,
	"ctrl-g":     ActAbort,
	"ctrl-h":     ActBackwardDeleteChar,
	"ctrl-j":     ActDown,
	"ctrl-k":     ActUp,
	"ctrl-l":     ActClearScreen,
	"ctrl-n":     ActDown,
	"ctrl-p":     ActUp,
	"ctrl-u":     ActUnixLineDiscard,
	"ctrl-w":     ActUnixWordRubout,
	"ctrl-y":     ActYank,
	"enter":      ActAccept,
	"esc":        ActAbort,
	"tab":        ActToggleDown,
	"btab":       ActToggleUp,
	"bspace":     ActBackwardDeleteChar,
	"del":        ActDeleteChar,
	"up":         ActUp,
	"down":       ActDown,
	"left":       ActBackwardChar,
	"right":      ActForwardChar,
	"home":       ActBeginningOfLine,
	"end":        ActEndOfLine,
	"pgup":       ActPageUp,
	"pgdn":       ActPageDown,
	"alt-b":      ActBackwardWord,
	"alt-f":      ActForwardWord,
	"alt-d":      ActKillWord,
	"alt-bspace": ActBackwardKillWord,
}

// keyAliases maps alternative spellings to the name key.Key.Name reports.
var keyAliases = map[string]string{
	"ctrl-m":    "enter",
	"ctrl-i":    "tab",
	"shift-tab": "btab",
	"return":    "enter",
	"backspace": "bspace",
	"delete":    "del",
	"page-up":   "pgup",
	"page-down": "pgdn",
	"escape":    "esc",
	" ":         "space",
}

var namedKeys = []string{
	"enter", "tab", "btab", "bspace", "del", "up", "down", "left", "right",
	"home", "end", "pgup", "pgdn", "esc", "space",
}

// Defaults returns the default keymap.
func Defaults() *Keymap {
	return &Keymap{lookup: maps.Clone(defaultBindings)}
}

// Bind applies bindings over the current ones; later bindings win.
func (km *Keymap) Bind(bindings []Binding) {
	for _, b := range bindings {
		km.lookup[b.Key] = b.Action
	}
}

// Resolve returns the action bound to k.
func (km *Keymap) Resolve(k key.Key) (Action, bool) {
	name := k.Name()
	if name == "" {
		return 0, false
	}
	a, ok := km.lookup[name]
	return a, ok
}

// Bindings returns every binding sorted by key name.
func (km *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.lookup))
	for _, k := range slices.Sorted(maps.Keys(km.lookup)) {
		out = append(out, Binding{Key: k, Action: km.lookup[k]})
	}
	return out
}

// ParseBindings parses a comma-separated list of key:action pairs, such as
// "ctrl-j:accept,alt-a:select-all". The colon key is written "::action".
func ParseBindings(spec string) ([]Binding, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []Binding
	for entry := range strings.SplitSeq(spec, ",") {
		entry = strings.TrimSpace(entry)
		keyName, actionName, ok := splitEntry(entry)
		if !ok {
			return nil, fmt.Errorf("%w: %q, want key:action", ErrMalformedBinding, entry)
		}

		k, err := NormalizeKey(keyName)
		if err != nil {
			return nil, err
		}
		a, ok := ParseAction(actionName)
		if !ok {
			return nil, fmt.Errorf("%w: %q%s", ErrUnknownAction, actionName, suggest(actionName, ActionNames()))
		}
		out = append(out, Binding{Key: k, Action: a})
	}
	return out, nil
}

func splitEntry(entry string) (keyName, actionName string, ok bool) {
	if strings.HasPrefix(entry, "::") {
		return ":", entry[2:], len(entry) > 2
	}
	keyName, actionName, ok = strings.Cut(entry, ":")
	return keyName, actionName, ok && keyName != "" && actionName != ""
}

// NormalizeKey validates a key name and returns it in the form key.Key.Name
// produces.
func NormalizeKey(name string) (string, error) {
	lower := strings.ToLower(name)
	if alias, ok := keyAliases[lower]; ok {
		return alias, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		return name, nil
	}

	// Modifiers are matched in key.Key.Name order: alt before ctrl.
	rest, alt := strings.CutPrefix(lower, "alt-")
	if rest == lower {
		if r, ok := strings.CutPrefix(lower, "ctrl-alt-"); ok {
			rest, alt = "ctrl-"+r, true
		}
	}
	if r, ok := strings.CutPrefix(rest, "ctrl-"); ok {
		if len(r) == 1 && r[0] >= 'a' && r[0] <= 'z' {
			if alias, ok := keyAliases[rest]; ok {
				return prefix(alt) + alias, nil
			}
			return prefix(alt) + rest, nil
		}
		return "", unknownKey(name)
	}
	if alt {
		if tail := name[len("alt-"):]; utf8.RuneCountInString(tail) == 1 {
			return "alt-" + tail, nil
		}
		if slices.Contains(namedKeys, rest) {
			return "alt-" + rest, nil
		}
		if alias, ok := keyAliases[rest]; ok {
			return "alt-" + alias, nil
		}
		return "", unknownKey(name)
	}
	if slices.Contains(namedKeys, lower) {
		return lower, nil
	}
	return "", unknownKey(name)
}

func prefix(alt bool) string {
	if alt {
		return "alt-"
	}
	return ""
}

func unknownKey(name string) error {
	candidates := slices.Clone(namedKeys)
	candidates = append(candidates, "ctrl-a", "alt-a")
	return fmt.Errorf("%w: %q%s", ErrUnknownKey, name, suggest(name, candidates))
}

// suggest returns a " (did you mean ...?)" hint, or "" without a close name.
func suggest(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
}
