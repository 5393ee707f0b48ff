// ABOUTME: Action vocabulary bound to keys: query editing, cursor movement, selection, and exit
// ABOUTME: Names follow the key:action syntax accepted by --bind and the config file

package keymap

import (
	"fmt"
	"slices"
)

// Action is a user command resolved from a key.
type Action int

const (
	ActIgnore Action = iota
	ActAbort
	ActAccept
	ActBackwardChar
	ActBackwardDeleteChar
	ActBackwardKillWord
	ActBackwardWord
	ActBeginningOfLine
	ActCancel
	ActClearScreen
	ActDeleteChar
	ActDeleteCharEOF
	ActDeselectAll
	ActDown
	ActEndOfLine
	ActForwardChar
	ActForwardWord
	ActKillLine
	ActKillWord
	ActNextHistory
	ActPageDown
	ActPageUp
	ActPreviousHistory
	ActSelectAll
	ActToggle
	ActToggleAll
	ActToggleDown
	ActToggleIn
	ActToggleOut
	ActToggleSort
	ActToggleUp
	ActUnixLineDiscard
	ActUnixWordRubout
	ActUp
	ActYank
)

var actionNames = [...]string{
	ActIgnore:             "ignore",
	ActAbort:              "abort",
	ActAccept:             "accept",
	ActBackwardChar:       "backward-char",
	ActBackwardDeleteChar: "backward-delete-char",
	ActBackwardKillWord:   "backward-kill-word",
	ActBackwardWord:       "backward-word",
	ActBeginningOfLine:    "beginning-of-line",
	ActCancel:             "cancel",
	ActClearScreen:        "clear-screen",
	ActDeleteChar:         "delete-char",
	ActDeleteCharEOF:      "delete-charEOF",
	ActDeselectAll:        "deselect-all",
	ActDown:               "down",
	ActEndOfLine:          "end-of-line",
	ActForwardChar:        "forward-char",
	ActForwardWord:        "forward-word",
	ActKillLine:           "kill-line",
	ActKillWord:           "kill-word",
	ActNextHistory:        "next-history",
	ActPageDown:           "page-down",
	ActPageUp:             "page-up",
	ActPreviousHistory:    "previous-history",
	ActSelectAll:          "select-all",
	ActToggle:             "toggle",
	ActToggleAll:          "toggle-all",
	ActToggleDown:         "toggle-down",
	ActToggleIn:           "toggle-in",
	ActToggleOut:          "toggle-out",
	ActToggleSort:         "toggle-sort",
	ActToggleUp:           "toggle-up",
	ActUnixLineDiscard:    "unix-line-discard",
	ActUnixWordRubout:     "unix-word-rubout",
	ActUp:                 "up",
	ActYank:               "yank",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ActionNames returns every action name, sorted.
func ActionNames() []string {
	names := slices.Clone(actionNames[:])
	slices.Sort(names)
	return names
}

// ParseAction returns the action called name.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), true
		}
	}
	return 0, false
}
