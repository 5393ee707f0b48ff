// ABOUTME: Help text for --help, styled with lipgloss
// ABOUTME: Lists the options and the default key bindings grouped by action

package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/sk-go/internal/keymap"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	flagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	actionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Width(22)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// writeUsage renders the help screen for km to w.
func writeUsage(w io.Writer, km *keymap.Keymap) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(programName+" - interactive fuzzy finder") + "\n\n")
	b.WriteString("Reads candidates from stdin, or runs $SK_GO_DEFAULT_COMMAND when stdin is a terminal,\n")
	b.WriteString("and prints the selected lines to stdout.\n\n")

	b.WriteString(headingStyle.Render("Usage") + "\n")
	b.WriteString("  " + programName + " [options]\n\n")

	b.WriteString(headingStyle.Render("Options") + "\n")
	b.WriteString("  " + flagStyle.Render("-b, --bind KEYBINDS") + "\n")
	b.WriteString("      Comma-separated KEY:ACTION pairs, e.g. " + mutedStyle.Render("ctrl-j:accept,ctrl-k:kill-line") + "\n")
	b.WriteString("  " + flagStyle.Render("-h, --help") + "\n")
	b.WriteString("      Show this help and exit\n\n")

	b.WriteString(headingStyle.Render("Key bindings") + "\n")
	for _, line := range bindingLines(km) {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Exit status") + "\n")
	b.WriteString("  0 selection printed, 1 no match or error, 2 usage error, 130 aborted\n")

	_, err := fmt.Fprint(w, b.String())
	return err
}

// bindingLines groups the keys of km by action, one line per action, in
// action-name order.
func bindingLines(km *keymap.Keymap) []string {
	byAction := make(map[keymap.Action][]string)
	for _, bnd := range km.Bindings() {
		byAction[bnd.Action] = append(byAction[bnd.Action], bnd.Key)
	}
	actions := make([]keymap.Action, 0, len(byAction))
	for a := range byAction {
		actions = append(actions, a)
	}
	slices.SortFunc(actions, func(x, y keymap.Action) int {
		return strings.Compare(x.String(), y.String())
	})

	lines := make([]string, 0, len(actions))
	for _, a := range actions {
		lines = append(lines, actionStyle.Render(a.String())+strings.Join(byAction[a], " "))
	}
	return lines
}
