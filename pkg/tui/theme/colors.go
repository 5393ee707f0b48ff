// ABOUTME: Per-role color overrides from config: "match: 108" or "cursor: bold red"
// ABOUTME: Role names are snake_case palette fields; values are names, 256-color indexes, or raw SGR

package theme

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

var namedSGR = map[string]string{
	"bold":      "1",
	"dim":       "2",
	"underline": "4",
	"reverse":   "7",
	"black":     "30",
	"red":       "31",
	"green":     "32",
	"yellow":    "33",
	"blue":      "34",
	"magenta":   "35",
	"cyan":      "36",
	"white":     "37",
	"default":   "39",
}

// Override returns a copy of p with the given roles recolored.
// Unknown roles and unparsable values are errors.
func Override(p Palette, colors map[string]string) (Palette, error) {
	pv := reflect.ValueOf(&p).Elem()
	for role, spec := range colors {
		f := pv.FieldByName(fieldName(role))
		if !f.IsValid() || f.Type() != reflect.TypeOf(Color{}) {
			return p, fmt.Errorf("unknown color role %q", role)
		}
		c, err := ParseColor(spec)
		if err != nil {
			return p, fmt.Errorf("color %q: %w", role, err)
		}
		f.Set(reflect.ValueOf(c))
	}
	return p, nil
}

// ParseColor converts a space-separated list of attribute names, color
// names and 256-color foreground indexes into a Color. "bg:N" selects a
// 256-color background. A value starting with ESC is taken verbatim.
func ParseColor(spec string) (Color, error) {
	if strings.HasPrefix(spec, "\x1b") {
		return NewColor(spec), nil
	}
	var code strings.Builder
	for _, word := range strings.Fields(spec) {
		bg := false
		if rest, ok := strings.CutPrefix(word, "bg:"); ok {
			bg, word = true, rest
		}
		if sgr, ok := namedSGR[word]; ok && !bg {
			code.WriteString("\x1b[" + sgr + "m")
			continue
		}
		n, err := strconv.Atoi(word)
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("invalid color %q", word)
		}
		layer := "38"
		if bg {
			layer = "48"
		}
		fmt.Fprintf(&code, "\x1b[%s;5;%dm", layer, n)
	}
	return NewColor(code.String()), nil
}

// fieldName maps "current_match" to "CurrentMatch".
func fieldName(role string) string {
	var b strings.Builder
	upper := true
	for _, r := range role {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
