// ABOUTME: Built-in themes: default, dark, light, monochrome
// ABOUTME: Provides Builtin(name) lookup and BuiltinNames() enumeration

package theme

import "sort"

var builtins = map[string]*Theme{
	"default": {
		Name:    "default",
		Palette: DefaultPalette(),
	},
	"dark": {
		Name: "dark",
		Palette: Palette{
			Prompt:       NewColor("\x1b[38;5;110m"),
			Query:        NewColor("\x1b[1m\x1b[97m"),
			Info:         NewColor("\x1b[38;5;144m"),
			Spinner:      NewColor("\x1b[38;5;148m"),
			Cursor:       NewColor("\x1b[1m\x1b[38;5;161m"),
			Current:      NewColor("\x1b[97m\x1b[48;5;236m"),
			CurrentMatch: NewColor("\x1b[38;5;151m\x1b[48;5;236m"),
			Match:        NewColor("\x1b[38;5;108m"),
			Selected:     NewColor("\x1b[38;5;168m"),
			Muted:        NewColor("\x1b[38;5;244m"),
		},
	},
	"light": {
		Name: "light",
		Palette: Palette{
			Prompt:       NewColor("\x1b[38;5;25m"),
			Query:        NewColor("\x1b[1m\x1b[30m"),
			Info:         NewColor("\x1b[38;5;101m"),
			Spinner:      NewColor("\x1b[38;5;76m"),
			Cursor:       NewColor("\x1b[1m\x1b[38;5;161m"),
			Current:      NewColor("\x1b[30m\x1b[48;5;251m"),
			CurrentMatch: NewColor("\x1b[38;5;66m\x1b[48;5;251m"),
			Match:        NewColor("\x1b[38;5;66m"),
			Selected:     NewColor("\x1b[38;5;168m"),
			Muted:        NewColor("\x1b[38;5;245m"),
		},
	},
	"monochrome": {
		Name: "monochrome",
		Palette: Palette{
			Prompt:       NewColor("\x1b[1m"),
			Query:        NewColor("\x1b[1m"),
			Info:         NewColor("\x1b[2m"),
			Spinner:      NewColor("\x1b[1m"),
			Cursor:       NewColor("\x1b[1m"),
			Current:      NewColor("\x1b[7m"),
			CurrentMatch: NewColor("\x1b[7m\x1b[4m"),
			Match:        NewColor("\x1b[4m"),
			Selected:     NewColor("\x1b[1m"),
			Muted:        NewColor("\x1b[2m"),
		},
	},
}

// Builtin returns the built-in theme with the given name.
func Builtin(name string) (*Theme, bool) {
	t, ok := builtins[name]
	return t, ok
}

// BuiltinNames returns the sorted names of all built-in themes.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
