// ABOUTME: Semantic color theme types for the finder UI: Color, Palette, Theme
// ABOUTME: Color.Apply wraps text in ANSI codes; Palette maps screen roles to colors

package theme

// Color represents a terminal color that can style text.
type Color struct {
	code string
}

// NewColor creates a Color from a raw ANSI escape code.
func NewColor(code string) Color {
	return Color{code: code}
}

// Apply wraps text with the ANSI color code and a reset suffix.
// If the color code is empty, the text is returned unchanged.
func (c Color) Apply(text string) string {
	if c.code == "" {
		return text
	}
	return c.code + text + "\x1b[0m"
}

// Code returns the raw ANSI escape code.
func (c Color) Code() string {
	return c.code
}

// Bold returns a new Color that prepends bold (\x1b[1m) to the code.
func (c Color) Bold() Color {
	return Color{code: "\x1b[1m" + c.code}
}

// Palette holds the colors for each part of the finder screen.
type Palette struct {
	Prompt       Color // prompt string before the query
	Query        Color // query text
	Info         Color // matched/total status line
	Spinner      Color // activity indicator while reading or matching
	Cursor       Color // ">" marker on the highlighted row
	Current      Color // highlighted row background
	CurrentMatch Color // matched characters on the highlighted row
	Match        Color // matched characters on other rows
	Selected     Color // marker on selected rows
	Muted        Color // secondary text
}

// Theme holds a named palette.
type Theme struct {
	Name    string
	Palette Palette
}

// DefaultPalette returns the 16-color palette used when no theme is configured.
func DefaultPalette() Palette {
	return Palette{
		Prompt:       NewColor("\x1b[34m"),
		Query:        NewColor("\x1b[1m"),
		Info:         NewColor("\x1b[33m"),
		Spinner:      NewColor("\x1b[1m\x1b[32m"),
		Cursor:       NewColor("\x1b[1m\x1b[31m"),
		Current:      NewColor("\x1b[1m\x1b[40m"),
		CurrentMatch: NewColor("\x1b[32m\x1b[40m"),
		Match:        NewColor("\x1b[32m"),
		Selected:     NewColor("\x1b[1m\x1b[35m"),
		Muted:        NewColor("\x1b[2m"),
	}
}
