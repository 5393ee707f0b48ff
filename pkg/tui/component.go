// ABOUTME: Core rendering contract: Component draws a full frame into a RenderBuffer
// ABOUTME: CursorMarker lets a component say where the terminal cursor belongs

package tui

// CursorMarker is a zero-width APC sequence that components embed in render
// output to mark the cursor position. Screen strips it and places the real
// terminal cursor there.
const CursorMarker = "\x1b_sk:c\x07"

// Component is anything Screen can draw.
type Component interface {
	// Render writes exactly height rows into out. Rows must not exceed
	// width visible columns.
	Render(out *RenderBuffer, width, height int)
}
