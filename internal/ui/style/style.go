// Package style holds the colors and icons shared by the logger and renderers.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Moss   = lipgloss.Color("#4E9A06")
	Stone  = lipgloss.Color("#7A8290")
	Chalk  = lipgloss.Color("#F4F4F0")
	Basalt = lipgloss.Color("#15171C")
	Ochre  = lipgloss.Color("#D9A21B")
	Rust   = lipgloss.Color("#C4452D")
	Lapis  = lipgloss.Color("#3B6FD8")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)
