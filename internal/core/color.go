package core

// Color represents a foreground color for a screen cell.
// Mapped to ANSI codes by the terminal layer.
type Color uint8

// Colors used by the scene renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
)
