package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-vessel-trail/internal/util"
	"golang.org/x/term"
)

// Fallback terminal size when stdout is not a terminal.
const (
	DefaultTermWidth  = 80
	DefaultTermHeight = 24
	MinTermWidth      = 40
	MinTermHeight     = 12
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

type Sizer struct {
}

// PadString pads a string to a specific display width, handling wide characters correctly
func (i Sizer) PadString(s string, width int, leftAlign bool) string {
	actualWidth := runewidth.StringWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// GetTerminalSize returns the terminal size, or the default size when it cannot be read.
func (i Sizer) GetTerminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		util.LogDebugf("GetTerminalSize fallback: %v", err)
		return DefaultTermWidth, DefaultTermHeight
	}
	return i.Clamp(width, height)
}

// Clamp enforces the minimum usable size.
func (i Sizer) Clamp(width, height int) (int, int) {
	return max(width, MinTermWidth), max(height, MinTermHeight)
}

// MapPixels converts a map area in cells to canvas pixels.
func (i Sizer) MapPixels(cols, rows int) (width, height int) {
	return cols * CellWidth, rows * CellHeight
}

// NewSizer returns the shared sizer.
func NewSizer() *Sizer {
	return sharedSizer
}
