package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorWhite   = "\033[97m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
	ColorReverse = "\033[7m"

	ClearScreen     = "\033[2J"
	ClearLine       = "\033[2K"
	ClearScrollback = "\033[3J"
	MoveCursorHome  = "\033[H"
	HideCursor      = "\033[?25l"
	ShowCursor      = "\033[?25h"
	EnterAltScreen  = "\033[?1049h"
	ExitAltScreen   = "\033[?1049l"
	DisableLineWrap = "\033[?7l"
	EnableLineWrap  = "\033[?7h"
)

// FgHex returns a truecolor foreground sequence for a #rgb or #rrggbb color.
// Anything else yields "".
func FgHex(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}

// BgHex returns a truecolor background sequence, or "".
func BgHex(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", r, g, b)
}

func parseHex(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

// GetDisplayWidth returns the terminal width of text.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads or truncates text to exactly width terminal cells.
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	w := runewidth.StringWidth(text)
	if w > width {
		return runewidth.Truncate(text, width, "")
	}
	return text + strings.Repeat(" ", width-w)
}

// CenterText centers text within width cells.
func CenterText(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-w-left)
}

// FormatHeaderTitle renders a header title in bold.
func FormatHeaderTitle(title string) string {
	return ColorBold + title + ColorReset
}

// MoveCursor returns the sequence that moves the cursor to a 1-based row and column.
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}
