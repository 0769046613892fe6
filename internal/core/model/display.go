package model

import (
	"fmt"
	"strings"
)

// DisplayMode selects light or dark presentation of the base map.
type DisplayMode int

const (
	ModeLight DisplayMode = iota
	ModeDark
)

func (m DisplayMode) String() string {
	if m == ModeDark {
		return "dark"
	}
	return "light"
}

// Toggle returns the opposite mode.
func (m DisplayMode) Toggle() DisplayMode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// ParseDisplayMode parses "light" or "dark" (case-insensitive). Empty means light.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return ModeLight, nil
	case "dark":
		return ModeDark, nil
	default:
		return ModeLight, fmt.Errorf("invalid display mode '%s': must be either 'light' or 'dark'", s)
	}
}

// Pixel is a screen position relative to the top-left corner of a map viewport.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}

// ScreenMode tracks what the terminal display is currently showing
type ScreenMode int

const (
	ScreenNormal ScreenMode = iota
	ScreenLoading
	ScreenHelp
)

// InteractionState represents the current UI interaction state
type InteractionState struct {
	Mode          DisplayMode // single source of truth for light/dark
	ShowHelp      bool
	IsPaused      bool
	IsLoading     bool
	LayoutStyle   int // 0: Full, 1: Minimal
	Cursor        Pixel
	StatusMessage string
}

// MarshalText encodes the mode by name.
func (m DisplayMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *DisplayMode) UnmarshalText(text []byte) error {
	parsed, err := ParseDisplayMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
