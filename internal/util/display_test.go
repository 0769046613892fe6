package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFgHex(t *testing.T) {
	assert.Equal(t, "\033[38;2;255;255;255m", FgHex("#fff"))
	assert.Equal(t, "\033[38;2;25;118;210m", FgHex("#1976d2"))
	assert.Equal(t, "\033[48;2;18;18;18m", BgHex("#121212"))
	assert.Equal(t, "", FgHex("green"))
	assert.Equal(t, "", FgHex("#zzzzzz"))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abc", PadRight("abcdef", 3))
	assert.Equal(t, "", PadRight("x", 0))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  hi  ", CenterText("hi", 6))
	assert.Equal(t, " hi  ", CenterText("hi", 5))
	assert.Equal(t, "he", CenterText("hello", 2))
}

func TestGetDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, GetDisplayWidth("hello"))
	assert.Equal(t, 4, GetDisplayWidth("船舶"))
}
