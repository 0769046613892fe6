package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
	"github.com/penwyp/go-vessel-trail/internal/testing/termscreen"
	"github.com/stretchr/testify/assert"
)

func testParam() layout.LayoutParam {
	return layout.LayoutParam{
		Width:    80,
		Height:   24,
		State:    model.InteractionState{Mode: model.ModeDark},
		Tokens:   theme.For(model.ModeDark),
		Criteria: "all companies",
		Source:   "feed.json",
		Now:      time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestAlternateScreen(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	screen := termscreen.New(24, 80)

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	screen.Write(out.Bytes())
	assert.True(t, screen.AltScreen())
	assert.False(t, screen.CursorVisible())
	assert.Equal(t, 1, strings.Count(out.String(), "\033[?1049h"))

	out.Reset()
	td.ExitAlternateScreen()
	td.ExitAlternateScreen()
	screen.Write(out.Bytes())
	assert.False(t, screen.AltScreen())
	assert.True(t, screen.CursorVisible())
}

func TestRenderDrawsFrame(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	td.RenderWithState(layout.Scene{}, testParam())

	screen := termscreen.Parse(out.String(), 24, 80)
	assert.Contains(t, screen.Line(0), "Vessel Tracker  [dark]")
	assert.Contains(t, screen.Line(1), "Filters: all companies | feed.json")
	assert.True(t, screen.Contains("No samples"))
}

func TestRenderOnlyRewritesChangedRows(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	param := testParam()
	td.RenderWithState(layout.Scene{}, param)

	out.Reset()
	td.RenderWithState(layout.Scene{}, param)
	assert.Empty(t, out.String(), "identical frame writes nothing")

	param.State.StatusMessage = "reloaded"
	td.RenderWithState(layout.Scene{}, param)
	assert.Equal(t, 1, strings.Count(out.String(), "\033[2K"))
	assert.Contains(t, out.String(), "\033[24;1H")
}

func TestRenderHelpAndBack(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	screen := termscreen.New(24, 80)
	param := testParam()

	td.RenderWithState(layout.Scene{}, param)
	param.State.ShowHelp = true
	td.RenderWithState(layout.Scene{}, param)
	screen.Write(out.Bytes())
	assert.Contains(t, screen.Line(0), "Vessel Tracker - Help")
	assert.True(t, screen.Contains("d            - Toggle light/dark mode"))
	assert.False(t, screen.Contains("Filters:"))

	param.State.ShowHelp = false
	out.Reset()
	td.RenderWithState(layout.Scene{}, param)
	screen.Write(out.Bytes())
	assert.False(t, screen.Contains("Keyboard Shortcuts"))
	assert.True(t, screen.Contains("Filters:"))
}

func TestRenderLoading(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	param := testParam()
	param.State.IsLoading = true

	td.RenderWithState(layout.Scene{}, param)
	screen := termscreen.Parse(out.String(), 24, 80)
	assert.True(t, screen.Contains("Loading data..."))
	assert.True(t, screen.Contains("Press 'q' to quit"))
}

func TestLayoutSwitchClears(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplay(&out)
	screen := termscreen.New(24, 80)
	param := testParam()

	td.RenderWithState(layout.Scene{}, param)
	param.State.LayoutStyle = layout.StyleMinimal
	td.RenderWithState(layout.Scene{}, param)
	screen.Write(out.Bytes())

	assert.NotContains(t, screen.Line(0), "Vessel Tracker")
	assert.Contains(t, screen.Line(23), "Hover: -")
}
