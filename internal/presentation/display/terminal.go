package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

var loadingChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// TerminalDisplay draws frames to a terminal, rewriting only the rows that
// changed since the previous frame.
type TerminalDisplay struct {
	out               io.Writer
	inAlternateScreen bool
	lastLayoutStyle   int
	previousScreen    []string
	isFirstRender     bool
	currentScreen     model.ScreenMode
}

func NewTerminalDisplay(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		out:           out,
		isFirstRender: true,
		currentScreen: model.ScreenNormal,
	}
}

func (td *TerminalDisplay) write(s string) {
	if _, err := io.WriteString(td.out, s); err != nil {
		util.LogDebugf("Terminal write failed: %v", err)
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	td.write(util.EnterAltScreen + util.ClearScreen + util.ClearScrollback +
		util.HideCursor + util.DisableLineWrap + util.MoveCursorHome)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	td.write(util.ClearScreen + util.MoveCursorHome + util.EnableLineWrap +
		util.ShowCursor + util.ExitAltScreen)
	td.inAlternateScreen = false
}

// ClearForTransition wipes the screen and forgets the previous frame.
func (td *TerminalDisplay) ClearForTransition() {
	td.write(util.ClearScreen + util.MoveCursorHome)
	td.previousScreen = nil
}

// determineScreen picks what to show. Help wins over loading.
func (td *TerminalDisplay) determineScreen(state model.InteractionState) model.ScreenMode {
	if state.ShowHelp {
		return model.ScreenHelp
	}
	if state.IsLoading {
		return model.ScreenLoading
	}
	return model.ScreenNormal
}

// RenderWithState draws one frame for the given scene.
func (td *TerminalDisplay) RenderWithState(scene layout.Scene, param layout.LayoutParam) {
	screen := td.determineScreen(param.State)

	if td.isFirstRender || screen != td.currentScreen || td.lastLayoutStyle != param.State.LayoutStyle {
		td.ClearForTransition()
		td.isFirstRender = false
		td.currentScreen = screen
		td.lastLayoutStyle = param.State.LayoutStyle
	}

	var lines []string
	switch screen {
	case model.ScreenHelp:
		lines = td.helpLines(param.Width)
	case model.ScreenLoading:
		lines = td.loadingLines(param)
	default:
		lines = layout.GetLayoutStrategy(param.State.LayoutStyle).Render(scene, param)
	}
	td.smartRender(lines)
}

// Resize forces the next frame to be drawn from scratch.
func (td *TerminalDisplay) Resize() {
	td.isFirstRender = true
}

// smartRender writes the rows that differ from the previous frame and blanks
// rows the new frame no longer uses.
func (td *TerminalDisplay) smartRender(lines []string) {
	var b strings.Builder
	for i, line := range lines {
		if i < len(td.previousScreen) && td.previousScreen[i] == line {
			continue
		}
		b.WriteString(util.MoveCursor(i+1, 1))
		b.WriteString(util.ClearLine)
		b.WriteString(line)
	}
	for i := len(lines); i < len(td.previousScreen); i++ {
		b.WriteString(util.MoveCursor(i+1, 1))
		b.WriteString(util.ClearLine)
	}
	if b.Len() > 0 {
		td.write(b.String())
	}
	td.previousScreen = append(td.previousScreen[:0], lines...)
}

func (td *TerminalDisplay) helpLines(width int) []string {
	rule := strings.Repeat("═", max(width, 20))
	return []string{
		util.FormatHeaderTitle(model.AppTitle + " - Help"),
		rule,
		"",
		"Keyboard Shortcuts:",
		"",
		"  q/Esc/Ctrl+C - Quit the program",
		"  arrows       - Move the pointer over the map",
		"  H/J/K/L      - Pan the map",
		"  +/-          - Zoom in/out",
		"  c            - Center on the first sample",
		"  d            - Toggle light/dark mode",
		"  r            - Reload the data feed",
		"  t            - Change layout style (Full → Minimal)",
		"  p            - Pause/unpause reloading",
		"  h            - Show this help",
		"",
		"Power Colors:",
		fmt.Sprintf("  %s●%s Green  - below %.0f", layout.ANSIColor(trail.ColorGreen), util.ColorReset, trail.MediumPowerThreshold),
		fmt.Sprintf("  %s●%s Orange - %.0f to %.0f", layout.ANSIColor(trail.ColorOrange), util.ColorReset,
			trail.MediumPowerThreshold, trail.HighPowerThreshold),
		fmt.Sprintf("  %s●%s Red    - %.0f and above", layout.ANSIColor(trail.ColorRed), util.ColorReset, trail.HighPowerThreshold),
		"",
		rule,
		"Press 'h' to return...",
	}
}

func (td *TerminalDisplay) loadingLines(param layout.LayoutParam) []string {
	const boxWidth = 50
	message := param.State.StatusMessage
	if message == "" {
		message = "Loading data..."
	}
	spinner := loadingChars[int(param.Now.Unix())%len(loadingChars)]
	pad := strings.Repeat(" ", max((param.Width-boxWidth)/2, 0))

	lines := make([]string, max(param.Height/2-4, 0))
	row := func(text string) string {
		return pad + "║" + util.CenterText(text, boxWidth-2) + "║"
	}
	return append(lines,
		pad+"╔"+strings.Repeat("═", boxWidth-2)+"╗",
		row(model.AppTitle),
		pad+"╠"+strings.Repeat("═", boxWidth-2)+"╣",
		row(""),
		row(spinner+" "+message),
		row(""),
		row("Press 'q' to quit"),
		pad+"╚"+strings.Repeat("═", boxWidth-2)+"╝",
	)
}
