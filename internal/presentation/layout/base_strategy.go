package layout

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

// SeparatorLine creates a separator line
func (b *BaseStrategy) SeparatorLine(width int) string {
	return util.ColorDim + strings.Repeat("─", width) + util.ColorReset
}

// Title returns the header line: title on the left, clock on the right.
func (b *BaseStrategy) Title(param LayoutParam) string {
	left := fmt.Sprintf("🚢 %s  [%s]", model.AppTitle, param.State.Mode)
	right := param.Now.Format("15:04:05")
	gap := param.Width - util.GetDisplayWidth(left) - util.GetDisplayWidth(right)
	if gap < 1 {
		return util.FormatHeaderTitle(util.PadRight(left, param.Width))
	}
	return util.FormatHeaderTitle(left) + strings.Repeat(" ", gap) + right
}

// Legend lists the power buckets in their terminal colors.
func (b *BaseStrategy) Legend() string {
	return fmt.Sprintf("%s● <%.0f%s  %s● <%.0f%s  %s● ≥%.0f%s",
		ANSIColor(trail.ColorGreen), trail.MediumPowerThreshold, util.ColorReset,
		ANSIColor(trail.ColorOrange), trail.HighPowerThreshold, util.ColorReset,
		ANSIColor(trail.ColorRed), trail.HighPowerThreshold, util.ColorReset)
}

// TrailInfo summarises the mounted trail.
func (b *BaseStrategy) TrailInfo(scene Scene) string {
	m := scene.Trail
	if m.IsEmpty() {
		return "No samples"
	}
	info := fmt.Sprintf("%s markers, %s segments", util.FormatCount(len(m.Markers)), util.FormatCount(len(m.Segments)))
	if scene.Canvas != nil {
		info += fmt.Sprintf(" | zoom %.0f", scene.Canvas.Viewport().Zoom)
	}
	return info
}

// HoverInfo describes what is under the pointer.
func (b *BaseStrategy) HoverInfo(param LayoutParam) string {
	if !param.Hover.OK {
		return "Hover: -"
	}
	return fmt.Sprintf("Hover: power %s, consumption %s",
		util.FormatMetric(param.Hover.Power), util.FormatMetric(param.Hover.Consumption))
}

// StatusLine shows the pause flag, the status message and the data age.
func (b *BaseStrategy) StatusLine(param LayoutParam) string {
	parts := make([]string, 0, 3)
	if param.State.IsPaused {
		parts = append(parts, util.ColorYellow+"PAUSED"+util.ColorReset)
	}
	if param.State.StatusMessage != "" {
		parts = append(parts, param.State.StatusMessage)
	}
	if !param.UpdatedAt.IsZero() {
		parts = append(parts, "updated "+util.FormatAge(param.Now.Sub(param.UpdatedAt)))
	}
	parts = append(parts, "h help, q quit")
	return strings.Join(parts, " | ")
}

// MapLines rasterises the scene into cols x rows cells, including the pointer
// cell and the tooltip.
func (b *BaseStrategy) MapLines(scene Scene, param LayoutParam, cols, rows int) []string {
	g := NewGrid(cols, rows)
	g.DrawTrail(scene.Canvas, scene.Trail)
	g.DrawCursor(CellAt(param.State.Cursor))
	if param.Tooltip.Visible {
		col, row := CellAt(param.Tooltip.Position)
		g.DrawTooltip(col, row, strings.Split(param.Tooltip.Content, "\n"))
	}
	return g.Lines(util.BgHex(param.Tokens.MapBackground))
}
