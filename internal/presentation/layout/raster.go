package layout

import (
	"math"
	"strings"

	"github.com/penwyp/go-vessel-trail/internal/core/maphost"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// Size of one terminal cell in canvas pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Glyphs used on the map.
const (
	GlyphEmpty   = ' '
	GlyphSegment = '·'
	GlyphMarker  = '●'
	GlyphCursor  = '+'
)

type cell struct {
	r     rune
	color string
	style string
}

// Grid is a character raster of the map area.
type Grid struct {
	cols, rows int
	cells      []cell
}

// NewGrid creates an empty grid.
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i].r = GlyphEmpty
	}
	return g
}

// Size returns columns and rows.
func (g *Grid) Size() (int, int) { return g.cols, g.rows }

func (g *Grid) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return nil
	}
	return &g.cells[row*g.cols+col]
}

// Rune returns the glyph at a cell, or 0 outside the grid.
func (g *Grid) Rune(col, row int) rune {
	if c := g.at(col, row); c != nil {
		return c.r
	}
	return 0
}

// CellAt maps a canvas pixel to its cell.
func CellAt(p model.Pixel) (col, row int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// CellCenter is the canvas pixel at the middle of a cell.
func CellCenter(col, row int) model.Pixel {
	return model.Pixel{
		X: float64(col)*CellWidth + CellWidth/2,
		Y: float64(row)*CellHeight + CellHeight/2,
	}
}

// DrawTrail rasterises the trail features in draw order, so markers end up
// above every segment.
func (g *Grid) DrawTrail(canvas *maphost.Canvas, m *trail.Model) {
	if canvas == nil {
		return
	}
	for _, f := range m.Features() {
		switch v := f.(type) {
		case *trail.Segment:
			g.drawLine(canvas.Project(v.From), canvas.Project(v.To), ANSIColor(v.StrokeColor))
		case *trail.Marker:
			col, row := CellAt(canvas.Project(v.At))
			if c := g.at(col, row); c != nil {
				*c = cell{r: GlyphMarker, color: ANSIColor(v.FillColor)}
			}
		}
	}
}

func (g *Grid) drawLine(a, b model.Pixel, color string) {
	dx := math.Abs(b.X-a.X) / CellWidth
	dy := math.Abs(b.Y-a.Y) / CellHeight
	steps := int(math.Ceil(math.Max(dx, dy)*2)) + 1
	if steps > 4*(g.cols+g.rows) {
		steps = 4 * (g.cols + g.rows)
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col, row := CellAt(model.Pixel{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)})
		if c := g.at(col, row); c != nil && c.r != GlyphMarker {
			*c = cell{r: GlyphSegment, color: color}
		}
	}
}

// DrawCursor highlights the pointer cell.
func (g *Grid) DrawCursor(col, row int) {
	c := g.at(col, row)
	if c == nil {
		return
	}
	if c.r == GlyphEmpty {
		c.r = GlyphCursor
	}
	c.style = util.ColorReverse
}

// DrawTooltip writes a boxed tooltip with its top-left corner at the given cell,
// shifted left or up as needed to stay inside the grid.
func (g *Grid) DrawTooltip(col, row int, lines []string) {
	if len(lines) == 0 {
		return
	}
	inner := 0
	for _, l := range lines {
		if w := util.GetDisplayWidth(l); w > inner {
			inner = w
		}
	}
	width, height := inner+4, len(lines)+2
	if col+width > g.cols {
		col = g.cols - width
	}
	if row+height > g.rows {
		row = g.rows - height
	}
	col, row = max(col, 0), max(row, 0)

	box := make([]string, 0, height)
	box = append(box, "┌"+strings.Repeat("─", inner+2)+"┐")
	for _, l := range lines {
		box = append(box, "│ "+util.PadRight(l, inner)+" │")
	}
	box = append(box, "└"+strings.Repeat("─", inner+2)+"┘")

	for i, text := range box {
		x := col
		for _, r := range text {
			if c := g.at(x, row+i); c != nil {
				*c = cell{r: r, style: util.ColorBold}
			}
			x++
		}
	}
}

// Lines renders the grid rows with ANSI colors. background is a full escape
// sequence, or "" for the terminal default.
func (g *Grid) Lines(background string) []string {
	lines := make([]string, g.rows)
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		b.Reset()
		b.WriteString(background)
		for col := 0; col < g.cols; col++ {
			c := g.cells[row*g.cols+col]
			if c.color == "" && c.style == "" {
				b.WriteRune(c.r)
				continue
			}
			b.WriteString(c.style)
			b.WriteString(c.color)
			b.WriteRune(c.r)
			b.WriteString(util.ColorReset)
			b.WriteString(background)
		}
		b.WriteString(util.ColorReset)
		lines[row] = b.String()
	}
	return lines
}

// PlainLines renders the grid without escape sequences.
func (g *Grid) PlainLines() []string {
	lines := make([]string, g.rows)
	for row := 0; row < g.rows; row++ {
		rs := make([]rune, g.cols)
		for col := range rs {
			rs[col] = g.cells[row*g.cols+col].r
		}
		lines[row] = string(rs)
	}
	return lines
}

// ANSIColor maps trail colors to terminal colors.
func ANSIColor(c trail.Color) string {
	switch c {
	case trail.ColorGreen:
		return util.ColorGreen
	case trail.ColorOrange:
		return "\033[38;5;208m"
	case trail.ColorRed:
		return util.ColorRed
	case trail.ColorWhite:
		return util.ColorWhite
	default:
		return util.FgHex(string(c))
	}
}
