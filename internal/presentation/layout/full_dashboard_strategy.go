package layout

import "github.com/penwyp/go-vessel-trail/internal/util"

// Rows used by the full layout around the map.
const fullChromeRows = 6

// FullLayoutStrategy shows header, filter line, map, legend and status bar.
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Dashboard"
}

func (s *FullLayoutStrategy) MapArea(width, height int) (int, int) {
	return max(width, 0), max(height-fullChromeRows, 0)
}

func (s *FullLayoutStrategy) Render(scene Scene, param LayoutParam) []string {
	cols, rows := s.MapArea(param.Width, param.Height)

	lines := make([]string, 0, param.Height)
	lines = append(lines,
		s.Title(param),
		util.PadRight("Filters: "+param.Criteria+" | "+param.Source, param.Width),
		s.SeparatorLine(param.Width),
	)
	lines = append(lines, s.MapLines(scene, param, cols, rows)...)
	lines = append(lines,
		s.SeparatorLine(param.Width),
		s.Legend()+"  "+s.TrailInfo(scene)+" | "+s.HoverInfo(param),
		s.StatusLine(param),
	)
	return lines
}
