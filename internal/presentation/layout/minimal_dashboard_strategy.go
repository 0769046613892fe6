package layout

import "fmt"

// MinimalLayoutStrategy gives the map the whole screen except one status line.
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Dashboard"
}

func (s *MinimalLayoutStrategy) MapArea(width, height int) (int, int) {
	return max(width, 0), max(height-1, 0)
}

func (s *MinimalLayoutStrategy) Render(scene Scene, param LayoutParam) []string {
	cols, rows := s.MapArea(param.Width, param.Height)
	lines := s.MapLines(scene, param, cols, rows)
	return append(lines, fmt.Sprintf("%s | %s | %s", s.Legend(), s.HoverInfo(param), s.StatusLine(param)))
}
