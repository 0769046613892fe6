package layout

import (
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/maphost"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
)

// Layout styles selectable with the 't' key.
const (
	StyleFull = iota
	StyleMinimal
)

// Scene is what gets drawn in the map area.
type Scene struct {
	Canvas *maphost.Canvas
	Trail  *trail.Model
}

// LayoutParam carries everything besides the scene a layout needs.
type LayoutParam struct {
	Width     int
	Height    int
	State     model.InteractionState
	Tokens    theme.Tokens
	Criteria  string
	Source    string
	UpdatedAt time.Time
	Now       time.Time
	Hover     trail.HoverResult
	Tooltip   maphost.OverlayState
}

// LayoutStrategy defines the interface for different layout rendering strategies
type LayoutStrategy interface {
	// Render returns the screen content, one entry per terminal row.
	Render(scene Scene, param LayoutParam) []string
	// MapArea returns the map size in cells for a terminal of the given size.
	MapArea(width, height int) (cols, rows int)
	GetName() string
}

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleMinimal: &MinimalLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to full dashboard if invalid style
	return &FullLayoutStrategy{}
}
