package maphost

import (
	"sync"

	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
)

// Positioning values understood by hosts.
const (
	PositionBottomLeft = "bottom-left"
	PositionTopLeft    = "top-left"
)

// Overlay is a positioned element floating above the map, used for the hover tooltip.
type Overlay struct {
	Offset      [2]float64
	Positioning string

	mu       sync.RWMutex
	visible  bool
	content  string
	position model.Pixel
	attached bool
}

// OverlayState is a snapshot of an overlay.
type OverlayState struct {
	Visible  bool        `json:"visible"`
	Content  string      `json:"content,omitempty"`
	Position model.Pixel `json:"position"`
}

// NewTooltipOverlay creates the overlay used for hover tooltips.
func NewTooltipOverlay() *Overlay {
	return &Overlay{
		Offset:      [2]float64{constants.TooltipOffsetX, constants.TooltipOffsetY},
		Positioning: PositionBottomLeft,
	}
}

// Show displays content anchored at the pointer position plus the overlay offset.
func (o *Overlay) Show(content string, at model.Pixel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = true
	o.content = content
	o.position = model.Pixel{X: at.X + o.Offset[0], Y: at.Y + o.Offset[1]}
}

// Hide hides the overlay and drops its content.
func (o *Overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = false
	o.content = ""
}

// State returns the current overlay state.
func (o *Overlay) State() OverlayState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return OverlayState{Visible: o.visible, Content: o.content, Position: o.position}
}

func (o *Overlay) attach() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attached {
		return false
	}
	o.attached = true
	return true
}

func (o *Overlay) detach() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attached = false
	o.visible = false
	o.content = ""
}
