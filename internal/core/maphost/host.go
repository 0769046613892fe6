// Package maphost defines what the trail needs from a map widget and ships an
// in-process pixel-space implementation used by the terminal and HTTP surfaces.
package maphost

import (
	"errors"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
)

var (
	// ErrReleased is returned by every Map operation after Release.
	ErrReleased = errors.New("map has been released")
	// ErrOverlayAttached is returned when an overlay is added to a second map.
	ErrOverlayAttached = errors.New("overlay is already attached to a map")
)

// PointerMoveFunc handles one pointer-move event and reports what is under the pointer.
type PointerMoveFunc func(p model.Pixel) trail.HoverResult

// Registration is a live pointer-move subscription.
type Registration interface {
	Unregister() error
}

// Map is one mounted map widget instance.
type Map interface {
	trail.HitTester

	// SetFeatures replaces everything drawn on the vector layer.
	SetFeatures(features []trail.Feature) error
	AddOverlay(o *Overlay) error
	RemoveOverlay(o *Overlay) error
	OnPointerMove(fn PointerMoveFunc) (Registration, error)
	// DispatchPointerMove delivers a pointer-move event to every registered handler.
	DispatchPointerMove(p model.Pixel) trail.HoverResult
	// Release frees the widget. It is safe to call more than once.
	Release() error
}

// Host creates map widgets. When view has no center the host picks its own default.
type Host interface {
	CreateMap(view trail.View, tokens theme.Tokens) (Map, error)
}
