package maphost

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// CanvasHost creates in-process canvases of a fixed pixel size.
type CanvasHost struct {
	width         int
	height        int
	tolerance     float64
	defaultCenter model.Position

	live atomic.Int64
}

// CanvasOption customises a CanvasHost.
type CanvasOption func(*CanvasHost)

// WithHitTolerance widens every hit area by the given number of pixels.
func WithHitTolerance(px float64) CanvasOption {
	return func(h *CanvasHost) { h.tolerance = px }
}

// WithDefaultCenter sets the center used when a trail suggests none.
func WithDefaultCenter(center model.Position) CanvasOption {
	return func(h *CanvasHost) { h.defaultCenter = center }
}

// NewCanvasHost creates a host whose maps are width x height pixels.
func NewCanvasHost(width, height int, opts ...CanvasOption) *CanvasHost {
	h := &CanvasHost{width: width, height: height}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateMap mounts a new canvas.
func (h *CanvasHost) CreateMap(view trail.View, tokens theme.Tokens) (Map, error) {
	center := h.defaultCenter
	if view.HasCenter {
		center = view.Center
	}
	c := &Canvas{
		host:      h,
		view:      NewViewport(center, view.Zoom, h.width, h.height),
		tokens:    tokens,
		tolerance: h.tolerance,
		handlers:  make(map[uint64]PointerMoveFunc),
	}
	h.live.Add(1)
	util.LogDebugf("Canvas created: %dx%d zoom=%.1f mode=%s", h.width, h.height, view.Zoom, tokens.Mode)
	return c, nil
}

// LiveMaps returns how many canvases are mounted and not yet released.
func (h *CanvasHost) LiveMaps() int {
	return int(h.live.Load())
}

type projectedFeature struct {
	feature trail.Feature
	a, b    Coordinate
}

// Canvas is a Map that lives in pixel space without painting anything itself.
// Renderers read its projected geometry; hover queries use its hit-testing.
type Canvas struct {
	host      *CanvasHost
	tolerance float64

	mu       sync.RWMutex
	view     Viewport
	tokens   theme.Tokens
	features []projectedFeature
	overlays []*Overlay
	handlers map[uint64]PointerMoveFunc
	order    []uint64
	nextID   uint64
	released bool
}

// SetFeatures replaces the drawn features, projecting their geometry once.
func (c *Canvas) SetFeatures(features []trail.Feature) error {
	projected := make([]projectedFeature, 0, len(features))
	for _, f := range features {
		switch v := f.(type) {
		case *trail.Marker:
			projected = append(projected, projectedFeature{feature: v, a: FromLonLat(v.At)})
		case *trail.Segment:
			projected = append(projected, projectedFeature{feature: v, a: FromLonLat(v.From), b: FromLonLat(v.To)})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	c.features = projected
	return nil
}

// AddOverlay attaches an overlay to this canvas.
func (c *Canvas) AddOverlay(o *Overlay) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ErrReleased
	}
	if !o.attach() {
		return ErrOverlayAttached
	}
	c.overlays = append(c.overlays, o)
	return nil
}

// RemoveOverlay detaches an overlay. Removing an unknown overlay is a no-op.
func (c *Canvas) RemoveOverlay(o *Overlay) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.overlays {
		if existing == o {
			c.overlays = append(c.overlays[:i], c.overlays[i+1:]...)
			o.detach()
			return nil
		}
	}
	return nil
}

// Overlays returns the attached overlays.
func (c *Canvas) Overlays() []*Overlay {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Overlay, len(c.overlays))
	copy(out, c.overlays)
	return out
}

type canvasRegistration struct {
	canvas *Canvas
	id     uint64
	once   sync.Once
}

func (r *canvasRegistration) Unregister() error {
	r.once.Do(func() {
		r.canvas.mu.Lock()
		defer r.canvas.mu.Unlock()
		delete(r.canvas.handlers, r.id)
		for i, id := range r.canvas.order {
			if id == r.id {
				r.canvas.order = append(r.canvas.order[:i], r.canvas.order[i+1:]...)
				break
			}
		}
	})
	return nil
}

// OnPointerMove registers a pointer-move handler.
func (c *Canvas) OnPointerMove(fn PointerMoveFunc) (Registration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, ErrReleased
	}
	c.nextID++
	c.handlers[c.nextID] = fn
	c.order = append(c.order, c.nextID)
	return &canvasRegistration{canvas: c, id: c.nextID}, nil
}

// HandlerCount returns the number of registered pointer-move handlers.
func (c *Canvas) HandlerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}

// DispatchPointerMove calls every handler in registration order and returns
// the last handler's result.
func (c *Canvas) DispatchPointerMove(p model.Pixel) trail.HoverResult {
	c.mu.RLock()
	if c.released {
		c.mu.RUnlock()
		return trail.NoHover
	}
	handlers := make([]PointerMoveFunc, 0, len(c.order))
	for _, id := range c.order {
		handlers = append(handlers, c.handlers[id])
	}
	c.mu.RUnlock()

	result := trail.NoHover
	for _, fn := range handlers {
		result = fn(p)
	}
	return result
}

// HitTest returns the topmost feature whose hit area contains p.
// A marker's hit area is its stroked circle; a segment's is its stroke.
func (c *Canvas) HitTest(p model.Pixel) (trail.Feature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.released {
		return nil, false
	}

	for i := len(c.features) - 1; i >= 0; i-- {
		pf := &c.features[i]
		switch f := pf.feature.(type) {
		case *trail.Marker:
			center := c.view.ToPixel(pf.a)
			if math.Hypot(p.X-center.X, p.Y-center.Y) <= f.Radius+f.StrokeWidth/2+c.tolerance {
				return f, true
			}
		case *trail.Segment:
			a := c.view.ToPixel(pf.a)
			b := c.view.ToPixel(pf.b)
			if distanceToSegment(p, a, b) <= f.StrokeWidth/2+c.tolerance {
				return f, true
			}
		}
	}
	return nil, false
}

// Project converts a geographic position to a pixel of the current view.
func (c *Canvas) Project(pos model.Position) model.Pixel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view.ToPixel(FromLonLat(pos))
}

// Viewport returns a copy of the current viewport.
func (c *Canvas) Viewport() Viewport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Tokens returns the theme the canvas was mounted with.
func (c *Canvas) Tokens() theme.Tokens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// Pan moves the view by a pixel offset.
func (c *Canvas) Pan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Pan(dx, dy)
}

// ZoomBy changes the zoom level by delta.
func (c *Canvas) ZoomBy(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SetZoom(c.view.Zoom + delta)
}

// Released reports whether Release has been called.
func (c *Canvas) Released() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.released
}

// Release drops features, overlays and handlers.
func (c *Canvas) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil
	}
	c.released = true
	for _, o := range c.overlays {
		o.detach()
	}
	c.overlays = nil
	c.features = nil
	c.handlers = map[uint64]PointerMoveFunc{}
	c.order = nil
	c.host.live.Add(-1)
	return nil
}

// distanceToSegment returns the distance from p to the segment ab.
func distanceToSegment(p, a, b model.Pixel) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
