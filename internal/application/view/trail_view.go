package view

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/penwyp/go-vessel-trail/internal/core/maphost"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
	"github.com/penwyp/go-vessel-trail/internal/presentation/tooltip"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// ErrSuperseded is returned by Render when a newer render started before this one finished.
var ErrSuperseded = errors.New("render superseded by a newer one")

// mount is everything acquired for one rendered trail.
type mount struct {
	mp      maphost.Map
	overlay *maphost.Overlay
	reg     maphost.Registration
	trail   *trail.Model
}

// release frees the registration, overlay and map, in that order,
// and keeps going when one of them fails.
func (m *mount) release() error {
	var errs []error
	if m.reg != nil {
		if err := m.reg.Unregister(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unregister pointer handler: %w", err))
		}
	}
	if m.overlay != nil && m.mp != nil {
		if err := m.mp.RemoveOverlay(m.overlay); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove overlay: %w", err))
		}
	}
	if m.mp != nil {
		if err := m.mp.Release(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release map: %w", err))
		}
	}
	return errors.Join(errs...)
}

// TrailView binds trail models to a map host. Every Render replaces the
// previous map, overlay and pointer handler; Unmount releases them.
type TrailView struct {
	id   string
	host maphost.Host

	mu         sync.Mutex
	generation uint64
	current    *mount
	onHover    func(trail.HoverResult)

	afterBuild func() // test hook, runs between build and mount
}

// Option customises a TrailView.
type Option func(*TrailView)

// WithHoverListener is called with every pointer-move result.
func WithHoverListener(fn func(trail.HoverResult)) Option {
	return func(v *TrailView) { v.onHover = fn }
}

// New creates an unmounted view on host.
func New(host maphost.Host, opts ...Option) *TrailView {
	v := &TrailView{
		id:   uuid.NewString(),
		host: host,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID identifies the view in logs.
func (v *TrailView) ID() string {
	return v.id
}

// Render builds the trail for samples and mounts it, replacing whatever was
// mounted before. If another Render starts meanwhile, the older one returns
// ErrSuperseded and leaves nothing behind.
func (v *TrailView) Render(samples []model.Sample, mode model.DisplayMode) (*trail.Model, error) {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.mu.Unlock()

	m := trail.Build(samples, mode)
	if v.afterBuild != nil {
		v.afterBuild()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		util.LogDebugf("View %s: render %d superseded by %d", v.id, gen, v.generation)
		return nil, ErrSuperseded
	}

	// Tear down first so a stale trail is never visible next to the new one.
	var teardownErr error
	if v.current != nil {
		teardownErr = v.current.release()
		v.current = nil
	}

	next, err := v.acquire(m)
	if err != nil {
		return nil, errors.Join(teardownErr, err)
	}
	v.current = next

	util.LogDebugf("View %s: mounted %d segments, %d markers (%s)", v.id, len(m.Segments), len(m.Markers), mode)
	if teardownErr != nil {
		return m, fmt.Errorf("previous trail released with errors: %w", teardownErr)
	}
	return m, nil
}

// acquire mounts map, overlay and handler for m. Anything already acquired
// is released again when a later step fails.
func (v *TrailView) acquire(m *trail.Model) (_ *mount, err error) {
	mt := &mount{trail: m}
	defer func() {
		if err != nil {
			err = errors.Join(err, mt.release())
		}
	}()

	mt.mp, err = v.host.CreateMap(m.View, theme.For(m.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to create map: %w", err)
	}
	if err = mt.mp.SetFeatures(m.Features()); err != nil {
		return nil, fmt.Errorf("failed to set features: %w", err)
	}

	overlay := maphost.NewTooltipOverlay()
	if err = mt.mp.AddOverlay(overlay); err != nil {
		return nil, fmt.Errorf("failed to add overlay: %w", err)
	}
	mt.overlay = overlay

	mp := mt.mp
	onHover := v.onHover
	mt.reg, err = mt.mp.OnPointerMove(func(p model.Pixel) trail.HoverResult {
		result := trail.QueryAt(m, mp, p)
		if result.OK {
			overlay.Show(tooltip.Format(result), p)
		} else {
			overlay.Hide()
		}
		if onHover != nil {
			onHover(result)
		}
		return result
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register pointer handler: %w", err)
	}

	return mt, nil
}

// Hover delivers a pointer-move at p to the mounted map.
func (v *TrailView) Hover(p model.Pixel) trail.HoverResult {
	v.mu.Lock()
	current := v.current
	v.mu.Unlock()
	if current == nil {
		return trail.NoHover
	}
	return current.mp.DispatchPointerMove(p)
}

// Map returns the mounted map, or nil.
func (v *TrailView) Map() maphost.Map {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil
	}
	return v.current.mp
}

// Model returns the mounted trail model, or nil.
func (v *TrailView) Model() *trail.Model {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil
	}
	return v.current.trail
}

// Tooltip returns the current tooltip overlay state.
func (v *TrailView) Tooltip() maphost.OverlayState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil || v.current.overlay == nil {
		return maphost.OverlayState{}
	}
	return v.current.overlay.State()
}

// Unmount releases map, overlay and pointer handler. It is safe to call repeatedly.
func (v *TrailView) Unmount() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	// Invalidate any render still building.
	v.generation++
	if v.current == nil {
		return nil
	}
	err := v.current.release()
	v.current = nil
	if err != nil {
		util.LogWarnf("View %s: unmount finished with errors: %v", v.id, err)
	}
	return err
}
