package top

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/application/view"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// RefreshController reloads samples and rebuilds the mounted trail
type RefreshController struct {
	loader DataSource
	state  *StateManager
	now    func() time.Time

	refreshMutex sync.Mutex // Prevent concurrent refreshes
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(loader DataSource, state *StateManager) *RefreshController {
	return &RefreshController{
		loader: loader,
		state:  state,
		now:    time.Now,
	}
}

// RefreshData loads fresh samples and renders them into v. When loading
// fails the previous samples and trail stay in place.
func (rc *RefreshController) RefreshData(ctx context.Context, v *view.TrailView) error {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	samples, err := rc.loader.Load(ctx)
	if err != nil {
		return err
	}
	rc.state.SetSamples(samples, rc.now())
	return rc.render(v, samples, rc.state.GetInteractionState().Mode)
}

// Rerender rebuilds the trail from the current samples, e.g. after a mode change
// or when the map area was resized.
func (rc *RefreshController) Rerender(v *view.TrailView) error {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	return rc.render(v, rc.state.GetSamples(), rc.state.GetInteractionState().Mode)
}

func (rc *RefreshController) render(v *view.TrailView, samples []model.Sample, mode model.DisplayMode) error {
	m, err := v.Render(samples, mode)
	if errors.Is(err, view.ErrSuperseded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to render trail: %w", err)
	}
	util.LogDebugf("Trail rebuilt: %d markers, mode %s", len(m.Markers), mode)
	return nil
}
