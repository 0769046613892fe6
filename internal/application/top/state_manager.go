package top

import (
	"sync"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/trail"
)

// StateManager manages application state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	// Sample state
	samples         []model.Sample
	previousSamples []model.Sample // last good samples while a reload runs
	hasSamples      bool

	// Loading state
	isLoading      bool
	loadingMessage string

	// Interaction state
	interactionState model.InteractionState
	hover            trail.HoverResult

	// Metadata
	lastDataUpdate time.Time
}

// NewStateManager creates a new StateManager instance
func NewStateManager(mode model.DisplayMode, layoutStyle int) *StateManager {
	return &StateManager{
		interactionState: model.InteractionState{Mode: mode, LayoutStyle: layoutStyle},
	}
}

// GetSamples returns the current samples (thread-safe)
func (sm *StateManager) GetSamples() []model.Sample {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	samples := make([]model.Sample, len(sm.samples))
	copy(samples, sm.samples)
	return samples
}

// SetSamples replaces the samples. The old set is kept as the previous buffer.
func (sm *StateManager) SetSamples(samples []model.Sample, at time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.hasSamples {
		sm.previousSamples = sm.samples
	}
	sm.samples = samples
	sm.hasSamples = true
	sm.lastDataUpdate = at
}

// GetPreviousSamples returns the samples before the last SetSamples
func (sm *StateManager) GetPreviousSamples() []model.Sample {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	samples := make([]model.Sample, len(sm.previousSamples))
	copy(samples, sm.previousSamples)
	return samples
}

// HasSamples reports whether any load has succeeded yet
func (sm *StateManager) HasSamples() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.hasSamples
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetInteractionState returns current interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.interactionState
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.interactionState)
}

// GetHover returns the last hover result
func (sm *StateManager) GetHover() trail.HoverResult {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.hover
}

// SetHover stores the last hover result
func (sm *StateManager) SetHover(r trail.HoverResult) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.hover = r
}

// GetLastDataUpdate returns the time of the last successful load
func (sm *StateManager) GetLastDataUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastDataUpdate
}
