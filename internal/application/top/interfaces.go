package top

import (
	"context"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/presentation/interaction"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
)

// DataSource supplies the filtered sample sequence
type DataSource interface {
	// Load returns the samples for the configured criteria
	Load(ctx context.Context) ([]model.Sample, error)
	// Source names where the samples come from
	Source() string
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// RenderWithState draws one frame
	RenderWithState(scene layout.Scene, param layout.LayoutParam)
	// Resize forces a full redraw on the next frame
	Resize()
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}
