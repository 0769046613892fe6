package top

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/application/view"
	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/maphost"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/core/theme"
	"github.com/penwyp/go-vessel-trail/internal/data/watcher"
	"github.com/penwyp/go-vessel-trail/internal/presentation/display"
	"github.com/penwyp/go-vessel-trail/internal/presentation/interaction"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// Pan step in cells for H/J/K/L.
const panCells = 4

// Orchestrator coordinates all components for the top command
type Orchestrator struct {
	config *TopConfig

	// Core components
	dataLoader   DataSource
	refreshCtrl  *RefreshController
	stateManager *StateManager

	// Map components, rebuilt when the map area changes size
	view     *view.TrailView
	mapCols  int
	mapRows  int
	termSize func() (int, int)

	// UI components
	display  DisplayController
	keyboard InputHandler

	// Monitoring
	watcher FileMonitor

	now func() time.Time
}

// Option customises an Orchestrator, mostly for tests.
type Option func(*Orchestrator)

// WithDisplay replaces the terminal display.
func WithDisplay(d DisplayController) Option {
	return func(o *Orchestrator) { o.display = d }
}

// WithInput replaces the raw-mode keyboard reader.
func WithInput(in InputHandler) Option {
	return func(o *Orchestrator) { o.keyboard = in }
}

// WithFileMonitor replaces the feed watcher.
func WithFileMonitor(fm FileMonitor) Option {
	return func(o *Orchestrator) { o.watcher = fm }
}

// WithDataSource replaces the provider-backed loader.
func WithDataSource(ds DataSource) Option {
	return func(o *Orchestrator) { o.dataLoader = ds }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *TopConfig, opts ...Option) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &Orchestrator{
		config:       config,
		stateManager: NewStateManager(config.Mode, config.LayoutStyle),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.dataLoader == nil {
		o.dataLoader = NewDataLoader(config)
	}
	if o.display == nil {
		o.display = display.NewTerminalDisplay(os.Stdout)
	}
	if config.Width > 0 {
		w, h := config.Width, config.Height
		o.termSize = func() (int, int) { return w, h }
	} else {
		o.termSize = layout.NewSizer().GetTerminalSize
	}
	o.refreshCtrl = NewRefreshController(o.dataLoader, o.stateManager)
	o.refreshCtrl.now = o.now
	return o, nil
}

// Run starts the orchestrator main loop
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting Vessel Tracker top...")
	defer o.Close()

	if o.keyboard == nil {
		keyboard, err := interaction.NewKeyboardReader()
		if err != nil {
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
		o.keyboard = keyboard
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	o.stateManager.SetLoadingState(true, "Loading "+o.dataLoader.Source()+"...")
	o.updateDisplay()

	o.ensureView()
	if err := o.refreshCtrl.RefreshData(ctx, o.view); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	o.stateManager.SetLoadingState(false, "")
	o.centerCursor()
	o.hover()

	if err := o.startWatcher(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	uiTicker := time.NewTicker(time.Duration(float64(time.Second) / o.config.UIRefreshRate))
	defer uiTicker.Stop()

	o.updateDisplay()

	var fileEvents <-chan model.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down Vessel Tracker top...")
			return nil

		case <-uiTicker.C:
			if o.ensureView() {
				o.rerender()
			}
			o.updateDisplay()

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			if !o.stateManager.GetInteractionState().IsPaused {
				o.handleFileChange(ctx, event)
				o.updateDisplay()
			}

		case keyEvent, ok := <-o.keyboard.Events():
			if !ok {
				return nil
			}
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

// ensureView (re)creates the canvas host and trail view when the map area
// changed size. It reports whether a new view was created.
func (o *Orchestrator) ensureView() bool {
	width, height := o.termSize()
	style := o.stateManager.GetInteractionState().LayoutStyle
	cols, rows := layout.GetLayoutStrategy(style).MapArea(width, height)
	if o.view != nil && cols == o.mapCols && rows == o.mapRows {
		return false
	}

	if o.view != nil {
		if err := o.view.Unmount(); err != nil {
			util.LogWarnf("Failed to unmount view: %v", err)
		}
		o.display.Resize()
	}
	pxWidth, pxHeight := layout.NewSizer().MapPixels(cols, rows)
	host := maphost.NewCanvasHost(pxWidth, pxHeight, maphost.WithHitTolerance(layout.CellHeight/2))
	o.view = view.New(host, view.WithHoverListener(o.stateManager.SetHover))
	o.mapCols, o.mapRows = cols, rows
	util.LogDebugf("Map area %dx%d cells (%dx%d px), view %s", cols, rows, pxWidth, pxHeight, o.view.ID())

	o.clampCursor()
	return true
}

func (o *Orchestrator) canvas() *maphost.Canvas {
	if o.view == nil {
		return nil
	}
	c, _ := o.view.Map().(*maphost.Canvas)
	return c
}

func (o *Orchestrator) rerender() {
	if err := o.refreshCtrl.Rerender(o.view); err != nil {
		util.LogErrorf("Failed to rebuild trail: %v", err)
		o.setStatus("render failed: " + err.Error())
	}
	o.hover()
}

// hover queries the map at the cursor cell.
func (o *Orchestrator) hover() {
	if o.view == nil {
		return
	}
	cursor := o.stateManager.GetInteractionState().Cursor
	o.view.Hover(cursor)
}

func (o *Orchestrator) centerCursor() {
	p := layout.CellCenter(o.mapCols/2, o.mapRows/2)
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.Cursor = p })
}

func (o *Orchestrator) clampCursor() {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		col, row := layout.CellAt(s.Cursor)
		col = min(max(col, 0), max(o.mapCols-1, 0))
		row = min(max(row, 0), max(o.mapRows-1, 0))
		s.Cursor = layout.CellCenter(col, row)
	})
}

func (o *Orchestrator) moveCursor(dCol, dRow int) {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		col, row := layout.CellAt(s.Cursor)
		s.Cursor = layout.CellCenter(col+dCol, row+dRow)
	})
	o.clampCursor()
	o.hover()
}

func (o *Orchestrator) setStatus(msg string) {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.StatusMessage = msg })
}

// updateDisplay updates the terminal display
func (o *Orchestrator) updateDisplay() {
	width, height := o.termSize()
	isLoading, loadingMessage := o.stateManager.GetLoadingState()
	state := o.stateManager.GetInteractionState()
	state.IsLoading = isLoading
	if isLoading {
		state.StatusMessage = loadingMessage
	}

	param := layout.LayoutParam{
		Width:     width,
		Height:    height,
		State:     state,
		Tokens:    theme.For(state.Mode),
		Criteria:  o.config.Criteria.String(),
		Source:    o.dataLoader.Source(),
		UpdatedAt: o.stateManager.GetLastDataUpdate(),
		Now:       o.now(),
		Hover:     o.stateManager.GetHover(),
	}
	scene := layout.Scene{}
	if o.view != nil {
		param.Tooltip = o.view.Tooltip()
		scene.Canvas = o.canvas()
		scene.Trail = o.view.Model()
	}
	o.display.RenderWithState(scene, param)
}

// refreshData reloads the feed and keeps the last good trail on failure
func (o *Orchestrator) refreshData(ctx context.Context) {
	if err := o.refreshCtrl.RefreshData(ctx, o.view); err != nil {
		util.LogErrorf("Failed to refresh data: %v", err)
		o.setStatus("reload failed, showing last good trail")
		return
	}
	o.setStatus(fmt.Sprintf("reloaded %d samples", len(o.stateManager.GetSamples())))
	o.hover()
}

// handleKeyboard handles keyboard events. It returns true when the user asked to quit.
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	state := o.stateManager.GetInteractionState()

	switch event.Type {
	case interaction.KeyEscape:
		if state.ShowHelp {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.ShowHelp = false })
			return false
		}
		return true
	case interaction.KeyUp:
		o.moveCursor(0, -1)
	case interaction.KeyDown:
		o.moveCursor(0, 1)
	case interaction.KeyLeft:
		o.moveCursor(-1, 0)
	case interaction.KeyRight:
		o.moveCursor(1, 0)
	case interaction.KeyChar:
		return o.handleChar(ctx, event.Key)
	}
	return false
}

func (o *Orchestrator) handleChar(ctx context.Context, key rune) bool {
	switch key {
	case 'q', 'Q', interaction.CtrlC:
		return true
	case 'h':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.ShowHelp = !s.ShowHelp })
	case 'd', 'D':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.Mode = s.Mode.Toggle() })
		o.rerender()
	case 't', 'T':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.LayoutStyle = (s.LayoutStyle + 1) % 2
		})
		if o.ensureView() {
			o.rerender()
		}
	case 'p', 'P':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) { s.IsPaused = !s.IsPaused })
	case 'r', 'R':
		o.refreshData(ctx)
	case 'c', 'C':
		o.rerender()
		o.centerCursor()
		o.hover()
	case '+', '=':
		o.zoom(1)
	case '-', '_':
		o.zoom(-1)
	case 'H':
		o.pan(-panCells*layout.CellWidth, 0)
	case 'L':
		o.pan(panCells*layout.CellWidth, 0)
	case 'K':
		o.pan(0, -panCells*layout.CellHeight)
	case 'J':
		o.pan(0, panCells*layout.CellHeight)
	}
	return false
}

func (o *Orchestrator) zoom(delta float64) {
	if c := o.canvas(); c != nil {
		c.ZoomBy(delta)
		o.hover()
	}
}

func (o *Orchestrator) pan(dx, dy float64) {
	if c := o.canvas(); c != nil {
		c.Pan(dx, dy)
		o.hover()
	}
}

// startWatcher initializes the feed watcher when the data comes from disk
func (o *Orchestrator) startWatcher() error {
	if o.watcher != nil || o.config.DataPath == "" {
		return nil
	}
	fw, err := watcher.NewFeedWatcher(util.ExpandPath(o.config.DataPath), constants.FeedDebounceInterval)
	if err != nil {
		return err
	}
	o.watcher = fw
	return nil
}

// handleFileChange reloads the feed after a change on disk
func (o *Orchestrator) handleFileChange(ctx context.Context, event model.FileEvent) {
	util.LogDebugf("Feed changed: %s (%s)", event.Path, event.Operation)
	o.refreshData(ctx)
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	var firstErr error
	if o.view != nil {
		if err := o.view.Unmount(); err != nil {
			firstErr = fmt.Errorf("failed to unmount view: %w", err)
		}
	}
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	if o.keyboard != nil {
		if err := o.keyboard.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close keyboard: %w", err)
		}
	}
	return firstErr
}
