package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/penwyp/go-vessel-trail/internal/application/top"
	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
	"github.com/penwyp/go-vessel-trail/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Display related flags
	topRefreshPerSecond float64
	topWidth            int
	topHeight           int
	topLayout           string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the vessel trail live in the terminal",
	Long: `Similar to Linux top command, draws the vessel trail in the terminal and
redraws it whenever the data feed changes.

Keys:
- Arrow keys move the pointer; hovering a marker shows power and consumption
- H/J/K/L pan, +/- zoom, c re-centers
- d toggles dark mode, t toggles the compact layout
- p pauses feed reloads, r reloads now, q quits`,
	SilenceUsage: true,
	RunE:         runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	// Display flags
	topCmd.Flags().Float64Var(&topRefreshPerSecond, "refresh-per-second", constants.DefaultUIRefreshRate,
		"Display refresh rate (0.1-20 Hz)")
	topCmd.Flags().IntVar(&topWidth, "width", 0,
		"Screen width override in columns (0 = terminal size)")
	topCmd.Flags().IntVar(&topHeight, "height", 0,
		"Screen height override in rows (0 = terminal size)")
	topCmd.Flags().StringVar(&topLayout, "layout", "full",
		"Layout (full, minimal)")
}

func runTop(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	config, err := buildTopConfig()
	if err != nil {
		return err
	}

	orchestrator, err := top.NewOrchestrator(config)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	return orchestrator.Run(ctx)
}

// buildTopConfig turns flags into a validated top configuration.
func buildTopConfig() (*top.TopConfig, error) {
	mode, err := model.ParseDisplayMode(displayMode)
	if err != nil {
		return nil, err
	}
	style, err := parseLayout(topLayout)
	if err != nil {
		return nil, err
	}
	criteria, err := criteriaFromFlags()
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	feedCache, err := openCache()
	if err != nil {
		return nil, err
	}

	config := &top.TopConfig{
		DataPath:      util.ExpandPath(dataPath),
		Cache:         feedCache,
		Criteria:      criteria,
		Mode:          mode,
		LayoutStyle:   style,
		Width:         topWidth,
		Height:        topHeight,
		UIRefreshRate: topRefreshPerSecond,
		Concurrency:   runtime.NumCPU(),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func parseLayout(s string) (int, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return layout.StyleFull, nil
	case "minimal":
		return layout.StyleMinimal, nil
	default:
		return 0, fmt.Errorf("invalid layout '%s': must be either 'full' or 'minimal'", s)
	}
}

// signalContext is the context a long-running command runs under.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
