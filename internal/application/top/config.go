package top

import (
	"fmt"

	"github.com/penwyp/go-vessel-trail/internal/core/constants"
	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/cache"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
)

// TopConfig contains configuration for the top command
type TopConfig struct {
	// Feed file or directory; empty uses the embedded mock feed
	DataPath string
	Cache    cache.Cache // nil keeps parsed feeds in memory only

	// Filter selection applied to every load
	Criteria filter.Criteria

	// Display settings
	Mode        model.DisplayMode
	LayoutStyle int
	Width       int // 0 means use the terminal size
	Height      int

	// Refresh settings
	UIRefreshRate float64 // frames per second

	// Performance settings
	Concurrency int
}

// Validate fills defaults and rejects settings the live view cannot honor
func (c *TopConfig) Validate() error {
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = constants.DefaultUIRefreshRate
	}
	if c.UIRefreshRate < constants.MinUIRefreshRate || c.UIRefreshRate > constants.MaxUIRefreshRate {
		return fmt.Errorf("refresh rate %.2f out of range [%.1f, %.1f]",
			c.UIRefreshRate, constants.MinUIRefreshRate, constants.MaxUIRefreshRate)
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("width and height must be set together")
	}
	if c.Width != 0 && (c.Width < layout.MinTermWidth || c.Height < layout.MinTermHeight) {
		return fmt.Errorf("screen size %dx%d below minimum %dx%d",
			c.Width, c.Height, layout.MinTermWidth, layout.MinTermHeight)
	}
	if c.LayoutStyle != layout.StyleFull && c.LayoutStyle != layout.StyleMinimal {
		c.LayoutStyle = layout.StyleFull
	}
	if c.Criteria.DateTo.IsZero() {
		return fmt.Errorf("criteria not set")
	}
	if err := c.Criteria.Validate(); err != nil {
		return fmt.Errorf("invalid criteria: %w", err)
	}
	return nil
}
