package commands

import (
	"testing"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/presentation/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
	}{
		{"refresh-per-second", "4"},
		{"width", "0"},
		{"height", "0"},
		{"layout", "full"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := topCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
}

func TestBuildTopConfig(t *testing.T) {
	resetFlags(t)
	defer resetFlags(t)

	displayMode = "dark"
	topLayout = "minimal"
	topWidth, topHeight = 100, 30
	dataPath = "/tmp/feed.json"

	config, err := buildTopConfig()
	require.NoError(t, err)
	assert.Equal(t, model.ModeDark, config.Mode)
	assert.Equal(t, layout.StyleMinimal, config.LayoutStyle)
	assert.Equal(t, 100, config.Width)
	assert.Equal(t, 30, config.Height)
	assert.Equal(t, 4.0, config.UIRefreshRate)
	assert.Equal(t, "/tmp/feed.json", config.DataPath)
	assert.False(t, config.Criteria.DateTo.IsZero())
	assert.Positive(t, config.Concurrency)
}

func TestBuildTopConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		errorMsg string
	}{
		{
			name:     "invalid layout",
			setup:    func() { topLayout = "wide" },
			errorMsg: "invalid layout 'wide': must be either 'full' or 'minimal'",
		},
		{
			name:     "refresh rate too high",
			setup:    func() { topRefreshPerSecond = 50 },
			errorMsg: "refresh rate",
		},
		{
			name:     "width without height",
			setup:    func() { topWidth = 100 },
			errorMsg: "width and height must be set together",
		},
		{
			name:     "screen too small",
			setup:    func() { topWidth, topHeight = 20, 5 },
			errorMsg: "below minimum",
		},
		{
			name:     "invalid mode",
			setup:    func() { displayMode = "sepia" },
			errorMsg: "invalid display mode",
		},
		{
			name:     "invalid filter",
			setup:    func() { companies = []string{"zzz"} },
			errorMsg: "invalid filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			defer resetFlags(t)
			tt.setup()

			_, err := buildTopConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestParseLayout(t *testing.T) {
	style, err := parseLayout("")
	require.NoError(t, err)
	assert.Equal(t, layout.StyleFull, style)

	style, err = parseLayout("Minimal")
	require.NoError(t, err)
	assert.Equal(t, layout.StyleMinimal, style)
}
