package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/penwyp/go-vessel-trail/internal/core/filter"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/cache"
	"github.com/penwyp/go-vessel-trail/internal/data/provider"
	"github.com/penwyp/go-vessel-trail/internal/presentation/formatter"
	"github.com/penwyp/go-vessel-trail/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug    bool
	logLevel string
	logFile  string

	// Data feed; empty uses the embedded demo feed
	dataPath string

	// Parsed-feed cache
	cacheDir string
	reset    bool

	// Output related
	outputFormat string
	displayMode  string

	// Filter selection
	dateFrom  string
	dateTo    string
	companies []string
	vesselID  string
	hullJobs  []string

	// nowFunc anchors default criteria
	nowFunc = time.Now

	rootCmd = &cobra.Command{
		Use:   "go-vessel-trail [flags]",
		Short: "Vessel trail viewer colored by engine power",
		Long: `go-vessel-trail loads a vessel's position samples, builds the trail
colored by engine power and prints it.

Segments and markers are green below 50, orange below 100 and red from 100 on.
Without --data the embedded demo feed is used.

Examples:
  go-vessel-trail                                   # Table of the demo trail
  go-vessel-trail --data feed.json --output json    # Trail model as JSON
  go-vessel-trail -o geojson --mode dark            # GeoJSON FeatureCollection
  go-vessel-trail --company cmp1 --vessel "Vessel A" --from 2024-01-01
  go-vessel-trail top                               # Live trail map in the terminal
  go-vessel-trail serve --port 8080                 # Browser map with hover tooltips`,
		SilenceUsage: true,
		RunE:         runReport,
	}
)

const (
	defaultLogFile  = "~/.go-vessel-trail/logs/app.log"
	defaultCacheDir = "~/.go-vessel-trail/cache"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"Feed file or directory (empty uses the embedded demo feed)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultCacheDir,
		"Directory for parsed-feed snapshots (empty keeps them in memory)")
	rootCmd.PersistentFlags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before loading")
	rootCmd.PersistentFlags().StringVar(&displayMode, "mode", "light",
		"Display mode (light, dark)")

	// Filter selection
	rootCmd.PersistentFlags().StringVar(&dateFrom, "from", "",
		"Start date YYYY-MM-DD (default: five years ago)")
	rootCmd.PersistentFlags().StringVar(&dateTo, "to", "",
		"End date YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().StringSliceVar(&companies, "company", nil,
		"Company IDs (default: "+filter.DefaultCompanyID+")")
	rootCmd.PersistentFlags().StringVar(&vesselID, "vessel", "",
		"Vessel name; requires exactly one company")
	rootCmd.PersistentFlags().StringSliceVar(&hullJobs, "hull-job", nil,
		"Hull job codes or IDs (HI, PP, HC, PI, DD)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", model.FormatTable,
		"Output format (table, json, csv, summary, geojson, msgpack)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "",
		"Alias for --output")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	if err := initLogging(); err != nil {
		return err
	}

	f, err := formatter.New(outputFormat)
	if err != nil {
		return err
	}
	mode, err := model.ParseDisplayMode(displayMode)
	if err != nil {
		return err
	}
	criteria, err := criteriaFromFlags()
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	feedCache, err := openCache()
	if err != nil {
		return err
	}
	p := provider.New(util.ExpandPath(dataPath),
		provider.WithConcurrency(runtime.NumCPU()), provider.WithCache(feedCache))
	samples, err := p.Load(cmd.Context(), criteria)
	if err != nil {
		return err
	}
	util.LogInfof("Loaded %d samples from %s", len(samples), p.Source())

	return f.Format(cmd.OutOrStdout(), formatter.NewReport(p.Source(), criteria, samples, mode))
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

// initLogging installs the global logger. --debug lowers the level and
// mirrors log lines to stderr.
func initLogging() error {
	level := logLevel
	if debug {
		level = "debug"
	}
	path := util.ExpandPath(logFile)
	if path != "" {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(level, path, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// openCache opens the snapshot cache, clearing it first with --reset.
func openCache() (cache.Cache, error) {
	var c *cache.FeedCache
	if dir := util.ExpandPath(cacheDir); dir == "" {
		c = cache.NewMemoryCache()
	} else {
		var err error
		if c, err = cache.NewFileCache(dir); err != nil {
			return nil, err
		}
	}
	if reset {
		if err := c.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}
	return c, nil
}

// criteriaFromFlags validates the filter flags against the catalog.
func criteriaFromFlags() (filter.Criteria, error) {
	return filter.Parse(filter.Raw{
		From:     dateFrom,
		To:       dateTo,
		Company:  companies,
		Vessel:   vesselID,
		HullJobs: hullJobs,
	}, nowFunc())
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
