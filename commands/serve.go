package commands

import (
	"runtime"

	"github.com/penwyp/go-vessel-trail/internal/application/server"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/util"
	"github.com/spf13/cobra"
)

var (
	serveListen string
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the vessel trail map over HTTP",
	Long: `Starts an HTTP server with a browser map of the vessel trail.

Endpoints:
  GET /              map page; hovering a marker shows power and consumption
  GET /api/trail     trail model (format=json|msgpack|geojson)
  GET /api/hover     hover result for a pixel (x, y, width, height)
  GET /api/filters   filter catalog and defaults
  GET /healthz       liveness

Filters and mode are taken from the query string of each request
(from, to, company, vessel, hullJob, mode); --mode sets the default mode.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", server.DefaultListenAddr,
		"Listen address")
	serveCmd.Flags().IntVar(&servePort, "port", server.DefaultPort,
		"Listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	config, err := buildServeConfig()
	if err != nil {
		return err
	}
	srv, err := server.New(config)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	return srv.Run(ctx)
}

// buildServeConfig turns flags into a validated server configuration.
func buildServeConfig() (*server.Config, error) {
	mode, err := model.ParseDisplayMode(displayMode)
	if err != nil {
		return nil, err
	}
	feedCache, err := openCache()
	if err != nil {
		return nil, err
	}
	config := &server.Config{
		ListenAddr:  serveListen,
		Port:        servePort,
		DataPath:    util.ExpandPath(dataPath),
		Cache:       feedCache,
		Mode:        mode,
		Concurrency: runtime.NumCPU(),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
