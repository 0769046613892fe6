package server

import (
	"fmt"

	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/data/cache"
)

// Defaults for the serve command.
const (
	DefaultListenAddr  = "127.0.0.1"
	DefaultPort        = 8080
	DefaultHoverWidth  = 800
	DefaultHoverHeight = 600
	MaxCanvasSide      = 8192
)

// Config contains configuration for the HTTP server
type Config struct {
	ListenAddr  string
	Port        int
	DataPath    string      // empty serves the embedded mock feed
	Cache       cache.Cache // nil keeps parsed feeds in memory only
	Mode        model.DisplayMode
	Concurrency int
}

// Validate fills defaults and checks the listen port
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	return nil
}

// Addr is the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddr, c.Port)
}
