// Package cli implements the sunburst command-line interface.
//
// Commands load a capacity tree (from the report API by container id, or
// from a local JSON/YAML export), then render it, print its summaries,
// browse it interactively, or host it over HTTP. Settings come from a TOML
// config file; --verbose switches the charmbracelet logger to debug level
// and turns on the pipeline, cache and HTTP hook logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/kustodian/sunburst/pkg/cache"
	"github.com/kustodian/sunburst/pkg/config"
	"github.com/kustodian/sunburst/pkg/integrations/kustodian"
	"github.com/kustodian/sunburst/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sunburst"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a CLI with a logger writing to w. The configuration is loaded
// when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// openCache opens the configured response cache. With noCache set, nothing
// is cached.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, c.Config.CacheOptions())
}

// newClient creates the report API client on top of backend.
func (c *CLI) newClient(backend cache.Cache) *kustodian.Client {
	client := kustodian.NewClient(backend, c.Config.API.BaseURL, c.Config.Cache.TTL)
	client.SetTimeout(c.Config.API.Timeout)
	if ua := c.Config.API.UserAgent; ua != "" {
		client.SetHeader("User-Agent", ua)
	}
	return client
}

// newRunner creates a pipeline runner sharing one cache between the API
// client and rendered artifacts.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, *kustodian.Client, error) {
	backend, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	client := c.newClient(backend)
	return pipeline.NewRunner(client, backend, nil, c.Logger), client, nil
}

// renderSize returns the configured default output size.
func (c *CLI) renderSize() (float64, float64) {
	return float64(c.Config.Render.Width), float64(c.Config.Render.Height)
}
