// Package cli implements the truchet command-line interface.
//
// # Commands
//
// The main commands are:
//   - generate: Compose tiles into a Truchet pattern (SVG, JSON, PDF)
//   - normalize: Print the canonical form of one tile
//   - tiles: Manage the persistent tile library
//   - cache: Manage the normalization and artifact cache
//   - config: Inspect the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the CLI struct and is handed to the pipeline runner.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/truchet/pkg/buildinfo"
	"github.com/matzehuels/truchet/pkg/cache"
	"github.com/matzehuels/truchet/pkg/config"
	"github.com/matzehuels/truchet/pkg/library"
	"github.com/matzehuels/truchet/pkg/observability"
	"github.com/matzehuels/truchet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "truchet"

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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Truchet composes SVG tiles into generative patterns",
		Long:          `Truchet is a CLI tool for composing square SVG tiles into Truchet-style grids, placing busier tiles where a spatial distribution asks for them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/truchet/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.tilesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.Use(observability.NewLogHooks(c.Logger))
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	r := pipeline.NewRunner(c.newCache(ctx, noCache), keyer, c.Logger)
	r.ArtifactTTL = c.Config.Cache.TTL.Duration
	return r
}

// newCache opens the configured cache backend. Cache problems never stop a
// command: any failure degrades to a NullCache with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache()
	}

	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	}

	dir, err := c.Config.CacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without cache", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Library Factory
// =============================================================================

// openLibrary opens the configured tile library backend.
func (c *CLI) openLibrary(ctx context.Context) (library.Store, error) {
	cfg := c.Config.Library
	if cfg.Backend == config.LibraryMongo {
		return library.NewMongoStore(ctx, library.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	}

	path, err := c.Config.LibraryPath()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opening library", "backend", cfg.Backend, "path", path)
	if cfg.Backend == config.LibrarySQLite {
		return library.NewSQLiteStore(path)
	}
	return library.NewFileStore(path)
}
