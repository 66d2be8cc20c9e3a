package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdeck/pkg/buildinfo"
	"github.com/matzehuels/stackdeck/pkg/cache"
	"github.com/matzehuels/stackdeck/pkg/config"
	"github.com/matzehuels/stackdeck/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackdeck"

	// storeTimeout bounds connecting to a network snapshot store.
	storeTimeout = 5 * time.Second
)

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

	// status receives transient progress output such as spinners.
	status io.Writer

	// configPath is set by --config; empty means the default location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "stackdeck",
		Short:        "Stackdeck is an animated card deck you can fan, flip and reorder",
		Long:         `Stackdeck drives a stack of cards that can be fanned out, stepped through, reordered, added to and removed from. Play it in the terminal, script it against a virtual clock, render it to SVG, or serve it over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stackdeck/config.toml)")

	// Register all subcommands
	root.AddCommand(c.playCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Storage
// =============================================================================

// loadConfig reads the config file. A missing default file yields the
// built-in defaults; a missing explicit --config is an error.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath)
	return cfg, nil
}

// openSnapshots opens the snapshot store selected by cfg.Store.
func (c *CLI) openSnapshots(ctx context.Context, cfg *config.Config) (*cache.Snapshots, error) {
	store := cfg.Store
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var (
		backend cache.Cache
		err     error
	)
	switch store.Backend {
	case config.StoreNone:
		backend = cache.NewNullCache()
	case config.StoreRedis:
		sp := startSpinner(ctx, c.status, "Connecting to redis at "+store.RedisAddr)
		backend, err = cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     store.RedisAddr,
			Password: store.RedisPassword,
			DB:       store.RedisDB,
		})
		sp.stop()
	case config.StoreMongo:
		sp := startSpinner(ctx, c.status, "Connecting to mongo")
		backend, err = cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        store.MongoURI,
			Database:   store.MongoDatabase,
			Collection: store.MongoCollection,
		})
		sp.stop()
	default:
		dir := store.Dir
		if dir == "" {
			if dir, err = cacheDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeStorage, err, "resolve cache dir")
			}
		}
		backend, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", store.Backend)
	}
	if store.Backend == config.StoreRedis {
		// redis keyspaces are usually shared
		backend = cache.NewScopedCache(backend, appName+":")
	}
	c.Logger.Debug("snapshot store opened", "backend", store.Backend)
	return cache.NewSnapshots(backend, store.Backend, store.TTL), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackdeck/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
