// Package cli implements the flowstudio command-line interface.
//
// This package provides commands for editing flow graphs on an interactive
// canvas, playing them back as questionnaires, exporting them as images, and
// serving the persistence API. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Open a graph in the interactive canvas editor
//   - run: Play a graph back as a linear questionnaire
//   - export: Write a graph as JSON, SVG, DOT, or PNG
//   - serve: Start the HTTP persistence API
//   - graphs: List an operator's stored graphs
//   - login/logout: Manage the local operator session
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	root := c.RootCommand()
//	if err := root.ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mistaa/flowstudio/pkg/buildinfo"
	"github.com/mistaa/flowstudio/pkg/cache"
	"github.com/mistaa/flowstudio/pkg/config"
	"github.com/mistaa/flowstudio/pkg/session"
	"github.com/mistaa/flowstudio/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "flowstudio"

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

	configPath string
	operator   string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowstudio edits and runs questionnaire flow graphs",
		Long:         `Flowstudio is a CLI tool for composing directed flows of questionnaire and goal nodes on an interactive canvas, persisting them, exporting them as images, and playing them back.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/flowstudio/config.toml)")
	root.PersistentFlags().StringVar(&c.operator, "operator", "", "operator ID (default from the current session)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.graphsCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backend Factories
// =============================================================================

// loadConfig reads the configuration honoring the --config flag.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newStore builds the persistence backend the config selects.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, cfg.Storage.MongoCollection)
	case "http":
		return store.NewHTTPStore(cfg.Storage.BaseURL), nil
	default:
		return store.NewFileStore(cfg.Storage.Dir)
	}
}

// newCache builds the cache backend the config selects. Failures degrade to
// the null cache so commands keep working without caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) cache.Cache {
	switch cfg.Cache.Backend {
	case "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache()
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable", "error", err)
			return cache.NewNullCache()
		}
		return fc
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			c.Logger.Warn("redis cache unavailable", "error", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		return cache.NewNullCache()
	}
}

// resolveOperator returns the operator ID from the --operator flag or the
// current session.
func (c *CLI) resolveOperator(ctx context.Context) (string, error) {
	if c.operator != "" {
		return c.operator, nil
	}

	sessions, err := session.NewCLIStore()
	if err == nil {
		if sess, err := sessions.GetSession(ctx); err == nil && sess != nil {
			return sess.OperatorID, nil
		}
	}
	return "", fmt.Errorf("no operator: pass --operator or log in first")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowstudio/).
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
