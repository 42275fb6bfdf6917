// Package cli implements the inkqr command-line interface.
//
// This package provides commands for rendering styled QR codes, inspecting
// matrix structure, validating centerpiece configurations, and managing the
// local artifact cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Encode text and generate styled SVG output
//   - inspect: Show the module-type breakdown of an encoded matrix
//   - validate: Check a centerpiece configuration against scanability limits
//   - clusters: Analyze connected components of data modules
//   - shapes: List or interactively preview module shapes
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/inkqr/inkqr/pkg/buildinfo"
	"github.com/inkqr/inkqr/pkg/cache"
	"github.com/inkqr/inkqr/pkg/pipeline"
	"github.com/inkqr/inkqr/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "inkqr"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "inkqr renders styled, scannable QR codes",
		Long:         `inkqr encodes text into QR matrices and renders them as styled SVGs with custom module shapes, merged cluster paths, and centerpiece reserves for logo placement.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.clustersCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the CLI against os.Args.
func (c *CLI) Execute(ctx context.Context) error {
	return c.RootCommand().ExecuteContext(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. An empty cacheURL selects
// the file cache under cacheDir; "redis://..." URLs select Redis.
func (c *CLI) newRunner(ctx context.Context, noCache bool, cacheURL string) (*pipeline.Runner, error) {
	store, err := newCache(ctx, noCache, cacheURL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool, cacheURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cacheURL != "" {
		return cache.NewRedisCache(ctx, cacheURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/inkqr/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// loadStyle resolves the effective style: TOML file if given, defaults
// otherwise, with explicit flag values layered on top.
func loadStyle(path string, override func(*render.StyleConfig)) (render.StyleConfig, error) {
	style := render.DefaultStyle()
	if path != "" {
		loaded, err := render.LoadStyle(path)
		if err != nil {
			return style, err
		}
		style = loaded
	}
	if override != nil {
		override(&style)
	}
	return style, style.Validate()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
