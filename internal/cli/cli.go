// Package cli implements the phylolane command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolane/pkg/buildinfo"
	"github.com/matzehuels/phylolane/pkg/cache"
	"github.com/matzehuels/phylolane/pkg/config"
	"github.com/matzehuels/phylolane/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "phylolane"

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
	Config     config.Config
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
		Use:   appName,
		Short: "phylolane lays out reconstructed phylogenies",
		Long: `phylolane rebuilds lineage trees from flat taxon tables, assigns every
lineage an overlap-free display lane, projects times through a power-law age
scale, and answers MRCA bound lookups for pairs of taxa.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/phylolane/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.rescaleCommand())
	root.AddCommand(c.lookupCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	var cc cache.Cache = cache.NewNullCache()
	if !noCache {
		var err error
		cc, err = c.Config.OpenCache(ctx)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without it", "err", err)
			cc = cache.NewNullCache()
		}
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.LayoutTTL = c.Config.CacheTTL()
	return r
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() (string, error) {
	return c.Config.CacheDir()
}
