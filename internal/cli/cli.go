// Package cli implements the phylo command-line interface.
//
// Commands read trees from files or stdin ("-"), in Newick or the JSON edge
// table format, and write Newick to stdout unless -o is given:
//
//	phylo inspect tree.nwk
//	phylo drop tree.nwk --tip Homo_sapiens --tip Pan_troglodytes
//	phylo analyze trees.nwk --resolve --ladderize right
//	phylo serve --addr :8080
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// also attached to the command context for code that only sees a
// context.Context.
//
// # Configuration
//
// Defaults come from the TOML config file (see package config), which
// --config overrides. Command-line flags take precedence over the file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/pkg/buildinfo"
	"github.com/matzehuels/phylo/pkg/cache"
	"github.com/matzehuels/phylo/pkg/config"
	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/storage"
)

// appName is the application name used for display.
const appName = "phylo"

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
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is loaded when a command runs.
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
		Use:          appName,
		Short:        "Phylo reads, edits and analyzes phylogenetic trees",
		Long:         `Phylo is a CLI tool for working with rooted phylogenetic trees: parse and write Newick, drop tips, resolve polytomies, ladderize, compute tree statistics and match trait tables to tips.`,
		Version:      buildinfo.Version,
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
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.dropCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.ladderizeCommand())
	root.AddCommand(c.rotateCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.mrcaCommand())
	root.AddCommand(c.matchCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// Redis keys carry the configured prefix.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if _, shared := cc.(*cache.RedisCache); shared && c.Config.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.KeyPrefix)
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache prefers Redis when an address is configured. An unreachable
// Redis degrades to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", addr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

// newStore opens the tree archive: MongoDB when configured, files otherwise.
func (c *CLI) newStore(ctx context.Context) (storage.Store, error) {
	if uri := c.Config.Storage.MongoURI; uri != "" {
		return storage.NewMongoStore(ctx, uri, c.Config.Storage.Database)
	}
	return storage.NewFileStore(c.Config.Storage.Dir)
}
