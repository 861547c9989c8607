package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratescore/pkg/buildinfo"
	"github.com/matzehuels/cratescore/pkg/cache"
	"github.com/matzehuels/cratescore/pkg/catalog"
	"github.com/matzehuels/cratescore/pkg/integrations"
	"github.com/matzehuels/cratescore/pkg/integrations/crates"
	"github.com/matzehuels/cratescore/pkg/integrations/github"
	"github.com/matzehuels/cratescore/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cratescore"

	// defaultConfigFile is read from the working directory when --config
	// is not given.
	defaultConfigFile = appName + ".toml"
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

	// configPath is the --config flag; empty means defaultConfigFile if
	// it exists.
	configPath string
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
	root := &cobra.Command{
		Use:   appName,
		Short: "cratescore builds a scored catalog of Rust crates",
		Long: `cratescore merges crates.io metadata, manual overrides and GitHub repository
activity into one scored dataset, and expands crates.io categories into
catalog entries using the public database dump.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+defaultConfigFile+" if present)")

	// Register all subcommands
	root.AddCommand(c.scrapeCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factories
// =============================================================================

// newCache opens the cache backend selected by opts.
func newCache(ctx context.Context, opts pipeline.Options) (cache.Cache, error) {
	switch opts.CacheBackend {
	case pipeline.CacheNone:
		return cache.NewNullCache(), nil
	case pipeline.CacheRedis:
		return cache.NewRedisCache(ctx, opts.RedisURL, "")
	default:
		return cache.NewFileCache(opts.CacheDir)
	}
}

// newRunner wires the API clients into a pipeline runner. The caller owns
// store and must close it.
func (c *CLI) newRunner(ctx context.Context, opts pipeline.Options, store cache.Cache) (*pipeline.Runner, error) {
	token, err := githubToken(opts)
	if err != nil {
		return nil, err
	}
	gh, err := github.NewClient(token, store, integrations.WithTimeout(opts.Timeout))
	if err != nil {
		return nil, err
	}
	registry := crates.NewClient(integrations.WithTimeout(opts.Timeout))

	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(catalog.NewMerger(registry, logger), catalog.NewScorer(), gh, logger)
	runner.Downloader = newDownloader()
	runner.Snapshot = opts.SnapshotOptions()
	return runner, nil
}

// newDownloader returns a client for the snapshot archive. The archive is
// large, so only the context bounds the transfer.
func newDownloader() *integrations.Client {
	return integrations.NewClient(
		map[string]string{"User-Agent": buildinfo.UserAgent()},
		integrations.WithTimeout(0),
	)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cratescore/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}
