package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cratescore/pkg/cache"
	"github.com/matzehuels/cratescore/pkg/pipeline"
)

// clearer is implemented by cache backends that can drop all entries.
type clearer interface {
	Clear(ctx context.Context) (int, error)
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GitHub response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.resolveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			if opts.CacheBackend == pipeline.CacheNone {
				printInfo("Cache is disabled")
				return nil
			}

			ctx := cmd.Context()
			store, err := newCache(ctx, opts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			cl, ok := store.(clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", opts.CacheBackend)
			}
			count, err := cl.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", cacheLocation(opts))
			return nil
		},
	}

	flags.bind(cmd, false)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.resolveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(opts))
			return nil
		},
	}

	flags.bind(cmd, false)
	return cmd
}

// cacheLocation describes where entries live for the configured backend.
func cacheLocation(opts pipeline.Options) string {
	switch opts.CacheBackend {
	case pipeline.CacheRedis:
		return opts.RedisURL + " (prefix " + cache.DefaultRedisPrefix + ")"
	case pipeline.CacheNone:
		return "(disabled)"
	}
	return opts.CacheDir
}
