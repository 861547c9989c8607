package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cratescore/pkg/catalog"
	"github.com/matzehuels/cratescore/pkg/observability"
	"github.com/matzehuels/cratescore/pkg/pipeline"
)

// scrapeCommand creates the scrape command, which runs the whole pipeline.
func (c *CLI) scrapeCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "scrape <crates.yaml>",
		Short: "Build the scored crate dataset from an input list",
		Long: `Scrape reads the input list of crates, manual entries and categories,
merges each crate with its crates.io record, attaches GitHub repository
activity and scores it. Requested categories are expanded from the crates.io
database dump, which is downloaded when missing or older than a day.

The dataset is printed to stdout as JSON and written to --output as YAML.
The GitHub token is read from $GITHUB_TOKEN (or the variable named by
--token-env); a .env file in the working directory is loaded first.`,
		Example: `  cratescore scrape crates.yaml
  cratescore scrape crates.yaml -o _data/crates_generated.yaml > crates.json
  cratescore scrape crates.yaml --cache redis --redis-url redis://localhost:6379/0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.resolveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runScrape(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	flags.bind(cmd, true)
	return cmd
}

func (c *CLI) runScrape(ctx context.Context, input string, opts pipeline.Options, stdout io.Writer) error {
	logger := loggerFromContext(ctx)

	entries, err := catalog.LoadInput(input)
	if err != nil {
		return err
	}
	categories, _ := catalog.Partition(entries)

	stats := observability.NewStats()
	observability.SetPipelineHooks(stats)
	observability.SetCacheHooks(stats)
	observability.SetHTTPHooks(stats)
	defer observability.Reset()

	store, err := newCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	runner, err := c.newRunner(ctx, opts, store)
	if err != nil {
		return err
	}

	if len(categories) > 0 {
		if _, err := c.ensureSnapshot(ctx, runner.Downloader, runner.Snapshot); err != nil {
			return err
		}
	}

	logger.Debug("starting run", "run", runner.RunID, "entries", len(entries), "categories", len(categories))
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, entries)
	if err != nil {
		return err
	}

	if err := catalog.WriteJSON(stdout, result.Entries); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if err := catalog.WriteYAML(opts.Output, result.Entries); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scored %d crates", len(result.Entries)))

	printScrapeSummary(result, stats.Snapshot(), opts.Output)
	return nil
}

func printScrapeSummary(result *pipeline.Result, counts observability.Counts, output string) {
	printNewline()
	printSuccess("Generated %d entries", len(result.Entries))
	printStats(
		statPair{result.Stats.Declared, "declared"},
		statPair{result.Stats.Expanded, "expanded"},
		statPair{len(result.Categories), "categories"},
	)
	printStats(
		statPair{counts.Requests, "requests"},
		statPair{counts.CacheHits, "cache hits"},
		statPair{counts.CacheMisses, "cache misses"},
	)
	if counts.FetchFailures > 0 {
		printWarning("%d lookups failed; affected entries are incomplete", counts.FetchFailures)
	}
	printFile(output)
}
