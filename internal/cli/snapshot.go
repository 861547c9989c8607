package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratescore/pkg/dbdump"
)

// snapshotCommand creates the snapshot command for the crates.io db dump.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		flags      optionFlags
		refresh    bool
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Download or inspect the crates.io database dump",
		Long: `Snapshot shows the age and contents of the local crates.io database dump
used for category expansion. With --refresh the dump is downloaded even if
the local copy is fresh; a stale or missing dump is always downloaded.

Pass --category to list the crates a category would expand to.`,
		Example: `  cratescore snapshot
  cratescore snapshot --refresh
  cratescore snapshot --category "Web programming"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.resolveOptions(cmd, &flags)
			if err != nil {
				return err
			}
			snap := opts.SnapshotOptions()
			snap.Force = refresh
			return c.runSnapshot(cmd.Context(), snap, categories)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "download the dump even if the local copy is fresh")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "list the crates of a category (repeatable)")
	flags.bind(cmd, false)
	return cmd
}

func (c *CLI) runSnapshot(ctx context.Context, opts dbdump.SnapshotOptions, categories []string) error {
	logger := loggerFromContext(ctx)

	if _, err := c.ensureSnapshot(ctx, newDownloader(), opts); err != nil {
		return err
	}

	info, err := os.Stat(opts.Path)
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}

	prog := newProgress(logger)
	snapshot, err := dbdump.Load(opts.Path)
	if err != nil {
		return err
	}
	ix := dbdump.BuildIndex(snapshot)
	prog.done("Loaded snapshot")

	age := time.Since(info.ModTime())
	printTitle("crates.io db dump")
	printKeyValue("Path", opts.Path)
	printKeyValue("Size", units.HumanSize(float64(info.Size())))
	printKeyValue("Age", units.HumanDuration(age)+" "+freshness(age < opts.MaxAge))
	printKeyValue("Crates", fmt.Sprint(len(snapshot.Crates)))
	printKeyValue("Categories", fmt.Sprint(len(snapshot.Categories)))
	printKeyValue("Links", fmt.Sprint(len(snapshot.Links)))

	if len(categories) == 0 {
		printNewline()
		printNextStep("List a category", appName+` snapshot --category "<name>"`)
		return nil
	}

	matched := ix.Categories(categories)
	found := make(map[string]bool, len(matched))
	for _, cat := range matched {
		found[cat.Category] = true
		members, err := ix.ExpandCategory(cat)
		if err != nil {
			return err
		}
		printNewline()
		printInfo("%s %s", StyleTitle.Render(cat.Category), StyleDim.Render(fmt.Sprintf("(%d crates)", len(members))))
		for _, m := range members {
			printDetail("%s", m.Crate.Name)
		}
	}
	for _, name := range categories {
		if !found[name] {
			printWarning("No category named %q", name)
		}
	}
	return nil
}

// ensureSnapshot refreshes the dump if needed, showing a spinner with the
// transferred size while it downloads.
func (c *CLI) ensureSnapshot(ctx context.Context, d dbdump.Downloader, opts dbdump.SnapshotOptions) (bool, error) {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = dbdump.DefaultMaxAge
	}
	if !opts.Force && !dbdump.NeedsRefresh(opts.Path, maxAge, time.Now()) {
		return false, nil
	}

	spinner := newSpinner(ctx, "Downloading crates.io db dump")
	spinner.Start()

	downloaded, err := dbdump.EnsureSnapshot(ctx, teeDownloader{d, spinner}, opts, loggerFromContext(ctx))
	if err != nil {
		spinner.Fail("Snapshot download failed")
		return false, err
	}
	spinner.Succeed(fmt.Sprintf("Downloaded db dump (%s)", units.HumanSize(float64(spinner.Bytes()))))
	return downloaded, nil
}

// teeDownloader copies every downloaded byte to progress as well.
type teeDownloader struct {
	dbdump.Downloader
	progress io.Writer
}

func (d teeDownloader) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	return d.Downloader.Download(ctx, url, io.MultiWriter(w, d.progress))
}
