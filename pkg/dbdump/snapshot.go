package dbdump

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultURL is where crates.io publishes the daily dump.
	DefaultURL = "https://static.crates.io/db-dump.tar.gz"

	// DefaultPath is the local snapshot file, relative to the working directory.
	DefaultPath = "db-dump.tar.gz"

	// DefaultMaxAge is how old the local snapshot may get before it is
	// downloaded again.
	DefaultMaxAge = 24 * time.Hour
)

// Downloader streams a URL into a writer. [integrations.Client] implements it.
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// SnapshotOptions controls [EnsureSnapshot].
type SnapshotOptions struct {
	Path   string
	URL    string
	MaxAge time.Duration
	// Force downloads even when the local copy is fresh.
	Force bool
	// Now returns the reference time. Defaults to time.Now.
	Now func() time.Time
}

func (o *SnapshotOptions) setDefaults() {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.URL == "" {
		o.URL = DefaultURL
	}
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// NeedsRefresh reports whether the snapshot at path is missing or at least
// maxAge old.
func NeedsRefresh(path string, maxAge time.Duration, now time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return now.Sub(info.ModTime()) >= maxAge
}

// EnsureSnapshot downloads the dump to opts.Path unless a fresh copy is
// already there. The download goes to a temporary file that replaces the
// snapshot only once complete. It reports whether a download happened.
func EnsureSnapshot(ctx context.Context, d Downloader, opts SnapshotOptions, logger *log.Logger) (bool, error) {
	opts.setDefaults()
	if logger == nil {
		logger = log.Default()
	}

	if !opts.Force && !NeedsRefresh(opts.Path, opts.MaxAge, opts.Now()) {
		logger.Debug("snapshot is fresh", "path", opts.Path)
		return false, nil
	}

	logger.Info("downloading crates.io db dump, this will take a while...", "url", opts.URL)
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(opts.Path), filepath.Base(opts.Path)+".*.part")
	if err != nil {
		return false, fmt.Errorf("create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := d.Download(ctx, opts.URL, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return false, fmt.Errorf("download snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), opts.Path); err != nil {
		return false, fmt.Errorf("replace snapshot: %w", err)
	}

	logger.Info("snapshot downloaded", "path", opts.Path, "bytes", n)
	return true, nil
}
