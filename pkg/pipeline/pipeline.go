// Package pipeline drives a complete cratescore run.
//
// A run reads the input entries, processes every crate entry in input order
// (merge, repository lookup, score), then expands any requested categories
// from the crates.io database dump and processes the synthesized entries the
// same way. Processing is strictly sequential: at most one request is in
// flight at any time.
//
// # Usage
//
//	runner := pipeline.NewRunner(merger, catalog.NewScorer(), ghClient, logger)
//	runner.Downloader = httpClient
//	runner.Snapshot = opts.SnapshotOptions()
//
//	result, err := runner.Execute(ctx, entries)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog.WriteJSON(os.Stdout, result.Entries)
//
// # Errors
//
// Failed crates.io or GitHub lookups are logged and leave a gap in the
// affected entry. A malformed GitHub repository URL or an inconsistent
// snapshot aborts the run.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/cratescore/pkg/catalog"
	"github.com/matzehuels/cratescore/pkg/dbdump"
	errs "github.com/matzehuels/cratescore/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config file
// =============================================================================

const (
	// DefaultOutput is the generated YAML dataset.
	DefaultOutput = catalog.DefaultOutputPath

	// DefaultTokenEnv names the environment variable holding the GitHub token.
	DefaultTokenEnv = "GITHUB_TOKEN"

	// DefaultTimeout bounds each API request. Snapshot downloads are not
	// bounded.
	DefaultTimeout = 30 * time.Second
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// ValidCacheBackends is the set of supported cache backends.
var ValidCacheBackends = map[string]bool{
	CacheFile:  true,
	CacheRedis: true,
	CacheNone:  true,
}

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures a run. Field tags name the keys of the TOML config
// file; command-line flags override file values.
type Options struct {
	// Output is the path of the generated YAML dataset.
	Output string `toml:"output"`

	// Cache options
	CacheBackend string `toml:"cache_backend"`
	CacheDir     string `toml:"cache_dir"` // file backend; empty means the user cache dir
	RedisURL     string `toml:"redis_url"` // redis backend

	// Snapshot options
	SnapshotPath   string        `toml:"snapshot_path"`
	SnapshotURL    string        `toml:"snapshot_url"`
	SnapshotMaxAge time.Duration `toml:"snapshot_max_age"`

	// API options
	TokenEnv string        `toml:"token_env"`
	Timeout  time.Duration `toml:"timeout"`
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	// Entries are the generated entries: declared crates first, in input
	// order, then expanded category members.
	Entries []catalog.GeneratedEntry

	// Categories are the requested category names.
	Categories []string

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Declared   int
	Expanded   int
	ProcessDur time.Duration
	ExpandDur  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.CacheBackend == "" {
		o.CacheBackend = CacheFile
	}
	if o.SnapshotPath == "" {
		o.SnapshotPath = dbdump.DefaultPath
	}
	if o.SnapshotURL == "" {
		o.SnapshotURL = dbdump.DefaultURL
	}
	if o.SnapshotMaxAge == 0 {
		o.SnapshotMaxAge = dbdump.DefaultMaxAge
	}
	if o.TokenEnv == "" {
		o.TokenEnv = DefaultTokenEnv
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
}

// Validate checks option values. Call SetDefaults first.
func (o *Options) Validate() error {
	if !ValidCacheBackends[o.CacheBackend] {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid cache backend: %q (must be one of: file, redis, none)", o.CacheBackend)
	}
	if o.CacheBackend == CacheRedis && o.RedisURL == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "redis cache backend requires redis_url")
	}
	if o.SnapshotMaxAge < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "snapshot_max_age must not be negative")
	}
	if o.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "timeout must not be negative")
	}
	if err := errs.ValidateURL(o.SnapshotURL); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "snapshot_url %q", o.SnapshotURL)
	}
	if o.Output == "" || o.SnapshotPath == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "output and snapshot_path must be set")
	}
	return nil
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// SnapshotOptions returns the snapshot settings for [dbdump.EnsureSnapshot].
func (o *Options) SnapshotOptions() dbdump.SnapshotOptions {
	return dbdump.SnapshotOptions{
		Path:   o.SnapshotPath,
		URL:    o.SnapshotURL,
		MaxAge: o.SnapshotMaxAge,
	}
}
