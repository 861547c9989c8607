package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/pipeline"
)

// optionFlags holds the command-line values for pipeline.Options. Only
// flags the user actually set override the config file.
type optionFlags struct {
	pipeline.Options
}

// bind registers the flags on cmd. withOutput adds --output, which only
// scrape uses.
func (f *optionFlags) bind(cmd *cobra.Command, withOutput bool) {
	flags := cmd.Flags()
	if withOutput {
		flags.StringVarP(&f.Output, "output", "o", pipeline.DefaultOutput, "generated YAML dataset")
	}
	flags.StringVar(&f.CacheBackend, "cache", pipeline.CacheFile, "cache backend: file, redis, none")
	flags.StringVar(&f.CacheDir, "cache-dir", "", "file cache directory (default ~/.cache/"+appName+")")
	flags.StringVar(&f.RedisURL, "redis-url", "", "redis URL for the redis cache backend")
	flags.StringVar(&f.SnapshotPath, "snapshot", "", "local path of the crates.io db dump (default db-dump.tar.gz)")
	flags.StringVar(&f.SnapshotURL, "snapshot-url", "", "download URL of the crates.io db dump")
	flags.DurationVar(&f.SnapshotMaxAge, "snapshot-max-age", 0, "re-download the db dump when older than this (default 24h)")
	flags.StringVar(&f.TokenEnv, "token-env", pipeline.DefaultTokenEnv, "environment variable holding the GitHub token")
	flags.DurationVar(&f.Timeout, "timeout", pipeline.DefaultTimeout, "per-request API timeout")
}

// apply copies every flag the user set onto opts.
func (f *optionFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	set := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if set("output") {
		opts.Output = f.Output
	}
	if set("cache") {
		opts.CacheBackend = f.CacheBackend
	}
	if set("cache-dir") {
		opts.CacheDir = f.CacheDir
	}
	if set("redis-url") {
		opts.RedisURL = f.RedisURL
	}
	if set("snapshot") {
		opts.SnapshotPath = f.SnapshotPath
	}
	if set("snapshot-url") {
		opts.SnapshotURL = f.SnapshotURL
	}
	if set("snapshot-max-age") {
		opts.SnapshotMaxAge = f.SnapshotMaxAge
	}
	if set("token-env") {
		opts.TokenEnv = f.TokenEnv
	}
	if set("timeout") {
		opts.Timeout = f.Timeout
	}
}

// resolveOptions layers defaults, the config file and flags, in increasing
// precedence, and loads .env into the environment.
func (c *CLI) resolveOptions(cmd *cobra.Command, f *optionFlags) (pipeline.Options, error) {
	if err := loadEnv(".env"); err != nil {
		return pipeline.Options{}, err
	}

	opts, err := loadConfig(c.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	f.apply(cmd, &opts)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	if opts.CacheBackend == pipeline.CacheFile && opts.CacheDir == "" {
		dir, err := cacheDir()
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.CacheDir = dir
	}
	return opts, nil
}

// loadConfig decodes the TOML config file. An empty path falls back to
// defaultConfigFile and tolerates its absence; an explicit path must exist.
// Unknown keys are rejected so typos do not pass silently.
func loadConfig(path string) (pipeline.Options, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var opts pipeline.Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return pipeline.Options{}, nil
		}
		return pipeline.Options{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return opts, nil
}

// loadEnv reads KEY=value pairs from path into the process environment.
// Variables already set are left alone; a missing file is fine.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
}

// githubToken reads the token from the environment variable named by
// opts.TokenEnv.
func githubToken(opts pipeline.Options) (string, error) {
	token := strings.TrimSpace(os.Getenv(opts.TokenEnv))
	if token == "" {
		return "", errs.New(errs.ErrCodeMissingCredential, "GitHub token not found: set %s (a .env file works too)", opts.TokenEnv)
	}
	return token, nil
}
