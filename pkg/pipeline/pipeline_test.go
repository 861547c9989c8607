package pipeline

import (
	"testing"
	"time"

	"github.com/matzehuels/cratescore/pkg/dbdump"
	errs "github.com/matzehuels/cratescore/pkg/errors"
)

func TestOptionsSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()

	if o.Output != "_data/crates_generated.yaml" {
		t.Errorf("Output = %q", o.Output)
	}
	if o.CacheBackend != CacheFile {
		t.Errorf("CacheBackend = %q", o.CacheBackend)
	}
	if o.SnapshotPath != dbdump.DefaultPath || o.SnapshotURL != dbdump.DefaultURL {
		t.Errorf("snapshot = %q, %q", o.SnapshotPath, o.SnapshotURL)
	}
	if o.SnapshotMaxAge != 24*time.Hour {
		t.Errorf("SnapshotMaxAge = %v", o.SnapshotMaxAge)
	}
	if o.TokenEnv != "GITHUB_TOKEN" || o.Timeout != DefaultTimeout {
		t.Errorf("TokenEnv = %q, Timeout = %v", o.TokenEnv, o.Timeout)
	}
}

func TestOptionsKeepsExplicitValues(t *testing.T) {
	o := Options{Output: "out.yaml", CacheBackend: CacheNone, SnapshotMaxAge: time.Hour}
	o.SetDefaults()
	if o.Output != "out.yaml" || o.CacheBackend != CacheNone || o.SnapshotMaxAge != time.Hour {
		t.Errorf("explicit values overwritten: %+v", o)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"redis with url", Options{CacheBackend: CacheRedis, RedisURL: "redis://localhost:6379/0"}, false},
		{"redis without url", Options{CacheBackend: CacheRedis}, true},
		{"unknown backend", Options{CacheBackend: "memcached"}, true},
		{"negative max age", Options{SnapshotMaxAge: -time.Hour}, true},
		{"negative timeout", Options{Timeout: -time.Second}, true},
		{"non-http snapshot url", Options{SnapshotURL: "ftp://mirror/db-dump.tar.gz"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s, want INVALID_CONFIG", errs.GetCode(err))
			}
		})
	}
}

func TestSnapshotOptions(t *testing.T) {
	o := Options{SnapshotPath: "dump.tar.gz", SnapshotURL: "http://mirror/dump.tar.gz", SnapshotMaxAge: time.Hour}
	s := o.SnapshotOptions()
	if s.Path != o.SnapshotPath || s.URL != o.SnapshotURL || s.MaxAge != time.Hour || s.Force {
		t.Errorf("SnapshotOptions() = %+v", s)
	}
}
