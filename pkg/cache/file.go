package cache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/cratescore/pkg/observability"
)

// FileCache implements a file-based cache for CLI usage.
// Each entry is stored verbatim as <dir>/<namespace>/<key>.json.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in the given directory.
// The directory will be created if it doesn't exist.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string { return c.dir }

// Get retrieves a value from the cache.
func (c *FileCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.Path(namespace, key))
	if os.IsNotExist(err) {
		observability.Cache().OnCacheMiss(ctx, namespace)
		return nil, false, nil
	}
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, namespace)
		return nil, false, err
	}
	observability.Cache().OnCacheHit(ctx, namespace)
	return data, true, nil
}

// Set stores a value in the cache.
func (c *FileCache) Set(ctx context.Context, namespace, key string, data []byte) error {
	path := c.Path(namespace, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, namespace, len(data))
	return nil
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(ctx context.Context, namespace, key string) error {
	err := os.Remove(c.Path(namespace, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// Clear removes every cached entry below the cache root and prunes the
// emptied namespace directories. It returns the number of entries removed.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	var dirs []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries, continue walking
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == c.dir {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if err := os.Remove(path); err == nil {
			count++
		}
		return nil
	})

	// Deepest first, so nested directories are empty by the time we reach them.
	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}
	return count, err
}

// Path returns the file that holds the entry for (namespace, key).
// The mapping is deterministic and stable across runs.
func (c *FileCache) Path(namespace, key string) string {
	return filepath.Join(c.dir, fileName(namespace), fileName(key)+".json")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
