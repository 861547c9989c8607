package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "github", "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "github", "key", []byte("value")); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "github", "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "github", "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "github", "tokio-rs--tokio"); hit || err != nil {
		t.Fatalf("empty cache Get = hit %v err %v, want miss", hit, err)
	}

	blob := []byte(`{"data":{"repository":{"pushedAt":"2024-01-01T00:00:00Z"}}}`)
	if err := c.Set(ctx, "github", "tokio-rs--tokio", blob); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := c.Get(ctx, "github", "tokio-rs--tokio")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v err %v, want hit", hit, err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Get = %s, want raw blob %s", got, blob)
	}

	if err := c.Delete(ctx, "github", "tokio-rs--tokio"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "github", "tokio-rs--tokio"); err != nil {
		t.Errorf("Delete of missing entry should succeed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "github", "tokio-rs--tokio"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestFileCachePathIsStable(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	want := filepath.Join(dir, "github", "owner--repo.json")
	if got := c.Path("github", "owner--repo"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	// Unsafe keys are hashed, never used as path components.
	p := c.Path("github", "../../etc/passwd")
	if !strings.HasPrefix(p, filepath.Join(dir, "github")) {
		t.Errorf("unsafe key escaped cache dir: %q", p)
	}
	if p != c.Path("github", "../../etc/passwd") {
		t.Error("Path should be deterministic")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, key := range []string{"a--b", "c--d"} {
		if err := c.Set(ctx, "github", key, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Set(ctx, "other", "x", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache root should be empty after Clear, has %d entries", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache root itself should survive Clear: %v", err)
	}

	// Clearing a missing directory is not an error.
	gone := &FileCache{dir: filepath.Join(dir, "missing")}
	if n, err := gone.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestFileCacheWriteFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	// A file where the namespace directory should be makes Set fail.
	if err := os.WriteFile(filepath.Join(dir, "github"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(context.Background(), "github", "a--b", []byte("{}")); err == nil {
		t.Error("Set should report the write failure to the caller")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
