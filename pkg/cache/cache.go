// Package cache provides the advisory key-value cache used for expensive
// remote lookups.
//
// Entries are addressed by a namespace (the upstream source, e.g. "github")
// and a key within it (e.g. "tokio-rs--tokio"). Values are the raw bytes
// received from upstream, before any parsing, so that a cache can be
// replayed after the parsing logic changes.
//
// The cache is best-effort: a miss, an unreadable entry and a failed write
// are all survivable, and callers fall through to a live fetch. Correctness
// must never depend on cache content being present or valid. There is no
// expiration.
//
// Implementations are not safe for concurrent runs against the same
// backing store.
package cache

import "context"

// Cache stores raw blobs under a (namespace, key) pair.
type Cache interface {
	// Get returns the blob and true on a hit. A miss is (nil, false, nil).
	// Callers treat a non-nil error exactly like a miss.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)

	// Set stores data, overwriting any previous entry. Errors are advisory.
	Set(ctx context.Context, namespace, key string, data []byte) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Close releases backend resources.
	Close() error
}
