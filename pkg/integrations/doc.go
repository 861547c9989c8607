// Package integrations provides the HTTP clients used to gather crate
// metadata.
//
// # Overview
//
// Two upstream services are consulted, each in its own subpackage:
//
//   - [crates]: the crates.io registry API (per-crate metadata)
//   - [github]: the GitHub GraphQL API (repository statistics)
//
// The crates.io db-dump used for category expansion is downloaded through
// [Client.Download] by package dbdump.
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP plumbing used by both subpackages:
//
//   - Default headers (User-Agent, Authorization)
//   - Retries with exponential backoff for transient failures
//   - A circuit breaker per upstream host that stops hammering a service
//     after repeated network errors or 5xx responses
//   - DNS caching for the process lifetime (see [NewHTTPClient])
//   - Request events reported through [observability.HTTP]
//
// [Cached] wraps a fetch in a read-through lookup against a [cache.Cache].
// Only GitHub responses are cached; crates.io is always fetched fresh.
//
// # Errors
//
// Clients return [ErrNotFound] for 404 responses and [ErrNetwork] for
// connection failures and unexpected status codes. Subpackages translate
// these into coded errors from package errors.
//
// [crates]: github.com/matzehuels/cratescore/pkg/integrations/crates
// [github]: github.com/matzehuels/cratescore/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/cratescore/pkg/cache.Cache
// [observability.HTTP]: github.com/matzehuels/cratescore/pkg/observability.HTTP
package integrations
