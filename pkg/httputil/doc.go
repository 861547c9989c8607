// Package httputil provides HTTP utilities shared by the registry and
// GitHub clients.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Only errors wrapped in [RetryableError] are retried; everything else
// (404s, decode failures, GraphQL error lists) is returned immediately.
//
// Waits double from the initial delay (a [github.com/cenk/backoff] schedule
// without jitter). A 429 or 503 that carries Retry-After sets
// [RetryableError.After]; see [RetryAfter].
//
// Retries happen inline on the calling goroutine, so a sequential caller
// still has at most one request in flight.
package httputil
