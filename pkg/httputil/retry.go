package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cenk/backoff"
)

// MaxDelay caps a single wait between attempts. A server asking for a
// longer pause (Retry-After) gets the error back instead of a blocked run.
const MaxDelay = time.Minute

// RetryableError marks a transient failure (transport error, 429, 5xx) that
// [Retry] may attempt again.
type RetryableError struct {
	Err error
	// After is the delay the server asked for, zero if it did not say.
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn up to attempts times. Only [RetryableError] failures are
// retried; any other error is returned at once. Waits start at delay and
// double, without jitter, and a server-requested delay is honored when it
// is longer. Returns the last error, or ctx.Err() if cancelled while
// waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)

	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = delay
	schedule.Multiplier = 2
	schedule.RandomizationFactor = 0
	schedule.MaxInterval = MaxDelay
	schedule.MaxElapsedTime = 0
	schedule.Reset()

	var lastErr error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(schedule.NextBackOff(), re.After)
		if wait > MaxDelay {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with 3 attempts starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// IsRetryable reports whether err (or anything it wraps) is a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// RetryAfter parses a Retry-After header value, either delay-seconds or an
// HTTP date. It returns zero when the header is absent or unparseable.
func RetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if t, err := http.ParseTime(value); err == nil {
		return max(t.Sub(now), 0)
	}
	return 0
}
