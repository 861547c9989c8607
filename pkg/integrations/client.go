package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/matzehuels/cratescore/pkg/cache"
	"github.com/matzehuels/cratescore/pkg/httputil"
	"github.com/matzehuels/cratescore/pkg/observability"
)

// breakerThreshold is the number of consecutive transient failures after
// which requests to a host are refused until the breaker's backoff elapses.
const breakerThreshold = 5

// Client provides shared HTTP functionality for the crates.io and GitHub
// clients. It handles retries, per-host circuit breaking and common request
// headers.
//
// Client is used from a single goroutine; the pipeline never has more than
// one request in flight.
type Client struct {
	http    *http.Client
	headers map[string]string
	retry   func(ctx context.Context, fn func() error) error

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = NewHTTPClient(d) }
}

// WithHTTPClient replaces the underlying HTTP client (tests use the
// httptest server's client).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry replaces the retry policy.
func WithRetry(fn func(ctx context.Context, fn func() error) error) Option {
	return func(c *Client) { c.retry = fn }
}

// NewClient creates a Client with the given default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(headers map[string]string, opts ...Option) *Client {
	c := &Client{
		http:     NewHTTPClient(httpTimeout),
		headers:  headers,
		retry:    httputil.RetryWithBackoff,
		breakers: make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cached returns the blob stored under (namespace, key) or calls fetch and
// stores its result. The cache is advisory: a read error is treated as a
// miss and a write error is ignored. hit reports whether the blob came from
// the cache.
func Cached(ctx context.Context, c cache.Cache, namespace, key string, fetch func() ([]byte, error)) (data []byte, hit bool, err error) {
	if data, ok, err := c.Get(ctx, namespace, key); err == nil && ok {
		return data, true, nil
	}
	data, err = fetch()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, namespace, key, data)
	return data, false, nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and handles retries automatically.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	data, err := c.send(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// PostJSON marshals body, POSTs it and returns the raw response body.
// The body is returned undecoded so callers can cache it verbatim.
func (c *Client) PostJSON(ctx context.Context, url string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.send(ctx, http.MethodPost, url, payload, map[string]string{"Content-Type": "application/json"})
}

// Download streams the body of url into w and returns the number of bytes
// written. Downloads are not retried; a partial write is the caller's to
// clean up.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	var n int64
	err := c.guard(ctx, url, func() error {
		resp, err := c.do(ctx, http.MethodGet, url, nil, nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		n, err = io.Copy(w, resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		return nil
	})
	return n, err
}

func (c *Client) send(ctx context.Context, method, url string, body []byte, headers map[string]string) ([]byte, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		return c.guard(ctx, url, func() error {
			resp, err := c.do(ctx, method, url, body, headers)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			data, err = io.ReadAll(resp.Body)
			if err != nil {
				return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
			}
			return nil
		})
	})
	return data, err
}

// guard runs fn behind the circuit breaker for url's host. Only transient
// failures count against the breaker; a 404 is an answer, not an outage.
func (c *Client) guard(ctx context.Context, url string, fn func() error) error {
	host := hostOf(url)
	b := c.breaker(host)
	if !b.Ready() {
		return fmt.Errorf("%w: circuit open for %s", ErrNetwork, host)
	}

	var permanent error
	err := b.Call(func() error {
		err := fn()
		if err != nil && !httputil.IsRetryable(err) {
			permanent = err
			return nil
		}
		return err
	}, 0)
	if permanent != nil {
		return permanent
	}
	return err
}

func (c *Client) breaker(host string) *circuit.Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.breakers[host]; ok {
		return b
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	b := circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(breakerThreshold),
	})
	c.breakers[host] = b
	return b
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrNetwork, code),
			After: httputil.RetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
