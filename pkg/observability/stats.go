package observability

import (
	"context"
	"sync"
	"time"
)

// Counts is a point-in-time copy of the counters held by [Stats].
type Counts struct {
	Entries       int
	FetchFailures int
	CacheHits     int
	CacheMisses   int
	CacheWrites   int
	Requests      int
	RequestErrors int
	Elapsed       time.Duration
}

// Stats counts pipeline and cache events for a run summary.
// It implements [PipelineHooks], [CacheHooks] and [HTTPHooks].
type Stats struct {
	mu sync.Mutex
	c  Counts
}

// NewStats returns an empty collector.
func NewStats() *Stats { return &Stats{} }

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c
}

func (s *Stats) OnEntryStart(context.Context, string) {}

func (s *Stats) OnEntryComplete(_ context.Context, _ string, _ uint64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Entries++
	s.c.Elapsed += d
}

func (s *Stats) OnFetchFailed(context.Context, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.FetchFailures++
}

func (s *Stats) OnExpandComplete(context.Context, int, int, time.Duration) {}

func (s *Stats) OnCacheHit(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.CacheHits++
}

func (s *Stats) OnCacheMiss(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.CacheMisses++
}

func (s *Stats) OnCacheSet(context.Context, string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.CacheWrites++
}

func (s *Stats) OnRequest(context.Context, string, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Requests++
}

func (s *Stats) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (s *Stats) OnError(context.Context, string, string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.RequestErrors++
}

var (
	_ PipelineHooks = (*Stats)(nil)
	_ CacheHooks    = (*Stats)(nil)
	_ HTTPHooks     = (*Stats)(nil)
)
