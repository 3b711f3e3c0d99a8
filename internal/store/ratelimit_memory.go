// Package store holds the Redis and in-memory backends: rate limit counters
// and the short link cache.
package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore keeps sliding window logs in process memory. Counters
// are per instance, so it suits single instance deployments and tests.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

// NewRateLimitMemoryStore creates an in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return NewRateLimitMemoryStoreWithClock(time.Now)
}

// NewRateLimitMemoryStoreWithClock creates an in-memory store reading time
// from now.
func NewRateLimitMemoryStoreWithClock(now func() time.Time) *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
		now:      now,
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	log := prune(s.requests[key], now.Add(-window))
	log = append(log, now)
	s.requests[key] = log

	return int64(len(log)), nil
}

// Sweep drops keys with no request newer than maxWindow. Call it
// periodically so idle clients do not accumulate.
func (s *RateLimitMemoryStore) Sweep(maxWindow time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxWindow)
	removed := 0

	for key, log := range s.requests {
		if len(prune(log, cutoff)) == 0 {
			delete(s.requests, key)
			removed++
		}
	}

	return removed
}

// prune drops timestamps at or before cutoff. The log is in time order.
func prune(log []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}

	return log[i:]
}
