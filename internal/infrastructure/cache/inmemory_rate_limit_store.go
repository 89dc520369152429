package cache

import (
	"context"
	"sync"
	"time"
)

// bucket tracks the request count for one key in the current window
type bucket struct {
	count     int
	expiresAt time.Time
}

// InMemoryRateLimitStore implements RateLimitStore using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryRateLimitStore struct {
	mu        sync.Mutex
	windows   map[string]*bucket
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRateLimitStore creates a new in-memory rate-limit store
// It starts a background goroutine to clean up expired windows
func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	store := &InMemoryRateLimitStore{
		windows:  make(map[string]*bucket),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Allow increments the counter for key and reports whether it is within limit
func (s *InMemoryRateLimitStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.windows[key]
	if !exists || now.After(b.expiresAt) {
		b = &bucket{count: 1, expiresAt: now.Add(window)}
		s.windows[key] = b
	} else {
		b.count++
	}

	remaining := limit - b.count
	if remaining < 0 {
		remaining = 0
	}
	return b.count <= limit, remaining, nil
}

// Close stops the cleanup goroutine
func (s *InMemoryRateLimitStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired windows
func (s *InMemoryRateLimitStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

// cleanup removes all expired windows
func (s *InMemoryRateLimitStore) cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, b := range s.windows {
		if now.After(b.expiresAt) {
			delete(s.windows, key)
		}
	}
}

// Ensure InMemoryRateLimitStore implements RateLimitStore
var _ RateLimitStore = (*InMemoryRateLimitStore)(nil)
