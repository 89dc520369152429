package cache

import (
	"context"
	"time"
)

// RateLimitStore tracks request counts per client within a sliding window.
// Implementations must be safe for concurrent use.
type RateLimitStore interface {
	// Allow increments the counter for key and reports whether the request
	// falls within the limit for the current window, along with how many
	// requests remain before the limit is hit. The first hit in a window
	// starts the window timer.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error)

	// Close releases any resources held by the store
	Close() error
}
