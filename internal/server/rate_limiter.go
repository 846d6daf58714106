package server

import (
	"sync"
	"time"
)

// rateLimiter bounds storefront submissions per shop over a fixed
// window, keeping one bad widget deployment from flooding the catalog
// with request records.
type rateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	items  map[string]*rateLimitEntry
}

type rateLimitEntry struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		items:  make(map[string]*rateLimitEntry),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.items[key]
	if entry == nil || now.Sub(entry.windowStart) > r.window {
		r.prune(now)
		entry = &rateLimitEntry{windowStart: now}
		r.items[key] = entry
	}

	if entry.count >= r.limit {
		return false
	}

	entry.count++
	return true
}

// prune drops expired windows so the map does not grow with every shop
// domain ever seen. Caller holds the lock.
func (r *rateLimiter) prune(now time.Time) {
	for key, entry := range r.items {
		if now.Sub(entry.windowStart) > r.window {
			delete(r.items, key)
		}
	}
}
