package rate

import (
	"sync"
	"time"
)

// WindowLimiter caps how many times a key may pass within a fixed window.
// Keys are caller-defined (user id, client IP).
type WindowLimiter struct {
	mu              sync.Mutex
	limit           int
	window          time.Duration
	items           map[string]*windowEntry
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type windowEntry struct {
	start time.Time
	count int
}

// NewWindowLimiter creates a limiter allowing limit hits per window.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:           limit,
		window:          window,
		items:           make(map[string]*windowEntry),
		lastCleanup:     time.Now(),
		cleanupInterval: window,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *WindowLimiter) Allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeCleanup(now)

	entry, ok := l.items[key]
	if !ok {
		l.items[key] = &windowEntry{start: now, count: 1}
		return true
	}

	if now.Sub(entry.start) >= l.window {
		entry.start = now
		entry.count = 1
		return true
	}

	if entry.count >= l.limit {
		return false
	}

	entry.count++
	return true
}

// RetryAfter reports how long key must wait until a hit can pass again.
// Zero means a hit would pass right now.
func (l *WindowLimiter) RetryAfter(key string) time.Duration {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.items[key]
	if !ok || entry.count < l.limit {
		return 0
	}
	remaining := l.window - now.Sub(entry.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// maybeCleanup drops expired entries so the map does not grow with every
// key ever seen. Runs at most once per cleanupInterval, under l.mu.
func (l *WindowLimiter) maybeCleanup(now time.Time) {
	if l.cleanupInterval <= 0 || l.window <= 0 {
		return
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}
	for key, entry := range l.items {
		if now.Sub(entry.start) >= l.window {
			delete(l.items, key)
		}
	}
	l.lastCleanup = now
}
