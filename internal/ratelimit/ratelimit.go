// Package ratelimit is a fixed-window request limiter with an explicit TTL
// sweep. It is an injected store, not ambient global state: constructors
// receive a *Limiter, and the owner decides when to sweep.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter counts hits per key within a fixed window.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// New creates a Limiter allowing limit hits per window per key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit,
// along with the remaining budget and the window reset time.
func (l *Limiter) Allow(key string) (ok bool, remaining int, resetAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cur, found := l.buckets[key]
	if !found || !cur.resetAt.After(now) {
		reset := now.Add(l.window)
		l.buckets[key] = &entry{count: 1, resetAt: reset}
		return true, l.limit - 1, reset
	}

	if cur.count >= l.limit {
		return false, 0, cur.resetAt
	}
	cur.count++
	return true, l.limit - cur.count, cur.resetAt
}

// Sweep drops expired buckets and returns how many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.buckets {
		if !e.resetAt.After(now) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// SweepEvery sweeps on a ticker until the stop channel closes. Run it in its
// own goroutine.
func (l *Limiter) SweepEvery(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.Sweep()
		case <-stop:
			return
		}
	}
}
