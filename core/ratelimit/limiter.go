package ratelimit

import (
	"sync"
	"time"
)

const (
	keyTTL          = 10 * time.Minute
	cleanupInterval = time.Minute
	maxKeys         = 10000
)

// Limiter is a windowed request counter keyed by client identity. It is
// injected into the server rather than living in package-level state, and
// sweeps stale keys inline on the request path.
type Limiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	max         int
	interval    time.Duration
	lastCleanup time.Time
	now         func() time.Time // test hook
}

type window struct {
	start    time.Time
	count    int
	lastSeen time.Time
}

func New(max int, interval time.Duration) *Limiter {
	if max <= 0 {
		max = 100
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Limiter{
		windows:  make(map[string]*window),
		max:      max,
		interval: interval,
		now:      time.Now,
	}
}

// Allow reports whether key may make another request in the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastCleanup) >= cleanupInterval {
		l.cleanup(now)
		l.lastCleanup = now
	}
	w, ok := l.windows[key]
	if !ok {
		l.windows[key] = &window{start: now, count: 1, lastSeen: now}
		return true
	}
	w.lastSeen = now
	if now.Sub(w.start) >= l.interval {
		w.start = now
		w.count = 0
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

func (l *Limiter) cleanup(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.lastSeen) > keyTTL {
			delete(l.windows, key)
		}
	}
	for len(l.windows) > maxKeys {
		oldestKey := ""
		var oldest time.Time
		for key, w := range l.windows {
			if oldestKey == "" || w.lastSeen.Before(oldest) {
				oldestKey = key
				oldest = w.lastSeen
			}
		}
		if oldestKey == "" {
			break
		}
		delete(l.windows, oldestKey)
	}
}
