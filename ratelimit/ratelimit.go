// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit counts requests per key in fixed windows.
//
// Windows reset lazily: an expired window is replaced on the next request
// for its key. Nothing sweeps old keys in the background.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is safe for concurrent use
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New allows limit requests per key in each window of the given duration
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// Allow counts a request for key. When the key is over its limit it
// returns false and how long until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[key]

	if !exists || !now.Before(w.expiresAt) {
		l.windows[key] = &window{
			count:     1,
			expiresAt: now.Add(l.duration),
		}
		return true, 0
	}

	if w.count >= l.limit {
		return false, w.expiresAt.Sub(now)
	}

	w.count++
	return true, 0
}

// Remaining returns how many requests are left for key in its current window
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || !l.now().Before(w.expiresAt) {
		return l.limit
	}
	if remaining := l.limit - w.count; remaining > 0 {
		return remaining
	}
	return 0
}

// Limit is the per-window cap
func (l *Limiter) Limit() int {
	return l.limit
}
