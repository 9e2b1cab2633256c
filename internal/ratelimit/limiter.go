// Package ratelimit implements a sliding-window request limiter.
//
// The limiter throttles a single process's own behavior; it keeps
// per-key history in memory only and is not a security boundary.
// Server-side enforcement belongs to the edge (see the fiber limiter
// middleware on the public auth routes).
package ratelimit

import (
	"sync"
	"time"
)

// Policy bounds requests per key over a sliding window ending now.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

// Predefined policies. Callers may tune the values; the sliding-window
// behavior itself is fixed.
var (
	PolicyAPI     = Policy{MaxRequests: 100, Window: time.Minute}
	PolicyAuth    = Policy{MaxRequests: 5, Window: 5 * time.Minute}
	PolicyPayment = Policy{MaxRequests: 3, Window: 10 * time.Minute}
	PolicyForms   = Policy{MaxRequests: 10, Window: time.Minute}
)

// Limiter tracks request timestamps per key. Construct one instance at
// startup and pass it to whatever needs throttling; there is no
// process-wide singleton.
type Limiter struct {
	mu      sync.Mutex
	history map[string][]time.Time
	now     func() time.Time
}

// NewLimiter creates an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{
		history: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow purges entries older than the policy window, then either denies
// (without recording the attempt) when the key is at its limit, or
// records now and allows.
func (l *Limiter) Allow(key string, policy Policy) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.purge(key, policy, now)
	if len(valid) >= policy.MaxRequests {
		l.history[key] = valid
		return false
	}

	l.history[key] = append(valid, now)
	return true
}

// Remaining reports how many requests the key has left in the current
// window without recording an attempt.
func (l *Limiter) Remaining(key string, policy Policy) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	valid := l.purge(key, policy, l.now())
	l.history[key] = valid

	remaining := policy.MaxRequests - len(valid)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ResetAt returns when the key's oldest retained request ages out of the
// window. The zero time means the key has no history.
func (l *Limiter) ResetAt(key string, policy Policy) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	valid := l.purge(key, policy, l.now())
	l.history[key] = valid
	if len(valid) == 0 {
		return time.Time{}
	}
	return valid[0].Add(policy.Window)
}

// Reset clears all history for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.history, key)
}

// purge drops timestamps older than the window. Caller holds the lock.
func (l *Limiter) purge(key string, policy Policy, now time.Time) []time.Time {
	cutoff := now.Add(-policy.Window)
	entries := l.history[key]
	valid := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	return valid
}
