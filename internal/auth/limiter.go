// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AttemptLimiter throttles login attempts per key, typically the submitted
// identifier. Allow consumes one attempt and reports whether it may proceed.
type AttemptLimiter interface {
	Allow(key string, now time.Time) bool
}

// Default attempt limiter values.
const (
	DefaultAttemptsPerMinute = 10
	DefaultAttemptBurst      = 5
	DefaultLimiterIdleAge    = time.Hour
)

// KeyedLimiterConfig configures a KeyedLimiter.
type KeyedLimiterConfig struct {
	// PerMinute is the sustained number of attempts allowed per key.
	// Defaults to DefaultAttemptsPerMinute if zero or negative.
	PerMinute int

	// Burst is the number of attempts allowed back to back.
	// Defaults to DefaultAttemptBurst if zero or negative.
	Burst int

	// IdleAge is how long a key may go unused before Prune forgets it.
	// Defaults to DefaultLimiterIdleAge if zero or negative.
	IdleAge time.Duration
}

type keyedBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter is a token bucket per key. It is safe for concurrent use.
type KeyedLimiter struct {
	mu      sync.Mutex
	buckets map[string]*keyedBucket
	limit   rate.Limit
	burst   int
	idleAge time.Duration
}

// NewKeyedLimiter creates a KeyedLimiter.
func NewKeyedLimiter(cfg KeyedLimiterConfig) *KeyedLimiter {
	perMinute := cfg.PerMinute
	if perMinute <= 0 {
		perMinute = DefaultAttemptsPerMinute
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultAttemptBurst
	}
	idleAge := cfg.IdleAge
	if idleAge <= 0 {
		idleAge = DefaultLimiterIdleAge
	}
	return &KeyedLimiter{
		buckets: make(map[string]*keyedBucket),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
		idleAge: idleAge,
	}
}

// Allow consumes one token from key's bucket at now.
func (l *KeyedLimiter) Allow(key string, now time.Time) bool {
	key = strings.ToLower(strings.TrimSpace(key))

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &keyedBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// Prune forgets keys idle since before now minus the configured idle age and
// returns how many were removed.
func (l *KeyedLimiter) Prune(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := now.Add(-l.idleAge)
	removed := 0
	for key, bucket := range l.buckets {
		if bucket.lastSeen.Before(threshold) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

var _ AttemptLimiter = (*KeyedLimiter)(nil)
