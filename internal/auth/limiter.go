// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package auth

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// FailureLimiter throttles clients that keep presenting bad credentials.
// Each client IP gets a token bucket that only failed attempts drain, so a
// caller with a valid token is never slowed down.
type FailureLimiter struct {
	mu       sync.Mutex
	limiters map[string]*failureEntry
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type failureEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewFailureLimiter allows maxFailures failed attempts per window per IP.
// Entries idle for longer than an hour are dropped by CleanupExpired.
func NewFailureLimiter(maxFailures int, window time.Duration) *FailureLimiter {
	if maxFailures <= 0 {
		maxFailures = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &FailureLimiter{
		limiters: make(map[string]*failureEntry),
		rate:     rate.Every(window / time.Duration(maxFailures)),
		burst:    maxFailures,
		idleTTL:  time.Hour,
		now:      time.Now,
	}
}

// Blocked reports whether ip has exhausted its failure budget.
func (l *FailureLimiter) Blocked(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[clientIP(ip)]
	l.mu.Unlock()
	if !ok {
		return false
	}
	return entry.limiter.TokensAt(l.now()) < 1
}

// RecordFailure drains one token from ip's bucket.
func (l *FailureLimiter) RecordFailure(ip string) {
	now := l.now()
	key := clientIP(ip)

	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &failureEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	l.mu.Unlock()

	entry.limiter.AllowN(now, 1)
}

// CleanupExpired drops buckets not touched within the idle TTL and returns
// how many were removed.
func (l *FailureLimiter) CleanupExpired() int {
	threshold := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (l *FailureLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// clientIP strips the port from a RemoteAddr value.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
