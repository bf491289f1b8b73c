// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package services

import (
	"context"
	"time"

	"github.com/tomtom215/visitormatch/internal/logging"
)

// Expirer drops expired cache entries and reports how many were removed.
type Expirer interface {
	CleanupExpired() int
}

// CacheJanitorService periodically purges expired entries so idle caches
// release memory instead of waiting for LRU eviction.
type CacheJanitorService struct {
	cache    Expirer
	interval time.Duration
	name     string
}

// NewCacheJanitorService sweeps cache every interval (default 1 minute).
func NewCacheJanitorService(name string, cache Expirer, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		cache:    cache,
		interval: interval,
		name:     name,
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if removed := s.cache.CleanupExpired(); removed > 0 {
				logging.Debug().Str("cache", s.name).Int("removed", removed).Msg("Expired cache entries purged")
			}
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (s *CacheJanitorService) String() string {
	return s.name
}
