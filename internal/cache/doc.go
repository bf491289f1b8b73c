// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package cache provides a generic in-memory LRU cache with TTL expiry.

The event processor keeps recent match responses keyed by request ID so
that a redelivered request message is answered from the cache instead of
being matched again:

	results := cache.NewLRU[[]byte](10000, 10*time.Minute)
	if payload, ok := results.Get(requestID); ok {
	    return payload
	}
	results.Add(requestID, payload)

The cache is safe for concurrent use.
*/
package cache
