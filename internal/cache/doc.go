// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

/*
Package cache provides a thread-safe, generic LRU cache with TTL support.

The recommendation engine uses it to memoize ranked results per snapshot
version, anchor, weights, filter and K.

# Usage Example

	results := cache.NewLRU[string, *Response](10000, 5*time.Minute)
	results.Add(key, resp)
	if resp, ok := results.Get(key); ok {
	    // cache hit
	}

# Expiration

Entries expire lazily on Get. CleanupExpired can be called periodically to
reclaim memory held by entries that are never read again.

# Thread Safety

All methods are safe for concurrent use. A single mutex guards the map and the
recency list because Get also reorders the list.
*/
package cache
