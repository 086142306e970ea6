// Package cache provides the tag-aware key-value stores backing the asset
// pipeline. All cached values are pure functions of their key, so
// concurrent writers racing on the same entry are harmless: any writer's
// value is correct. A failed read is always treated as a miss, never as an
// error.
package cache

import "time"

// Store is the cache contract consumed by the pipeline. Tags group entries
// for bulk invalidation under the host's page-cache lifecycle.
type Store interface {
	// Get returns the value for key, or false on a miss. Expired and
	// unreadable entries are misses.
	Get(key string) ([]byte, bool)
	// Set stores value under key with the given tags. A zero ttl means
	// the entry does not expire on its own.
	Set(key string, value []byte, tags []string, ttl time.Duration)
	// Has reports whether a live entry exists for key.
	Has(key string) bool
	// Flush removes all entries.
	Flush()
	// FlushByTag removes every entry carrying the tag.
	FlushByTag(tag string)
}

// Common tags grouping pipeline entries.
const (
	TagAssets   = "assets"
	TagSprite   = "svg_sprite"
	TagCritical = "critical"
)
