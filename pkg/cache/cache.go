// Package cache provides the in-process TTL cache backing slow-changing venue
// metadata, primarily the paginated series catalog.
package cache

import "time"

// Cache is a TTL key-value store.
type Cache interface {
	// Get retrieves a value. Returns (value, true) if found.
	Get(key string) (interface{}, bool)

	// Set stores a value with a TTL.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete removes a value.
	Delete(key string)

	// Clear removes all values.
	Clear()

	// Close releases cache resources.
	Close()
}
