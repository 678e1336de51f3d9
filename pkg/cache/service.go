package cache

import "time"

// Store is a key/value cache with per-entry expiry.
type Store interface {
	// Get returns the value and true on a hit.
	Get(key string) (any, bool)

	// Set stores value for ttl. A zero ttl uses the store default.
	Set(key string, value any, ttl time.Duration)

	Delete(key string)

	// Flush drops every entry.
	Flush()
}
