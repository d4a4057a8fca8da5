package cache

import "context"

// Cache is a capacity-bounded, in-memory key/value cache interface.
// All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity for operations is O(1):
// a map lookup plus constant-time list adjustments under the cache lock.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted according to the active eviction policy
	// (for LRU, moved to most-recently-used). A miss is a normal outcome,
	// not an error.
	Get(k K) (V, bool)

	// Peek returns the value for k without promoting the entry. It does not
	// disturb recency order and does not touch hit/miss accounting.
	Peek(k K) (V, bool)

	// Put inserts or updates k→v and promotes the entry.
	// If the insertion pushes the cache past its capacity, exactly one
	// entry is evicted before Put returns.
	// Returns ErrInvalidKey when k is a nil interface value or is rejected
	// by Options.ValidateKey, and ErrClosed after Close. In either case the
	// cache is left unmodified.
	Put(k K, v V) error

	// Add inserts k→v only if k is not present.
	// Returns false if the key already exists (no update is performed).
	// Key validation follows Put.
	Add(k K, v V) (bool, error)

	// Remove deletes k if present and returns true on success.
	// Explicit removal is not counted as an eviction.
	Remove(k K) bool

	// Len returns the number of resident entries.
	Len() int

	// Keys returns the resident keys ordered from most- to least-recently
	// used. The slice is a snapshot; mutating it does not affect the cache.
	Keys() []K

	// Purge removes every entry, reporting each through OnEvict/Metrics
	// with EvictPurge.
	Purge()

	// GetOrLoad returns the value for k, loading it via Options.Loader on
	// miss. Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Stats returns a snapshot of the hit/miss/eviction counters.
	Stats() Stats

	// Close marks the cache closed. Subsequent writes return ErrClosed and
	// reads behave as misses. Close is a soft close and returns nil.
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
// Counters are cumulative since construction; Purge does not reset them.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
	Len       int
}
