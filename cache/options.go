package cache

import (
	"context"

	"github.com/dkrasnov/lrucache/policy"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — removed to restore the size ≤ capacity invariant
	// after an insertion.
	EvictCapacity EvictReason = iota
	// EvictPolicy — proposed by the active eviction policy
	// (e.g. 2Q dropping the tail of its probation queue).
	EvictPolicy
	// EvictPurge — removed by an explicit Purge.
	EvictPurge
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Options configures the cache behavior. Capacity is the only required
// field; the remaining zero values get sane defaults in New():
//   - nil Policy  => LRU
//   - nil Metrics => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of resident entries. Must be positive;
	// New returns ErrInvalidCapacity otherwise.
	Capacity int

	// Policy is a pluggable eviction policy (LRU/2Q/…); nil => LRU.
	Policy policy.Policy[K, V]

	// ValidateKey, when set, is consulted by Put/Add before any mutation.
	// A non-nil return rejects the key with ErrInvalidKey. Nil interface
	// keys are always rejected, validator or not.
	ValidateKey func(k K) error

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// Observability
	// OnEvict is called for every eviction under the cache lock;
	// keep callbacks lightweight.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics
}
