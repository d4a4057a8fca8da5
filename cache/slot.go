package cache

// slot is one resident cache entry. It carries the key/value pair together
// with the structural links that place it inside the recency order, so a
// single allocation serves both the index and the list.
//
// The two sentinel slots owned by the order reuse this type with zero-value
// key/val; they never hold caller data and are never returned to callers.
type slot[K comparable, V any] struct {
	key K
	val V

	// Links within the recency order. Real slots are always spliced between
	// the order's sentinels, so prev/next are never nil while resident.
	prev *slot[K, V]
	next *slot[K, V]
}

// Key returns the slot key (part of the policy.Node interface).
func (s *slot[K, V]) Key() K { return s.key }

// Value returns a pointer to the stored value (part of the policy.Node
// interface). Callers must only read/write through this pointer while
// holding the cache lock.
func (s *slot[K, V]) Value() *V { return &s.val }
