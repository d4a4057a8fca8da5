// Package policy defines the contracts between the cache engine and its
// pluggable eviction policies.
package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
// It provides read-only access to the key and a pointer to the value.
// The pointer allows in-place updates without re-linking the entry.
type Node[K comparable, V any] interface {
	Key() K
	Value() *V
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the cache's recency list. Implementations are provided by the cache.
//
// Concurrency: all hook calls happen under the cache lock.
// Important: hooks manage only the list; the cache owns the key->entry index.
type Hooks[K comparable, V any] interface {
	// MoveToFront promotes the node to MRU.
	MoveToFront(Node[K, V])
	// PushFront inserts the node at MRU (used on admission).
	PushFront(Node[K, V])
	// Remove detaches the node from the list (index bookkeeping is done by
	// the cache).
	Remove(Node[K, V])
	// Back returns the current LRU node (or nil if empty).
	Back() Node[K, V]
	// Len returns the number of resident nodes.
	Len() int
}

// Instance is an eviction policy bound to one cache's hooks.
// All methods are invoked under the cache lock.
//
// Semantics:
//   - OnAdd may return an eviction candidate (e.g., LRU of a probation
//     queue). The cache will evict that node and subsequently call OnRemove
//     for it.
//   - OnGet/OnUpdate typically promote the node (e.g., move to MRU).
//   - OnRemove is a notification to update policy-internal state
//     (e.g., maintain ghost queues). The cache performs actual deletion.
type Instance[K comparable, V any] interface {
	OnAdd(Node[K, V]) (evict Node[K, V])
	OnGet(Node[K, V])
	OnUpdate(Node[K, V])
	OnRemove(Node[K, V])
}

// Policy is a factory that creates policy instances bound to a particular
// cache's hooks. One factory may serve many caches (e.g. the shards of a
// sharded front); each Bind call must return independent state.
type Policy[K comparable, V any] interface {
	Bind(Hooks[K, V]) Instance[K, V]
}
