package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dkrasnov/lrucache/internal/singleflight"
	"github.com/dkrasnov/lrucache/internal/util"
	"github.com/dkrasnov/lrucache/policy"
	"github.com/dkrasnov/lrucache/policy/lru"
)

// Sentinel errors reported by the cache. All of them are local and
// synchronous; no error is ever raised after an observable mutation.
var (
	// ErrInvalidCapacity is returned by New when Options.Capacity <= 0.
	ErrInvalidCapacity = errorsNew("cache: capacity must be positive")
	// ErrInvalidKey is returned by Put/Add for a nil interface key or a key
	// rejected by Options.ValidateKey.
	ErrInvalidKey = errorsNew("cache: invalid key")
	// ErrClosed is returned by writes after Close.
	ErrClosed = errorsNew("cache: closed")
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
	ErrNoLoader = errorsNew("cache: no Loader provided")
)

// lightweight local errors.New to avoid importing std 'errors' everywhere
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }

// cache is an in-memory KV store combining a key index (map) with a
// sentinel-bounded recency list, coordinated under a single lock so both
// structures always mutate together. All methods are safe for concurrent
// use by multiple goroutines.
type cache[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu    sync.RWMutex
	index map[K]*slot[K, V]
	ord   *order[K, V]
	cap   int

	// Policy instance bound to this cache's list hooks.
	pol policy.Instance[K, V]

	closed atomic.Bool
	opt    Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// New constructs a cache with the provided Options.
// It returns ErrInvalidCapacity when Options.Capacity <= 0; no instance is
// produced in that case. Defaults:
//   - nil Metrics -> NoopMetrics
//   - nil Policy  -> LRU
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[K, V]()
	}

	c := &cache[K, V]{
		index: make(map[K]*slot[K, V], opt.Capacity),
		ord:   newOrder[K, V](),
		cap:   opt.Capacity,
		opt:   opt,
	}

	// Bind the policy to this instance's list hooks.
	c.pol = opt.Policy.Bind(cacheHooks[K, V]{c: c})

	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return c, nil
}

// ---- Cache[K,V] implementation ----

// Get returns the value for k and a presence flag.
// On hit, the entry is promoted according to the active policy.
// Note: even a read takes the write lock, since promotion mutates the
// recency list.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.index[k]
	if !ok {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	c.pol.OnGet(s)
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	return s.val, true
}

// Peek returns the value for k without promoting the entry.
// It never perturbs recency order and stays off the hit/miss counters.
func (c *cache[K, V]) Peek(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return s.val, true
}

// Put inserts or updates k→v and promotes the entry.
// Key validation happens before any mutation, so a rejected Put leaves the
// cache untouched.
func (c *cache[K, V]) Put(k K, v V) error {
	if err := c.checkKey(k); err != nil {
		return err
	}
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.index[k]; ok {
		// In-place update, then promote (updates count as recent use).
		s.val = v
		c.pol.OnUpdate(s)
		c.opt.Metrics.Size(c.ord.len)
		return nil
	}

	// New entry path: index first, then place via the policy.
	s := &slot[K, V]{key: k, val: v}
	c.index[k] = s

	if ev := c.pol.OnAdd(s); ev != nil {
		c.evictLocked(ev.(*slot[K, V]), EvictPolicy)
	}

	// Restore size <= capacity immediately after the insertion.
	c.enforceCapacityLocked()
	return nil
}

// Add inserts k→v only if absent.
// Returns false if the key already exists (no update is performed).
func (c *cache[K, V]) Add(k K, v V) (bool, error) {
	if err := c.checkKey(k); err != nil {
		return false, err
	}
	if c.closed.Load() {
		return false, ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[k]; exists {
		return false, nil
	}
	s := &slot[K, V]{key: k, val: v}
	c.index[k] = s

	if ev := c.pol.OnAdd(s); ev != nil {
		c.evictLocked(ev.(*slot[K, V]), EvictPolicy)
	}
	c.enforceCapacityLocked()
	return true, nil
}

// Remove deletes an entry by key. Returns true if the entry existed.
func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.index[k]
	if !ok {
		return false
	}
	c.pol.OnRemove(s)
	c.ord.remove(s)
	delete(c.index, k)
	// Note: explicit Remove is not counted as an eviction in metrics.
	c.opt.Metrics.Size(c.ord.len)
	return true
}

// Len returns the number of resident entries.
func (c *cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ord.len
}

// Keys returns resident keys in MRU→LRU order.
func (c *cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]K, 0, c.ord.len)
	for s := c.ord.head.next; s != c.ord.tail; s = s.next {
		out = append(out, s.key)
	}
	return out
}

// Purge removes every entry, reporting each one as an EvictPurge.
func (c *cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for s := c.ord.head.next; s != c.ord.tail; s = s.next {
		c.pol.OnRemove(s)
		delete(c.index, s.key)
		c.evicts.Add(1)
		c.opt.Metrics.Evict(EvictPurge)
		if cb := c.opt.OnEvict; cb != nil {
			cb(s.key, s.val, EvictPurge)
		}
	}
	c.ord.init()
	c.opt.Metrics.Size(0)
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// If no Loader is configured, returns ErrNoLoader.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	// singleflight: exactly one real load for the key
	return c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			_ = c.Put(k, v)
		}
		return v, err
	})
}

// Stats returns a snapshot of the counters plus the current length.
func (c *cache[K, V]) Stats() Stats {
	c.mu.RLock()
	n := c.ord.len
	c.mu.RUnlock()
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Len:       n,
	}
}

// Close marks the cache as closed. Future writes return ErrClosed, future
// reads behave as misses. There are no background workers to stop.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// -------------------- internals (mu held) --------------------

// checkKey rejects nil interface keys and applies Options.ValidateKey.
// Runs before the lock is taken; a failed check mutates nothing.
func (c *cache[K, V]) checkKey(k K) error {
	if any(k) == nil {
		return ErrInvalidKey
	}
	if c.opt.ValidateKey != nil {
		if err := c.opt.ValidateKey(k); err != nil {
			return ErrInvalidKey
		}
	}
	return nil
}

// evictLocked removes the slot from both structures, updates counters,
// and calls OnEvict.
func (c *cache[K, V]) evictLocked(s *slot[K, V], reason EvictReason) {
	c.pol.OnRemove(s)
	c.ord.remove(s)
	delete(c.index, s.key)
	c.evicts.Add(1)
	c.opt.Metrics.Evict(reason)
	if cb := c.opt.OnEvict; cb != nil {
		// Callbacks run under the lock; pass copies if moved outside later.
		cb(s.key, s.val, reason)
	}
}

// enforceCapacityLocked evicts LRU slots until len <= cap.
// A single Put overflows by at most one entry, so the loop normally runs
// zero or one times; it is a loop only to stay correct for policies that
// park entries outside the main list.
func (c *cache[K, V]) enforceCapacityLocked() {
	for c.ord.len > c.cap {
		tail := c.ord.back()
		if tail == nil {
			break
		}
		c.evictLocked(tail, EvictCapacity)
	}
	c.opt.Metrics.Size(c.ord.len)
}

// -------------------- policy hooks --------------------

// cacheHooks adapts the recency list operations to policy.Hooks.
type cacheHooks[K comparable, V any] struct{ c *cache[K, V] }

func (h cacheHooks[K, V]) MoveToFront(x policy.Node[K, V]) { h.c.ord.moveToFront(x.(*slot[K, V])) }
func (h cacheHooks[K, V]) PushFront(x policy.Node[K, V])   { h.c.ord.pushFront(x.(*slot[K, V])) }
func (h cacheHooks[K, V]) Remove(x policy.Node[K, V]) {
	// Policies call Remove while the cache lock is held.
	// Index bookkeeping is performed by the cache itself.
	h.c.ord.remove(x.(*slot[K, V]))
}
func (h cacheHooks[K, V]) Back() policy.Node[K, V] {
	// Explicit nil check so an empty list yields a nil interface,
	// not an interface wrapping a nil *slot.
	if s := h.c.ord.back(); s != nil {
		return s
	}
	return nil
}
func (h cacheHooks[K, V]) Len() int { return h.c.ord.len }
