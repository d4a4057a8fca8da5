// Package cache provides a fast, generic, capacity-bounded in-memory cache
// with strict LRU semantics by default, pluggable eviction policies,
// optional singleflight loading, and lightweight metrics hooks.
//
// # Design
//
//   - Storage: a map[K]*slot index for O(1) lookup plus a doubly linked
//     recency list bounded by two permanent sentinel slots (head=MRU,
//     tail=LRU). The sentinels remove every nil branch from the splice
//     paths, which is where boundary bugs in LRU lists usually hide.
//
//   - Concurrency: a single RWMutex per cache instance. The index and the
//     recency list are only ever mutated together inside one critical
//     section, so they can never drift apart. Note that Get takes the write
//     lock: promotion mutates the list even on a "read". Peek is the
//     read-locked, non-promoting alternative.
//
//   - Capacity: fixed at construction and strictly enforced — size never
//     exceeds capacity between two public calls. An overflowing Put evicts
//     exactly one entry (the slot adjacent to the tail sentinel).
//
//   - Policies: eviction policy is pluggable via the policy package.
//     LRU is the default. A 2Q policy is provided (resists scan pollution).
//     More policies can be added without changing the cache.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug a Prometheus adapter to export
//     metrics.
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every eviction
//     (reason is one of EvictCapacity, EvictPolicy, EvictPurge).
//
// For write-heavy concurrent workloads where strict global recency matters
// less than lock contention, see the sharded package, which composes
// several independent caches behind one front.
//
// # Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    // only possible failure is a non-positive capacity
//	}
//	_ = c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// # With GetOrLoad (singleflight)
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// # Using an alternative policy (2Q)
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 50_000,
//	    Policy:   twoq.New[string, string](12_500 /* A1in ≈ 25% */, 25_000 /* ghosts */),
//	})
//
// # Exporting metrics (example Prometheus adapter)
//
//	m := prom.New(nil, "lrucache", "demo", nil) // implements Metrics
//	c, _ := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// # Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Typical operation cost
// is O(1): one map access and a constant amount of pointer fixes. Eviction
// work is also O(1) per removed item.
package cache
