// Package sharded provides a sharded front over the cache engine for
// write-heavy concurrent workloads.
//
// The front splits the keyspace across N independent cache instances by
// FNV-1a hash, so goroutines touching different shards never contend on a
// lock. The trade-off is that recency is tracked per shard: eviction picks
// the least-recently-used entry of the overflowing shard, not of the whole
// front. Callers that need strict global LRU semantics should use a single
// cache.New instance instead.
package sharded

import (
	"context"
	"sync"

	"github.com/dkrasnov/lrucache/cache"
	"github.com/dkrasnov/lrucache/internal/singleflight"
	"github.com/dkrasnov/lrucache/internal/util"
)

// Options configures the sharded front. The embedded cache Options apply to
// every shard; Capacity is the total across shards.
type Options[K comparable, V any] struct {
	cache.Options[K, V]

	// Shards defines the number of shards. If 0, an automatic value is
	// chosen (≈ 2*GOMAXPROCS) and rounded to the next power of two.
	// Non-power-of-two values are rounded up.
	Shards int
}

// front is a sharded cache: hash the key, pick a shard, delegate.
type front[K comparable, V any] struct {
	shards []cache.Cache[K, V]
	hash   func(K) uint64

	loader func(ctx context.Context, k K) (V, error)
	sf     singleflight.Group[K, V]
}

// New constructs a sharded front with the provided Options.
// The total Capacity is split evenly across shards (ceil division), so the
// front may hold up to Shards-1 entries more than Capacity in the worst
// case. It returns cache.ErrInvalidCapacity when Capacity <= 0.
func New[K comparable, V any](opt Options[K, V]) (cache.Cache[K, V], error) {
	if opt.Capacity <= 0 {
		return nil, cache.ErrInvalidCapacity
	}

	// number of shards -> power of two
	sh := opt.Shards
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}
	// A shard must hold at least one entry.
	if sh > opt.Capacity {
		sh = int(util.NextPow2(uint64(opt.Capacity)) / 2)
		if sh < 1 {
			sh = 1
		}
	}

	perShardCap := (opt.Capacity + sh - 1) / sh // split capacity evenly (ceil)

	// Size reported to Metrics must be the front-wide total, not the last
	// shard's, so each shard gets a small aggregating wrapper.
	agg := newSizeAgg(sh, opt.Metrics)

	f := &front[K, V]{
		shards: make([]cache.Cache[K, V], sh),
		hash:   util.Fnv64a[K], // fast non-crypto hash for sharding
		loader: opt.Loader,
	}
	for i := 0; i < sh; i++ {
		shardOpt := opt.Options
		shardOpt.Capacity = perShardCap
		// Loading is coalesced at the front; shards never load on their own.
		shardOpt.Loader = nil
		if opt.Metrics != nil {
			shardOpt.Metrics = agg.forShard(i)
		}
		c, err := cache.New[K, V](shardOpt)
		if err != nil {
			return nil, err
		}
		f.shards[i] = c
	}
	return f, nil
}

// ---- cache.Cache[K,V] implementation ----

func (f *front[K, V]) Get(k K) (V, bool)          { return f.shard(k).Get(k) }
func (f *front[K, V]) Peek(k K) (V, bool)         { return f.shard(k).Peek(k) }
func (f *front[K, V]) Put(k K, v V) error         { return f.shard(k).Put(k, v) }
func (f *front[K, V]) Add(k K, v V) (bool, error) { return f.shard(k).Add(k, v) }
func (f *front[K, V]) Remove(k K) bool            { return f.shard(k).Remove(k) }

// Len returns the total number of resident entries across all shards.
func (f *front[K, V]) Len() int {
	total := 0
	for _, s := range f.shards {
		total += s.Len()
	}
	return total
}

// Keys returns the resident keys of every shard, each shard's keys in
// MRU→LRU order. There is no meaningful recency order between shards.
func (f *front[K, V]) Keys() []K {
	out := make([]K, 0, f.Len())
	for _, s := range f.shards {
		out = append(out, s.Keys()...)
	}
	return out
}

// Purge clears every shard.
func (f *front[K, V]) Purge() {
	for _, s := range f.shards {
		s.Purge()
	}
}

// GetOrLoad returns the value for k, loading it on miss via the configured
// Loader. Loads are coalesced front-wide (one flight per key, regardless of
// shard). If no Loader is configured, returns cache.ErrNoLoader.
func (f *front[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	if v, ok := f.Get(k); ok {
		return v, nil
	}
	if f.loader == nil {
		var zero V
		return zero, cache.ErrNoLoader
	}
	return f.sf.Do(ctx, k, func() (V, error) {
		if v, ok := f.Get(k); ok {
			return v, nil
		}
		v, err := f.loader(ctx, k)
		if err == nil {
			_ = f.Put(k, v)
		}
		return v, err
	})
}

// Stats sums the counters of all shards.
func (f *front[K, V]) Stats() cache.Stats {
	var total cache.Stats
	for _, s := range f.shards {
		st := s.Stats()
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Evictions += st.Evictions
		total.Len += st.Len
	}
	return total
}

// Close closes every shard.
func (f *front[K, V]) Close() error {
	for _, s := range f.shards {
		_ = s.Close()
	}
	return nil
}

// shard picks a shard by hashing the key and masking with len-1.
// len(f.shards) is guaranteed to be a power of two.
func (f *front[K, V]) shard(k K) cache.Cache[K, V] {
	h := f.hash(k)
	idx := int(h) & (len(f.shards) - 1)
	return f.shards[idx]
}

// -------------------- metrics aggregation --------------------

// sizeAgg turns per-shard Size signals into a front-wide total before
// forwarding to the caller's Metrics. Hit/Miss/Evict pass straight through
// (the underlying counters are cumulative and shard-agnostic).
type sizeAgg struct {
	inner cache.Metrics

	mu  sync.Mutex
	per []int
	sum int
}

func newSizeAgg(shards int, inner cache.Metrics) *sizeAgg {
	return &sizeAgg{inner: inner, per: make([]int, shards)}
}

func (a *sizeAgg) forShard(i int) cache.Metrics { return &shardMetrics{agg: a, idx: i} }

func (a *sizeAgg) size(idx, entries int) {
	a.mu.Lock()
	a.sum += entries - a.per[idx]
	a.per[idx] = entries
	total := a.sum
	a.mu.Unlock()
	a.inner.Size(total)
}

type shardMetrics struct {
	agg *sizeAgg
	idx int
}

func (m *shardMetrics) Hit()                           { m.agg.inner.Hit() }
func (m *shardMetrics) Miss()                          { m.agg.inner.Miss() }
func (m *shardMetrics) Evict(reason cache.EvictReason) { m.agg.inner.Evict(reason) }
func (m *shardMetrics) Size(entries int)               { m.agg.size(m.idx, entries) }
