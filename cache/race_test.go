package cache

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"
)

// A mixed workload of concurrent Put/Get/Peek/Remove on random keys.
// Should pass under `-race` without detector reports.
func TestRace_Basic(t *testing.T) {
	c := mustNew(t, Options[string, []byte]{Capacity: 8_192})

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 50_000
	deadline := time.Now().Add(2 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Remove
					c.Remove(k)
				case 5, 6, 7, 8, 9: // ~5% — Peek
					c.Peek(k)
				case 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~10% — Put
					_ = c.Put(k, []byte("x"))
				default: // ~80% — Get
					c.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()

	if n := c.Len(); n > 8_192 {
		t.Fatalf("capacity exceeded under concurrency: %d", n)
	}
}

// Concurrent writers against a tiny cache hammer the eviction path;
// the index and the recency list must stay in lockstep throughout.
func TestRace_EvictionPressure(t *testing.T) {
	c := mustNew(t, Options[int, int]{Capacity: 8})

	workers := 2 * runtime.GOMAXPROCS(0)
	deadline := time.Now().Add(1 * time.Second)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(id) + 1))
			for time.Now().Before(deadline) {
				_ = c.Put(r.Intn(1_000), id)
			}
		}(w)
	}
	wg.Wait()

	// Index and order must agree after the dust settles.
	if keys := c.Keys(); len(keys) != c.Len() {
		t.Fatalf("index/order drift: %d keys vs len %d", len(keys), c.Len())
	}
	if n := c.Len(); n > 8 {
		t.Fatalf("capacity exceeded: %d", n)
	}
}
