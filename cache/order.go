package cache

// order is the recency list: a doubly linked chain of slots bounded by two
// permanent sentinel slots. Reading the chain head-to-tail lists slots from
// most- to least-recently-used.
//
// The sentinels guarantee that every resident slot always has non-nil
// prev/next neighbors, so splice operations never branch on nil. That is
// the point of the design: the boundary branches in nullable head/tail
// lists are where off-by-one bugs in LRU implementations live.
//
// Concurrency: order has no lock of its own; the owning cache serializes
// all access.
type order[K comparable, V any] struct {
	head *slot[K, V] // sentinel; head.next is the MRU slot
	tail *slot[K, V] // sentinel; tail.prev is the LRU slot
	len  int         // number of resident (non-sentinel) slots
}

// newOrder links the two sentinels to each other, forming an empty chain.
func newOrder[K comparable, V any]() *order[K, V] {
	o := &order[K, V]{
		head: &slot[K, V]{},
		tail: &slot[K, V]{},
	}
	o.head.next = o.tail
	o.tail.prev = o.head
	return o
}

// pushFront splices s between the head sentinel and the current MRU slot.
// Precondition: s is not linked.
func (o *order[K, V]) pushFront(s *slot[K, V]) {
	s.prev = o.head
	s.next = o.head.next
	o.head.next.prev = s
	o.head.next = s
	o.len++
}

// remove unlinks s, reconnecting its neighbors directly.
// Precondition: s is linked. The cache only ever removes slots it found in
// the index, so the precondition holds structurally.
func (o *order[K, V]) remove(s *slot[K, V]) {
	s.prev.next = s.next
	s.next.prev = s.prev
	s.prev, s.next = nil, nil
	o.len--
}

// moveToFront promotes s to MRU in O(1).
func (o *order[K, V]) moveToFront(s *slot[K, V]) {
	if o.head.next == s {
		return
	}
	s.prev.next = s.next
	s.next.prev = s.prev
	s.prev = o.head
	s.next = o.head.next
	o.head.next.prev = s
	o.head.next = s
}

// back returns the current LRU slot, or nil if the order is empty.
// Does not mutate.
func (o *order[K, V]) back() *slot[K, V] {
	if o.tail.prev == o.head {
		return nil
	}
	return o.tail.prev
}

// init resets the order to empty, dropping all resident slots at once.
// Used by Purge; individual slots are reclaimed by the GC.
func (o *order[K, V]) init() {
	o.head.next = o.tail
	o.tail.prev = o.head
	o.len = 0
}
