package logstore

import "sort"

// evictOldest tombstones the n oldest live keys (by loggedAt, seq), turns
// their byte ranges into free entries, and coalesces any that are now
// contiguous, per §4.D.4. Caller holds the write lock. If fewer than n
// keys are live, every live key is evicted.
//
// Eviction proceeds in rounds bounded by how much room is left in the free
// list: turning more keys into free entries than [maxFrees] allows would
// overrun the fixed-size free array the next flush writes into, so each
// round evicts only as many keys as currently fit, then coalesces before
// checking for more room. If a round makes no room (the free list is full
// of non-contiguous ranges that coalescing cannot merge), the whole run
// stops early, per §4.D.4 step 4, even if fewer than n keys were evicted.
func (s *Store) evictOldest(n int) {
	if n > len(s.keys) {
		n = len(s.keys)
	}

	for n > 0 {
		room := maxFrees - len(s.frees)
		if room <= 0 {
			return
		}

		batch := n
		if batch > room {
			batch = room
		}

		s.evictBatch(batch)
		n -= batch

		s.coalesceFrees()

		if len(s.frees) >= coalesceRecheckThreshold {
			s.coalesceFrees()
		}
	}
}

// evictBatch tombstones exactly the n oldest live keys and turns their
// byte ranges into free entries. Caller ensures n <= len(s.keys) and that
// the free list has room for n more entries.
func (s *Store) evictBatch(n int) {
	if n <= 0 || len(s.keys) == 0 {
		return
	}

	order := make([]int, len(s.keys))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(a, b int) bool {
		ka, kb := s.keys[order[a]], s.keys[order[b]]
		if ka.loggedAt != kb.loggedAt {
			return ka.loggedAt < kb.loggedAt
		}

		return ka.seq < kb.seq
	})

	evicted := make(map[int]bool, n)
	for _, idx := range order[:n] {
		evicted[idx] = true
	}

	remaining := s.keys[:0]

	for i, k := range s.keys {
		if evicted[i] {
			s.frees = append(s.frees, freeItem{offset: k.offset, size: k.size})
			s.metrics.evictionsTotal.Inc()

			continue
		}

		remaining = append(remaining, k)
	}

	s.keys = remaining
	s.dirty = true
}
