package logstore

import "sort"

// coalesceFrees merges adjacent free entries (offset+size == next offset)
// into single larger entries. Per §4.D.6 this is only worth the sort cost
// once the free list has grown past [coalesceMinFreeEntries]; the write
// path gates on that threshold, while eviction calls it unconditionally
// after each round. coalesceFrees itself is always safe to call
// and is a no-op on an already-coalesced list.
func (s *Store) coalesceFrees() {
	if len(s.frees) < 2 {
		return
	}

	sort.Slice(s.frees, func(a, b int) bool {
		return s.frees[a].offset < s.frees[b].offset
	})

	merged := s.frees[:1]

	for _, f := range s.frees[1:] {
		last := &merged[len(merged)-1]

		if last.offset+last.size == f.offset {
			last.size += f.size
			continue
		}

		merged = append(merged, f)
	}

	s.frees = merged
	s.dirty = true
}
