package logstore

// LogOne writes a single event. An event whose serialized form exceeds
// [maxEventBytes] is silently dropped (the oversize counter is
// incremented; DebugDump and the Prometheus metric are the only way to
// observe it), per §4.D.1 and §9(b)'s resolution that this is a counter,
// never an error.
func (s *Store) LogOne(ev LogEvent) error {
	s.lock.lockWrite()
	defer s.lock.unlockWrite()

	if s.closed {
		return ErrStoreClosed
	}

	err := s.writeLocked(ev)
	if err == ErrEventTooLarge {
		return nil
	}

	return err
}

// LogMany writes events in order, continuing past any dropped oversize
// event. Any other write error stops the batch and is returned together
// with the number of events written before it. It returns the number of
// events actually written.
func (s *Store) LogMany(evs []LogEvent) (written int, err error) {
	s.lock.lockWrite()
	defer s.lock.unlockWrite()

	if s.closed {
		return 0, ErrStoreClosed
	}

	for _, ev := range evs {
		if werr := s.writeLocked(ev); werr == nil {
			written++
		} else if werr != ErrEventTooLarge {
			return written, werr
		}
	}

	return written, nil
}

// writeLocked implements §4.D.1's write path. Caller holds the write lock.
func (s *Store) writeLocked(ev LogEvent) error {
	// Seq is stamped before serializing so the stored bytes carry it; it
	// is committed to the header only once the write has succeeded.
	ev.Seq = s.header.lastSeq + 1
	payload := serializeEvent(ev)

	if len(payload) > maxEventBytes {
		s.metrics.oversizeDropped.Inc()
		return ErrEventTooLarge
	}

	needed := uint32(len(payload))

	// The key array is a fixed-size on-disk slot array; a full array must
	// evict before a new key can be appended, independent of whether
	// there happens to be data-region space free.
	if len(s.keys) >= maxKeys {
		s.evictOldest(evictBatchSize)
	}

	idx, ok := s.findFirstFit(needed)

	if !ok {
		if err := s.expand(); err == nil {
			idx, ok = s.findFirstFit(needed)
		}
	}

	if !ok && len(s.frees) >= coalesceMinFreeEntries {
		s.coalesceFrees()

		idx, ok = s.findFirstFit(needed)
	}

	if !ok {
		if err := s.compact(); err != nil {
			return err
		}

		idx, ok = s.findFirstFit(needed)
	}

	if !ok {
		s.evictOldest(evictBatchSize)

		idx, ok = s.findFirstFit(needed)
	}

	if !ok {
		return ErrCapacityExhausted
	}

	slot := s.frees[idx]

	if err := writeFullAt(s.file, payload, storeOffset+int64(slot.offset)); err != nil {
		return err
	}

	allocated := s.consumeFree(idx, needed)

	s.header.lastSeq = ev.Seq

	s.keys = append(s.keys, keyItem{
		offset:   slot.offset,
		size:     allocated,
		loggedAt: ev.LoggedAt,
		sev:      ev.Severity,
		class:    ev.ErrClass,
		seq:      ev.Seq,
	})

	s.dirty = true
	s.metrics.writesTotal.Inc()
	s.tail.push(ev)

	return nil
}

// findFirstFit returns the index of the first free slot large enough to
// hold needed bytes.
func (s *Store) findFirstFit(needed uint32) (int, bool) {
	for i, f := range s.frees {
		if f.size >= needed {
			return i, true
		}
	}

	return 0, false
}

// consumeFree carves needed bytes off the front of s.frees[idx], trimming
// the residual back into the free list. A residual smaller than
// [minResidualFreeBytes] is not worth tracking as its own free entry, so
// it is absorbed into the key's claimed size instead (returned as part of
// allocated), per §4.D.1 step 10.
func (s *Store) consumeFree(idx int, needed uint32) (allocated uint32) {
	slot := s.frees[idx]
	residual := slot.size - needed

	if residual < minResidualFreeBytes {
		s.removeFreeAt(idx)
		return slot.size
	}

	s.frees[idx] = freeItem{offset: slot.offset + needed, size: residual}

	return needed
}

func (s *Store) removeFreeAt(idx int) {
	s.frees = append(s.frees[:idx], s.frees[idx+1:]...)
}
