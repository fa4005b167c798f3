package logstore

// expand grows the backing file by one [expandChunkBytes] chunk and adds a
// free entry covering the new space, merging it with a trailing free
// entry if one is already contiguous with the old end of file, per
// §4.D.5. Caller holds the write lock.
func (s *Store) expand() error {
	oldDataEnd := uint32(s.fileSize - storeOffset)

	newSize := s.fileSize + expandChunkBytes
	if err := truncateGrow(s.file, newSize); err != nil {
		return err
	}

	s.fileSize = newSize

	merged := false

	for i := range s.frees {
		if s.frees[i].offset+s.frees[i].size == oldDataEnd {
			s.frees[i].size += expandChunkBytes
			merged = true

			break
		}
	}

	if !merged {
		if len(s.frees) >= maxFrees {
			return ErrCapacityExhausted
		}

		s.frees = append(s.frees, freeItem{offset: oldDataEnd, size: expandChunkBytes})
	}

	s.dirty = true
	s.metrics.expansionsTotal.Inc()

	return nil
}

// truncateGrow extends f to size bytes by seeking to size-1 and writing a
// single zero byte, the portable way to sparse-grow a file without a
// dedicated ftruncate call in the [fs.File] interface.
func truncateGrow(f interface {
	Seek(offset int64, whence int) (int64, error)
	Write(p []byte) (int, error)
}, size int64,
) error {
	if _, err := f.Seek(size-1, 0); err != nil {
		return err
	}

	_, err := f.Write([]byte{0})

	return err
}
