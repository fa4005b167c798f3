package logstore

import (
	"bytes"
	"os"
	"sort"

	"github.com/cidlogsrv/cidlogsrv/pkg/fs"
)

// compact performs a full compaction, per §4.D.7: stream every live key's
// bytes into a temp file in offset order with rewritten offsets, append a
// fresh trailing [expandChunkBytes] free region, then swap the temp file
// in for the current one via the current→backup, temp→current rename
// dance. Any failure along the way is treated as unrecoverable and the
// store panic-resets, matching §9(a): a half-written compaction is never
// trusted, so there is no partial-repair path.
//
// Grounded on pkg/fs's AtomicWriter, which already implements the
// temp-file-then-rename durability pattern this needs; compact builds the
// new file's full byte image in memory (stores here are bounded by
// [maxKeys] events of at most [maxEventBytes] each, a few tens of
// megabytes at most) and hands it to AtomicWriter rather than
// reimplementing the temp-file dance by hand.
func (s *Store) compact() error {
	ordered := make([]keyItem, len(s.keys))
	copy(ordered, s.keys)

	sort.Slice(ordered, func(a, b int) bool { return ordered[a].offset < ordered[b].offset })

	newKeys := make([]keyItem, len(ordered))

	var dataBuf bytes.Buffer

	var cursor uint32

	for i, k := range ordered {
		raw := make([]byte, k.size)
		if err := readFullAt(s.file, raw, storeOffset+int64(k.offset)); err != nil {
			if resetErr := s.resetEmpty(); resetErr != nil {
				return resetErr
			}

			return ErrCompactionFailed
		}

		dataBuf.Write(raw)

		newKeys[i] = k
		newKeys[i].offset = cursor
		cursor += k.size
	}

	trailingFree := freeItem{offset: cursor, size: expandChunkBytes}
	dataBuf.Write(make([]byte, expandChunkBytes))

	newFileSize := storeOffset + int64(dataBuf.Len())

	newHeader := s.header
	newHeader.keysUsed = uint32(len(newKeys))
	newHeader.freesUsed = 1

	layout := make([]byte, storeOffset)
	copy(layout[0:headerSize], newHeader.encode())

	for i, k := range newKeys {
		off := headerSize + i*keyItemSize
		encodeKeyItem(k, layout[off:off+keyItemSize])
	}

	putUint32(layout, sentinelOffset, layoutSentinel)
	encodeFreeItem(trailingFree, layout[sentinelOffset+4:sentinelOffset+4+freeItemSize])

	full := append(layout, dataBuf.Bytes()...)

	writer := fs.NewAtomicWriter(s.fsys)
	tmpPath := s.path + ".compact-tmp"

	if err := writer.WriteWithDefaults(tmpPath, bytes.NewReader(full)); err != nil {
		if resetErr := s.resetEmpty(); resetErr != nil {
			return resetErr
		}

		return ErrCompactionFailed
	}

	if s.file != nil {
		_ = s.file.Close()
	}

	backupPath := s.path + ".backup"

	if err := s.fsys.Rename(s.path, backupPath); err != nil {
		if resetErr := s.resetEmpty(); resetErr != nil {
			return resetErr
		}

		return ErrCompactionFailed
	}

	if err := s.fsys.Rename(tmpPath, s.path); err != nil {
		_ = s.fsys.Rename(backupPath, s.path)

		if resetErr := s.resetEmpty(); resetErr != nil {
			return resetErr
		}

		return ErrCompactionFailed
	}

	_ = s.fsys.Remove(backupPath)

	f, err := s.fsys.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		if resetErr := s.resetEmpty(); resetErr != nil {
			return resetErr
		}

		return ErrCompactionFailed
	}

	s.file = f
	s.header = newHeader
	s.keys = newKeys
	s.frees = []freeItem{trailingFree}
	s.fileSize = newFileSize
	s.dirty = true

	s.metrics.compactionsTotal.Inc()

	return nil
}
