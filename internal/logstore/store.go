package logstore

import (
	"io"
	"os"

	"github.com/cidlogsrv/cidlogsrv/pkg/fs"
	"github.com/prometheus/client_golang/prometheus"
)

// readFullAt seeks f to off and reads exactly len(buf) bytes into it. The
// [fs.File] interface exposes [io.Seeker] but not [io.ReaderAt], so the
// read is a seek followed by [io.ReadFull].
func readFullAt(f fs.File, buf []byte, off int64) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return err
	}

	_, err := io.ReadFull(f, buf)

	return err
}

// writeFullAt seeks f to off and writes all of buf.
func writeFullAt(f fs.File, buf []byte, off int64) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return err
	}

	_, err := f.Write(buf)

	return err
}

// Store is a single-file, crash-tolerant event log. The zero value is not
// usable; construct one with [Open].
//
// All exported methods are safe for concurrent use. Internally a single
// [storeLock] serializes writers against each other and against readers,
// per §5.
type Store struct {
	fsys fs.FS
	path string
	file fs.File

	lock storeLock

	header fileHeader

	// keys holds the header.keysUsed live key entries, packed densely at
	// the front of the slice in no particular on-disk order; query paths
	// sort a copy by (loggedAt, seq) rather than keeping this slice
	// sorted, since writes and evictions are far more frequent than
	// queries.
	keys []keyItem

	// frees holds the header.freesUsed live free entries, packed densely
	// at the front of the slice.
	frees []freeItem

	// fileSize is the current total size of the backing file, including
	// the header/index region.
	fileSize int64

	tail *liveTail

	metrics *storeMetrics

	dirty  bool
	closed bool
}

// Open opens the store file at path, creating and initializing it if it
// does not exist, per §4.D.8. A corrupt file is panic-reset: deleted and
// reinitialized empty, matching §9(a)'s resolution that recovery never
// attempts partial repair.
func Open(fsys fs.FS, path string, reg prometheus.Registerer) (*Store, error) {
	s := &Store{
		fsys:    fsys,
		path:    path,
		tail:    newLiveTail(),
		metrics: newStoreMetrics(reg),
	}

	exists, err := fsys.Exists(path)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := s.initEmpty(); err != nil {
			return nil, err
		}

		return s, nil
	}

	if err := s.load(); err != nil {
		if resetErr := s.resetEmpty(); resetErr != nil {
			return nil, resetErr
		}

		return s, nil
	}

	return s, nil
}

// initEmpty creates a brand-new store file: header, empty key/free arrays,
// and one free region covering two expansion chunks' worth of data space,
// per §4.D.8.
func (s *Store) initEmpty() error {
	f, err := s.fsys.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	const initialFreeBytes = 2 * expandChunkBytes

	s.file = f
	s.header = newFileHeader()
	s.keys = make([]keyItem, 0, 64)
	s.frees = []freeItem{{offset: 0, size: initialFreeBytes}}
	s.header.freesUsed = 1
	s.fileSize = storeOffset + initialFreeBytes

	if err := s.writeFullLayout(); err != nil {
		return err
	}

	if err := truncateGrow(s.file, s.fileSize); err != nil {
		return err
	}

	return s.file.Sync()
}

// resetEmpty discards whatever is on disk at s.path and reinitializes an
// empty store in its place, per the panic-reset recovery strategy.
func (s *Store) resetEmpty() error {
	if s.file != nil {
		_ = s.file.Close()
	}

	if err := s.fsys.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return s.initEmpty()
}

// load reads an existing store file's header and index arrays into
// memory, validating layout as it goes.
func (s *Store) load() error {
	f, err := s.fsys.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}

	s.file = f

	info, err := f.Stat()
	if err != nil {
		return err
	}

	s.fileSize = info.Size()
	if s.fileSize < storeOffset {
		return ErrCorrupt
	}

	buf := make([]byte, storeOffset)
	if err := readFullAt(f, buf, 0); err != nil {
		return err
	}

	h, err := decodeFileHeader(buf[:headerSize])
	if err != nil {
		return err
	}

	if int(binaryUint32(buf, sentinelOffset)) != int(layoutSentinel) {
		return ErrCorrupt
	}

	if h.keysUsed > maxKeys || h.freesUsed > maxFrees {
		return ErrCorrupt
	}

	s.header = h
	s.keys = make([]keyItem, h.keysUsed)

	for i := range s.keys {
		off := headerSize + i*keyItemSize
		s.keys[i] = decodeKeyItem(buf[off : off+keyItemSize])
	}

	s.frees = make([]freeItem, h.freesUsed)

	for i := range s.frees {
		off := sentinelOffset + 4 + i*freeItemSize
		s.frees[i] = decodeFreeItem(buf[off : off+freeItemSize])
	}

	return nil
}

// writeFullLayout serializes the header and both index arrays and writes
// them to the file at offset 0. Called on init and by
// [Store.flushHeaderAndIndex] (the background flusher and Close), per
// §4.D.9; compaction builds its own layout image instead.
func (s *Store) writeFullLayout() error {
	buf := make([]byte, storeOffset)

	copy(buf[0:headerSize], s.header.encode())

	for i, k := range s.keys {
		off := headerSize + i*keyItemSize
		encodeKeyItem(k, buf[off:off+keyItemSize])
	}

	putUint32(buf, sentinelOffset, layoutSentinel)

	for i, fr := range s.frees {
		off := sentinelOffset + 4 + i*freeItemSize
		encodeFreeItem(fr, buf[off:off+freeItemSize])
	}

	return writeFullAt(s.file, buf, 0)
}

// flushHeaderAndIndex persists the in-memory header and index arrays if
// they have changed since the last flush. Called by the background
// flusher, never synchronously from the write path, per §4.D.1's "no
// synchronous header flush" rule.
func (s *Store) flushHeaderAndIndex() error {
	s.lock.lockWrite()
	defer s.lock.unlockWrite()

	if !s.dirty {
		return nil
	}

	s.header.keysUsed = uint32(len(s.keys))
	s.header.freesUsed = uint32(len(s.frees))

	if err := s.writeFullLayout(); err != nil {
		return err
	}

	if err := s.file.Sync(); err != nil {
		return err
	}

	s.dirty = false
	s.metrics.keysUsedGauge.Set(float64(len(s.keys)))
	s.metrics.freesUsedGauge.Set(float64(len(s.frees)))
	s.metrics.fileSizeGauge.Set(float64(s.fileSize))

	return nil
}

// Close stops accepting new operations and performs one final header
// flush.
func (s *Store) Close() error {
	s.lock.lockWrite()

	if s.closed {
		s.lock.unlockWrite()
		return nil
	}

	s.closed = true
	s.dirty = true
	s.lock.unlockWrite()

	if err := s.flushHeaderAndIndex(); err != nil {
		return err
	}

	return s.file.Close()
}

func binaryUint32(buf []byte, off int) uint32 {
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
}

func putUint32(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}
