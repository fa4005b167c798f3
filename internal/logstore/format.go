package logstore

import "encoding/binary"

// keyItemSize is the packed on-disk size of [keyItem]: u32 offset, u32
// size, u64 logged_at, u8 severity, 3 pad bytes, u32 class, u32 seq.
const keyItemSize = 4 + 4 + 8 + 1 + 3 + 4 + 4

// freeItemSize is the packed on-disk size of [freeItem]: u32 offset, u32
// size.
const freeItemSize = 4 + 4

// keyArrayBytes is the fixed size in bytes of the on-disk key array.
const keyArrayBytes = maxKeys * keyItemSize

// freeArrayBytes is the fixed size in bytes of the on-disk free array,
// including the 4-byte layout sentinel that precedes it.
const freeArrayBytes = 4 + maxFrees*freeItemSize

// storeOffset is STORE_OFFSET: the byte offset at which the variable-size
// data region begins, immediately following the header, the key array, the
// layout sentinel, and the free array.
const storeOffset = headerSize + keyArrayBytes + freeArrayBytes

// sentinelOffset is the byte offset of the 4-byte layout sentinel that
// separates the key array from the free array.
const sentinelOffset = headerSize + keyArrayBytes

// keyItem is one slot of the on-disk key array: the location and size of
// one stored event's serialized bytes in the data region, plus enough of
// the event's own fields (logged_at, severity, class, seq) to sort and
// filter without touching the data region.
type keyItem struct {
	offset   uint32
	size     uint32
	loggedAt int64
	sev      Severity
	class    ErrClass
	seq      uint32
}

// keyItemTombstone marks a key slot as evicted, per §4.D.4's atomic
// tombstone-then-commit scheme.
const keyItemTombstone uint32 = 0xFFFFFFFF

func (k keyItem) live() bool { return k.offset != keyItemTombstone }

func encodeKeyItem(k keyItem, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], k.offset)
	binary.LittleEndian.PutUint32(buf[4:8], k.size)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(k.loggedAt))
	buf[16] = byte(k.sev)
	buf[17], buf[18], buf[19] = 0, 0, 0
	binary.LittleEndian.PutUint32(buf[20:24], uint32(k.class))
	binary.LittleEndian.PutUint32(buf[24:28], k.seq)
}

func decodeKeyItem(buf []byte) keyItem {
	return keyItem{
		offset:   binary.LittleEndian.Uint32(buf[0:4]),
		size:     binary.LittleEndian.Uint32(buf[4:8]),
		loggedAt: int64(binary.LittleEndian.Uint64(buf[8:16])),
		sev:      Severity(buf[16]),
		class:    ErrClass(binary.LittleEndian.Uint32(buf[20:24])),
		seq:      binary.LittleEndian.Uint32(buf[24:28]),
	}
}

// freeItem is one slot of the on-disk free array: a byte range in the data
// region not currently occupied by any live key's bytes.
type freeItem struct {
	offset uint32
	size   uint32
}

func encodeFreeItem(f freeItem, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], f.offset)
	binary.LittleEndian.PutUint32(buf[4:8], f.size)
}

func decodeFreeItem(buf []byte) freeItem {
	return freeItem{
		offset: binary.LittleEndian.Uint32(buf[0:4]),
		size:   binary.LittleEndian.Uint32(buf[4:8]),
	}
}
