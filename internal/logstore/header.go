package logstore

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// headerSize is the fixed on-disk size of [fileHeader]: 7-byte marker + u32
// fmt version + u32 last seq + u32 keys used + u32 frees used + 64 reserved
// bytes = 87 bytes.
const headerSize = 7 + 4 + 4 + 4 + 4 + 64

// reservedIntegrityOffset is where, inside the 64 reserved bytes, the
// xxhash64 of the preceding fields is stored. This is an ADDED integrity
// check beyond the original header format: the reserved region otherwise
// sits idle, so folding a checksum into it costs no extra space. A
// checksum mismatch on [Open] is treated identically to a bad marker or a
// bad sentinel: ErrCorrupt, then panic-reset.
const reservedIntegrityOffset = 0

// fileHeader mirrors the on-disk layout exactly: fields are packed and
// decoded in declared order with no implicit alignment padding.
type fileHeader struct {
	fmtVersion uint32
	lastSeq    uint32
	keysUsed   uint32
	freesUsed  uint32
}

func newFileHeader() fileHeader {
	return fileHeader{fmtVersion: fmtVersion}
}

// encode writes h into a fresh headerSize-byte buffer, including the
// leading marker and the trailing integrity checksum.
func (h fileHeader) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:7], headerMarker)

	binary.LittleEndian.PutUint32(buf[7:11], h.fmtVersion)
	binary.LittleEndian.PutUint32(buf[11:15], h.lastSeq)
	binary.LittleEndian.PutUint32(buf[15:19], h.keysUsed)
	binary.LittleEndian.PutUint32(buf[19:23], h.freesUsed)

	sum := xxhash.Sum64(buf[0:23])
	binary.LittleEndian.PutUint64(buf[23+reservedIntegrityOffset:23+reservedIntegrityOffset+8], sum)

	return buf
}

// decodeFileHeader validates the marker and the integrity checksum before
// returning the parsed header. Any failure is reported as [ErrCorrupt].
func decodeFileHeader(buf []byte) (fileHeader, error) {
	if len(buf) != headerSize {
		return fileHeader{}, ErrCorrupt
	}

	if string(buf[0:7]) != headerMarker {
		return fileHeader{}, ErrCorrupt
	}

	wantSum := binary.LittleEndian.Uint64(buf[23+reservedIntegrityOffset : 23+reservedIntegrityOffset+8])
	gotSum := xxhash.Sum64(buf[0:23])

	if wantSum != gotSum {
		return fileHeader{}, ErrCorrupt
	}

	h := fileHeader{
		fmtVersion: binary.LittleEndian.Uint32(buf[7:11]),
		lastSeq:    binary.LittleEndian.Uint32(buf[11:15]),
		keysUsed:   binary.LittleEndian.Uint32(buf[15:19]),
		freesUsed:  binary.LittleEndian.Uint32(buf[19:23]),
	}

	if h.fmtVersion != fmtVersion {
		return fileHeader{}, ErrCorrupt
	}

	return h, nil
}
