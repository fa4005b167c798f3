package logstore

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/cidlogsrv/cidlogsrv/pkg/codec"
)

// utf8Codec is the converter every serialized event's textual fields pass
// through. Even though Go strings are already UTF-8, the data flow
// described for this store routes text through the codec framework rather
// than writing raw string bytes directly, so that a future change to the
// store's external text encoding (e.g. to log a non-UTF-8 host capture)
// only touches the codec layer.
var utf8Codec = func() codec.Converter {
	c, err := codec.Make("UTF-8", codec.Throw())
	if err != nil {
		panic("logstore: UTF-8 converter must always be registered: " + err.Error())
	}

	return c
}()

// encodeText converts s to bytes via [utf8Codec] and appends a u16 length
// prefix. Fields longer than 65535 encoded bytes are truncated at a rune
// boundary; no event field realistically approaches that length.
func encodeText(dst []byte, s string) []byte {
	runes := []rune(s)
	buf := make([]byte, len(runes)*4)

	res, err := utf8Codec.Encode(runes, buf)
	if err != nil {
		res.BytesProduced = 0
	}

	enc := buf[:res.BytesProduced]
	if len(enc) > 65535 {
		cut := 65535
		for cut > 0 && !utf8.RuneStart(enc[cut]) {
			cut--
		}

		enc = enc[:cut]
	}

	var lenBuf [2]byte

	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(enc)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, enc...)

	return dst
}

// decodeText reads a u16-length-prefixed, UTF-8-codec-encoded string from
// the front of buf and returns the string plus the remaining bytes.
func decodeText(buf []byte) (string, []byte, error) {
	if len(buf) < 2 {
		return "", nil, ErrCorrupt
	}

	n := int(binary.LittleEndian.Uint16(buf[0:2]))
	buf = buf[2:]

	if len(buf) < n {
		return "", nil, ErrCorrupt
	}

	raw := buf[:n]
	buf = buf[n:]

	runes := make([]rune, n)

	res, err := utf8Codec.Decode(raw, runes)
	if err != nil {
		return "", nil, fmt.Errorf("logstore: decoding event text: %w", ErrCorrupt)
	}

	return string(runes[:res.CharsProduced]), buf, nil
}

// serializeEvent packs ev into the data-region byte layout: fixed-width
// numeric fields first, then each textual field length-prefixed.
func serializeEvent(ev LogEvent) []byte {
	buf := make([]byte, 0, 128)

	var fixed [40]byte

	binary.LittleEndian.PutUint64(fixed[0:8], uint64(ev.LoggedAt))
	binary.LittleEndian.PutUint32(fixed[8:12], ev.Line)
	fixed[12] = byte(ev.Severity)
	fixed[13] = byte(ev.ErrClass)
	binary.LittleEndian.PutUint32(fixed[16:20], ev.ErrorCode)
	binary.LittleEndian.PutUint32(fixed[20:24], ev.KernelErrorCode)
	binary.LittleEndian.PutUint32(fixed[24:28], ev.HostErrorCode)
	binary.LittleEndian.PutUint32(fixed[28:32], ev.Seq)

	buf = append(buf, fixed[:]...)

	buf = encodeText(buf, ev.Host)
	buf = encodeText(buf, ev.Process)
	buf = encodeText(buf, ev.Facility)
	buf = encodeText(buf, ev.Thread)
	buf = encodeText(buf, ev.File)
	buf = encodeText(buf, ev.Message)
	buf = encodeText(buf, ev.AuxText)

	return buf
}

// deserializeEvent is the inverse of [serializeEvent]. A malformed buffer
// (truncated, bad length prefix) yields [ErrCorrupt]; callers treat that as
// a single-block corruption and substitute a synthetic placeholder event
// rather than aborting the whole query, per §4.D.2.
func deserializeEvent(buf []byte) (LogEvent, error) {
	if len(buf) < 40 {
		return LogEvent{}, ErrCorrupt
	}

	var ev LogEvent

	ev.LoggedAt = int64(binary.LittleEndian.Uint64(buf[0:8]))
	ev.Line = binary.LittleEndian.Uint32(buf[8:12])
	ev.Severity = Severity(buf[12])
	ev.ErrClass = ErrClass(buf[13])
	ev.ErrorCode = binary.LittleEndian.Uint32(buf[16:20])
	ev.KernelErrorCode = binary.LittleEndian.Uint32(buf[20:24])
	ev.HostErrorCode = binary.LittleEndian.Uint32(buf[24:28])
	ev.Seq = binary.LittleEndian.Uint32(buf[28:32])

	rest := buf[40:]

	var err error

	if ev.Host, rest, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	if ev.Process, rest, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	if ev.Facility, rest, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	if ev.Thread, rest, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	if ev.File, rest, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	if ev.Message, rest, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	if ev.AuxText, _, err = decodeText(rest); err != nil {
		return LogEvent{}, err
	}

	return ev, nil
}

// placeholderEvent synthesizes the event substituted for an unreadable
// block during a query, per §4.D.2.
func placeholderEvent(loggedAt int64, seq uint32) LogEvent {
	return LogEvent{
		LoggedAt: loggedAt,
		Seq:      seq,
		Severity: SevSysFatal,
		ErrClass: ClassInternal,
		Message:  syntheticMessageCorruptBlock,
	}
}
