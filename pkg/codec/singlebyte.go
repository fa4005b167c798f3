package codec

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// singleByteConverter implements a single-byte table codec (one byte per
// char in either direction) by driving a [*charmap.Charmap] one unit at a
// time. charmap's own Decoder/Encoder are "total": on an input that has no
// entry in the table they do not themselves return a usable error, they
// fall through to Unicode's replacement rune (decode) or fail the
// transform (encode). This adapter drives both one byte/rune at a time and
// interprets either outcome as an invalid unit for purposes of the
// configured [ErrorAction], matching the byte→0xFFFF / no-encode-entry
// sentinel contract spec'd for table codecs.
type singleByteConverter struct {
	action ErrorAction
	table  *charmap.Charmap
}

func newSingleByteFactory(table *charmap.Charmap) Factory {
	return func(action ErrorAction) Converter {
		return &singleByteConverter{action: action, table: table}
	}
}

func (c *singleByteConverter) ErrorAction() ErrorAction { return c.action }

func (c *singleByteConverter) decodeByte(b byte) (rune, bool) {
	var buf [utf8.UTFMax]byte

	dec := c.table.NewDecoder()

	n, _, err := dec.Transform(buf[:], []byte{b}, true)
	if err != nil || n == 0 {
		return 0, false
	}

	r, _ := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError {
		return 0, false
	}

	return r, true
}

func (c *singleByteConverter) encodeRune(r rune) (byte, bool) {
	var srcBuf [utf8.UTFMax]byte

	n := utf8.EncodeRune(srcBuf[:], r)

	var dstBuf [4]byte

	enc := c.table.NewEncoder()

	nDst, _, err := enc.Transform(dstBuf[:], srcBuf[:n], true)
	if err != nil || nDst != 1 {
		return 0, false
	}

	return dstBuf[0], true
}

func (c *singleByteConverter) Decode(src []byte, dst []rune) (DecodeResult, error) {
	var res DecodeResult

	for i, b := range src {
		if res.CharsProduced >= len(dst) {
			break
		}

		r, ok := c.decodeByte(b)
		if ok {
			dst[res.CharsProduced] = r
			res.CharsProduced++
			res.SrcConsumed = i + 1

			continue
		}

		switch c.action.Mode {
		case ModeThrow:
			return DecodeResult{}, ErrInvalidInput
		case ModeStopThenThrow:
			if res.CharsProduced == 0 {
				return DecodeResult{}, ErrInvalidInput
			}

			res.Halted = true

			return res, nil
		case ModeReplace:
			dst[res.CharsProduced] = c.action.ReplaceChar
			res.CharsProduced++
			res.SrcConsumed = i + 1
		}
	}

	return res, nil
}

func (c *singleByteConverter) Encode(src []rune, dst []byte) (EncodeResult, error) {
	var res EncodeResult

	for i, ch := range src {
		if res.BytesProduced >= len(dst) {
			break
		}

		b, ok := c.encodeRune(ch)
		if ok {
			dst[res.BytesProduced] = b
			res.BytesProduced++
			res.SrcConsumed = i + 1

			continue
		}

		switch c.action.Mode {
		case ModeThrow:
			return EncodeResult{}, ErrInvalidInput
		case ModeStopThenThrow:
			if res.BytesProduced == 0 {
				return EncodeResult{}, ErrInvalidInput
			}

			res.Halted = true

			return res, nil
		case ModeReplace:
			dst[res.BytesProduced] = c.action.ReplaceByte
			res.BytesProduced++
			res.SrcConsumed = i + 1
		}
	}

	return res, nil
}
