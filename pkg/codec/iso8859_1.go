package codec

// iso8859_1Converter implements ISO-8859-1 (Latin-1): byte value equals
// code point for every byte, except that the C1 control block
// (0x7F and 0x80..0x9F) is treated as invalid, per the fixed 256-entry
// validity table spec'd for this encoding. golang.org/x/text's Latin-1
// table is a pure identity mapping with no notion of an invalid byte, so
// this converter is implemented directly rather than through charmap.
type iso8859_1Converter struct {
	action ErrorAction
}

func newISO8859_1Converter(action ErrorAction) Converter {
	return &iso8859_1Converter{action: action}
}

func (c *iso8859_1Converter) ErrorAction() ErrorAction { return c.action }

func iso8859_1Valid(b byte) bool {
	return !(b == 0x7F || (b >= 0x80 && b <= 0x9F))
}

func (c *iso8859_1Converter) Decode(src []byte, dst []rune) (DecodeResult, error) {
	var res DecodeResult

	for i, b := range src {
		if res.CharsProduced >= len(dst) {
			break
		}

		if iso8859_1Valid(b) {
			dst[res.CharsProduced] = rune(b)
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

func (c *iso8859_1Converter) Encode(src []rune, dst []byte) (EncodeResult, error) {
	var res EncodeResult

	for i, ch := range src {
		if res.BytesProduced >= len(dst) {
			break
		}

		if ch >= 0 && ch <= 0xFF && iso8859_1Valid(byte(ch)) {
			dst[res.BytesProduced] = byte(ch)
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
