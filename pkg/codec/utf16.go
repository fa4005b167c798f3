package codec

import "encoding/binary"

// utf16Converter implements UTF-16 in either byte order: 2 bytes per code
// unit, valid surrogate pairs combine into one supplementary rune, lone
// surrogates are invalid, and an odd trailing byte at the end of src always
// defers to the next call. Implemented directly against encoding/binary
// rather than golang.org/x/text/encoding/unicode — see DESIGN.md.
type utf16Converter struct {
	action       ErrorAction
	littleEndian bool
}

func newUTF16LEConverter(action ErrorAction) Converter {
	return &utf16Converter{action: action, littleEndian: true}
}

func newUTF16BEConverter(action ErrorAction) Converter {
	return &utf16Converter{action: action, littleEndian: false}
}

func (c *utf16Converter) ErrorAction() ErrorAction { return c.action }

func (c *utf16Converter) order() binary.ByteOrder {
	if c.littleEndian {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u <= 0xDBFF }
func isLowSurrogate(u uint16) bool  { return u >= 0xDC00 && u <= 0xDFFF }

func (c *utf16Converter) Decode(src []byte, dst []rune) (DecodeResult, error) {
	var res DecodeResult

	order := c.order()

	i := 0
	for i+2 <= len(src) {
		if res.CharsProduced >= len(dst) {
			break
		}

		u := order.Uint16(src[i : i+2])

		switch {
		case isHighSurrogate(u):
			if i+4 > len(src) {
				// Not enough bytes yet for the low surrogate: defer.
				res.Halted = true

				return res, nil
			}

			low := order.Uint16(src[i+2 : i+4])
			if !isLowSurrogate(low) {
				if handled, halt, err := c.handleInvalid(&res, dst); err != nil {
					return DecodeResult{}, err
				} else if halt {
					return res, nil
				} else if handled {
					i += 2
					res.SrcConsumed = i

					continue
				}
			}

			r := (rune(u-0xD800) << 10) + rune(low-0xDC00) + 0x10000
			dst[res.CharsProduced] = r
			res.CharsProduced++
			i += 4
			res.SrcConsumed = i

		case isLowSurrogate(u):
			if handled, halt, err := c.handleInvalid(&res, dst); err != nil {
				return DecodeResult{}, err
			} else if halt {
				return res, nil
			} else if handled {
				i += 2
				res.SrcConsumed = i

				continue
			}

			i += 2

		default:
			dst[res.CharsProduced] = rune(u)
			res.CharsProduced++
			i += 2
			res.SrcConsumed = i
		}
	}

	if i < len(src) {
		// A single dangling byte: half of the next code unit.
		res.Halted = true
	}

	return res, nil
}

func (c *utf16Converter) handleInvalid(res *DecodeResult, dst []rune) (handled, halt bool, err error) {
	switch c.action.Mode {
	case ModeThrow:
		*res = DecodeResult{}

		return false, true, ErrInvalidInput
	case ModeStopThenThrow:
		if res.CharsProduced == 0 {
			return false, false, ErrInvalidInput
		}

		res.Halted = true

		return false, true, nil
	case ModeReplace:
		dst[res.CharsProduced] = c.action.ReplaceChar
		res.CharsProduced++

		return true, false, nil
	default:
		return false, false, ErrInvalidInput
	}
}

func (c *utf16Converter) Encode(src []rune, dst []byte) (EncodeResult, error) {
	var res EncodeResult

	order := c.order()

	for idx, ch := range src {
		valid := ch >= 0 && ch <= 0x10FFFF && !(ch >= 0xD800 && ch <= 0xDFFF)
		if !valid {
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
				ch = c.action.ReplaceChar
			}
		}

		if ch <= 0xFFFF {
			if res.BytesProduced+2 > len(dst) {
				break
			}

			order.PutUint16(dst[res.BytesProduced:], uint16(ch))
			res.BytesProduced += 2
			res.SrcConsumed = idx + 1

			continue
		}

		if res.BytesProduced+4 > len(dst) {
			break
		}

		v := ch - 0x10000
		high := uint16(0xD800 + (v >> 10))
		low := uint16(0xDC00 + (v & 0x3FF))
		order.PutUint16(dst[res.BytesProduced:], high)
		order.PutUint16(dst[res.BytesProduced+2:], low)
		res.BytesProduced += 4
		res.SrcConsumed = idx + 1
	}

	return res, nil
}
