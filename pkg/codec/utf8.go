package codec

import "unicode/utf8"

// utf8Converter implements standard RFC 3629 UTF-8: over-long forms and
// surrogate code points are invalid, and an unfinished trailing sequence at
// the end of src halts (independent of the configured [ErrorAction]) so the
// caller can retry once more bytes arrive.
type utf8Converter struct {
	action ErrorAction
}

func newUTF8Converter(action ErrorAction) Converter {
	return &utf8Converter{action: action}
}

func (c *utf8Converter) ErrorAction() ErrorAction { return c.action }

// seqLenForLead returns the expected total byte length of a UTF-8 sequence
// starting with lead, or 0 if lead cannot start a valid sequence.
func seqLenForLead(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

func (c *utf8Converter) Decode(src []byte, dst []rune) (DecodeResult, error) {
	var res DecodeResult

	i := 0
	for i < len(src) {
		if res.CharsProduced >= len(dst) {
			break
		}

		remaining := src[i:]

		r, size := utf8.DecodeRune(remaining)
		if r == utf8.RuneError && size <= 1 {
			need := seqLenForLead(remaining[0])
			if need > 1 && len(remaining) < need {
				// Truncated multi-byte sequence at buffer end: defer to
				// the caller's next call, regardless of error action.
				res.Halted = true

				return res, nil
			}

			if handled, halt, err := c.handleInvalid(&res, dst); err != nil {
				return DecodeResult{}, err
			} else if halt {
				return res, nil
			} else if handled {
				i++
				res.SrcConsumed = i

				continue
			}
		}

		if r >= 0xD800 && r <= 0xDFFF {
			// Lone/encoded surrogate code points are always invalid in UTF-8.
			if handled, halt, err := c.handleInvalid(&res, dst); err != nil {
				return DecodeResult{}, err
			} else if halt {
				return res, nil
			} else if handled {
				i += size
				res.SrcConsumed = i

				continue
			}
		}

		dst[res.CharsProduced] = r
		res.CharsProduced++
		i += size
		res.SrcConsumed = i
	}

	return res, nil
}

// handleInvalid applies the converter's error action to one bad input unit.
// It returns handled=true with a replacement char written into dst when the
// action is ModeReplace (caller still must advance its own cursor), or
// halt=true / a non-nil error when decoding must stop.
func (c *utf8Converter) handleInvalid(res *DecodeResult, dst []rune) (handled, halt bool, err error) {
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

func (c *utf8Converter) Encode(src []rune, dst []byte) (EncodeResult, error) {
	var res EncodeResult

	buf := make([]byte, utf8.UTFMax)

	for i, ch := range src {
		valid := utf8.ValidRune(ch) && !(ch >= 0xD800 && ch <= 0xDFFF)

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

		n := utf8.EncodeRune(buf, ch)
		if res.BytesProduced+n > len(dst) {
			break
		}

		copy(dst[res.BytesProduced:], buf[:n])
		res.BytesProduced += n
		res.SrcConsumed = i + 1
	}

	return res, nil
}
