package codec

// DecodeResult reports the outcome of one [Converter.Decode] call.
type DecodeResult struct {
	// SrcConsumed is the number of source bytes consumed. On a halted call
	// it marks the boundary before the offending byte(s); a thrown call
	// returns a zero DecodeResult.
	SrcConsumed int

	// CharsProduced is the number of runes written into dst.
	CharsProduced int

	// Halted is true when decoding stopped early under ModeStopThenThrow
	// with at least one unit already produced. Dst and SrcConsumed reflect
	// only the good prefix; the caller is expected to fix up the input (or
	// give up) before calling again with the remainder. The UTF-8, UTF-16
	// and UCS-4 converters also set it, under any action, when src ends
	// partway through a unit; SrcConsumed then stops before that partial
	// unit.
	Halted bool
}

// EncodeResult reports the outcome of one [Converter.Encode] call.
type EncodeResult struct {
	SrcConsumed   int
	BytesProduced int
	Halted        bool
}

// Converter transcodes between a byte encoding and Go's native UTF-32 rune
// representation. A Converter is bound to one [ErrorAction] for its entire
// lifetime (set by the [Factory] that built it); callers who need a
// different action make a new Converter via [Registry.Make].
//
// Implementations must never panic on malformed input; every failure mode
// is expressed through the returned error or through DecodeResult.Halted /
// EncodeResult.Halted.
type Converter interface {
	// Decode translates src into dst, writing at most len(dst) runes and
	// returning how much of src was consumed. dst must be large enough for
	// the caller's expected output; otherwise decoding stops once dst is
	// full, leaving the rest of src unconsumed with Halted false (this
	// never happens in practice since callers size dst from len(src)).
	Decode(src []byte, dst []rune) (DecodeResult, error)

	// Encode translates src into dst, writing at most len(dst) bytes.
	Encode(src []rune, dst []byte) (EncodeResult, error)

	// ErrorAction reports the action this Converter was constructed with.
	ErrorAction() ErrorAction
}

// Factory constructs a Converter bound to action. Registered in a [Registry]
// under one or more aliases.
type Factory func(action ErrorAction) Converter
