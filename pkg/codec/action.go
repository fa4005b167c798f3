package codec

// ActionMode selects how a [Converter] responds to an invalid input unit.
type ActionMode uint8

const (
	// ModeThrow raises [ErrInvalidInput] on the first invalid unit and
	// produces nothing for that call.
	ModeThrow ActionMode = iota

	// ModeStopThenThrow halts at the boundary before the bad input and
	// returns the units produced so far with Halted set, as long as at
	// least one unit was produced. If the very first unit is bad, it
	// behaves like ModeThrow.
	ModeStopThenThrow

	// ModeReplace substitutes a caller-chosen replacement unit for the bad
	// input and continues.
	ModeReplace
)

// ErrorAction binds one of the three on-error behaviors to the replacement
// units a [ModeReplace] action uses. ReplaceChar is consulted by Decode,
// ReplaceByte by Encode; only one is meaningful for any given call.
type ErrorAction struct {
	Mode        ActionMode
	ReplaceChar rune
	ReplaceByte byte
}

// Throw returns the Throw error action.
func Throw() ErrorAction {
	return ErrorAction{Mode: ModeThrow}
}

// StopThenThrow returns the StopThenThrow error action.
func StopThenThrow() ErrorAction {
	return ErrorAction{Mode: ModeStopThenThrow}
}

// ReplaceWith returns a Replace error action substituting ch while decoding
// and b while encoding.
func ReplaceWith(ch rune, b byte) ErrorAction {
	return ErrorAction{Mode: ModeReplace, ReplaceChar: ch, ReplaceByte: b}
}
