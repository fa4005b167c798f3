package service

import (
	"errors"

	"github.com/cidlogsrv/cidlogsrv/internal/logstore"
)

// Code is a closed set of response codes every facade reply carries,
// independent of the underlying Go error's message text, per §7's
// "service facade maps everything to Unavailable/InvalidArgument/
// Internal" rule.
type Code string

const (
	CodeOK              Code = "ok"
	CodeInvalidArgument Code = "invalid_argument"
	CodeUnavailable     Code = "unavailable"
	CodeInternal        Code = "internal"
)

// codeFor classifies err into a [Code]. A nil err maps to [CodeOK].
func codeFor(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, logstore.ErrBadQueryArgument), errors.Is(err, logstore.ErrEventTooLarge):
		return CodeInvalidArgument
	case errors.Is(err, logstore.ErrStoreClosed):
		return CodeUnavailable
	case errors.Is(err, logstore.ErrCorrupt),
		errors.Is(err, logstore.ErrCapacityExhausted),
		errors.Is(err, logstore.ErrCompactionFailed):
		return CodeInternal
	default:
		return CodeInternal
	}
}
