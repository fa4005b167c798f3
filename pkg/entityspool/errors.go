package entityspool

import "errors"

// ErrUnknownDeclaredEncoding is raised when the XML declaration names an
// encoding the codec registry has no converter for.
var ErrUnknownDeclaredEncoding = errors.New("entityspool: unknown declared encoding")

// ErrBadAutoEncoding is raised when the declaration's encoding value
// contradicts the auto-sensed base encoding in a way that cannot be
// reconciled (e.g. the bytes sense as UTF-16 but the declaration claims a
// single-byte encoding).
var ErrBadAutoEncoding = errors.New("entityspool: declared encoding contradicts sensed base encoding")

// ErrMalformedDeclaration is raised when the bootstrap decode cannot find a
// well-formed "<?xml ... ?>" prefix while looking for the encoding pseudo-attribute.
var ErrMalformedDeclaration = errors.New("entityspool: malformed XML declaration")
