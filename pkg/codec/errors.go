package codec

import "errors"

// ErrUnsupportedEncoding is returned by [Registry.Make] when no factory is
// registered for the requested alias.
var ErrUnsupportedEncoding = errors.New("codec: unsupported encoding")

// ErrInvalidInput is raised by [Converter.Decode] and [Converter.Encode]
// under the Throw and StopThenThrow [ErrorAction] modes when an invalid byte
// sequence or unrepresentable character is encountered and no prior unit in
// the same call could be returned instead. See [ErrorAction] for the three
// on-error behaviors.
var ErrInvalidInput = errors.New("codec: invalid input for configured error action")
