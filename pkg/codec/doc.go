// Package codec provides a process-wide registry of byte↔Unicode text
// converters and the shared error-action contract every converter in the
// family honors.
//
// A [Converter] is obtained from a [Registry] by alias (case-insensitive,
// e.g. "UTF-8", "CP1252", "ISO-8859-2") and is bound to one [ErrorAction] for
// its lifetime. The table-based single-byte encodings other than ISO-8859-1
// are thin adapters over golang.org/x/text/encoding/charmap; US-ASCII,
// UTF-8, UTF-16, UCS-4 and ISO-8859-1 are implemented directly in this
// package.
package codec
