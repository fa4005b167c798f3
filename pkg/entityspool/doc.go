// Package entityspool implements a byte-stream reader that auto-senses an
// XML entity's base encoding, bootstraps itself far enough to read the
// entity's own XML declaration, then hands decoded characters to callers
// through a line/column-tracking pull interface.
//
// Grounded on the encoding-sensing and self-bootstrap design of
// CIDXML_EntitySpooler.cpp (see original_source/_INDEX.md), reimplemented
// against [pkg/codec]'s [codec.Converter] interface instead of the
// original's virtual transcoder classes.
package entityspool
