package logstore

import "errors"

// ErrCorrupt indicates the store file's header or index arrays failed a
// layout check (bad marker, bad sentinel, or a failed integrity checksum).
// [Open] does not return it for a corrupt file: it panic-resets instead
// (the file is deleted and reinitialized empty, per §9(a)) and succeeds.
// A stored event block that fails to decode also yields ErrCorrupt
// internally, which queries replace with a placeholder event.
var ErrCorrupt = errors.New("logstore: store file is corrupt")

// ErrCapacityExhausted is returned when no key slot, free slot, or byte of
// file space can be made available for a write even after eviction,
// coalescing, expansion, and full compaction have all been tried.
var ErrCapacityExhausted = errors.New("logstore: store capacity exhausted")

// ErrCompactionFailed indicates a full compaction could not complete (a
// temp-file write or the current/backup rename dance failed partway). The
// store panic-resets rather than risk a half-written file.
var ErrCompactionFailed = errors.New("logstore: compaction failed, store was reset")

// ErrEventTooLarge is returned internally when a serialized event exceeds
// [maxEventBytes]; callers of [Store.LogOne] never see it because an
// oversize event is dropped rather than rejected, per §4.D.1. It is
// exported so callers of [Store.LogMany] can distinguish a dropped event
// from one actually written, via the per-event drop count.
var ErrEventTooLarge = errors.New("logstore: event exceeds maximum size and was dropped")

// ErrBadQueryArgument is returned by the query methods when a caller passes
// a malformed regex filter or a non-positive minutes count.
var ErrBadQueryArgument = errors.New("logstore: invalid query argument")

// ErrStoreClosed is returned by any method called after [Store.Close].
var ErrStoreClosed = errors.New("logstore: store is closed")

// ErrUnknownWatermark is reported in-band to a live-tail subscriber (as a
// synthetic event), never returned from [Store.GetLiveEvents] as a Go
// error, per the desync protocol in §4.E.
var ErrUnknownWatermark = errors.New("logstore: watermark not recognized")
