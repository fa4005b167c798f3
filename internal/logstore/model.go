package logstore

// Severity is the severity level of a [LogEvent]. At most 32 values are
// permitted so that a caller's severity filter fits in a u64 bitmask.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarn
	SevFailed
	SevStatus
	SevProcFatal
	SevSysFatal
)

// ErrClass classifies why a [LogEvent] represents an error. At most 64
// values are permitted so a caller's class filter fits in a u64 bitmask.
type ErrClass uint8

const (
	ClassNone ErrClass = iota
	ClassFormat
	ClassNotFound
	ClassTimeout
	ClassInternal
	ClassAppStatus
	ClassPlatform
	ClassPermission
)

// LogEvent is an immutable record produced by a logger and consumed by the
// store and the live-tail queue.
type LogEvent struct {
	// LoggedAt is a 100-nanosecond-resolution timestamp since the Unix
	// epoch. Total order on LoggedAt (ties broken by Seq) is the sort key
	// every query uses.
	LoggedAt int64

	Host     string
	Process  string
	Facility string
	Thread   string
	File     string
	Message  string
	AuxText  string

	Line     uint32
	Severity Severity
	ErrClass ErrClass

	ErrorCode       uint32
	KernelErrorCode uint32
	HostErrorCode   uint32

	// Seq is assigned by the store at write time; callers never set it on
	// input.
	Seq uint32
}

// Synthetic message texts for live-tail desync conditions the subscriber
// protocol reports in-band, per §4.E.
const (
	syntheticMessageMissedEvents = "[live-tail] one or more events were missed before this point"
	syntheticMessageOutOfSync    = "[live-tail] subscriber out of sync; watermark reset"
	syntheticMessageBadWatermark = "[live-tail] unrecognized watermark; watermark reset"
	syntheticMessageCorruptBlock = "[logstore] stored event could not be read back (corrupt block)"
)
