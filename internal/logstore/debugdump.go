package logstore

import dto "github.com/prometheus/client_model/go"

// DebugDump is a diagnostic snapshot of the store's internal state, per
// §4.F. It is never part of the data path; callers use it for
// operational visibility (the same counters are also exported as
// Prometheus metrics).
type DebugDump struct {
	KeysUsed        int
	FreesUsed       int
	LastSeq         uint32
	FileSizeBytes   int64
	LiveTailLength  int
	OversizeDropped float64
}

// Dump returns a [DebugDump] of the current state.
func (s *Store) Dump() DebugDump {
	s.lock.lockRead()
	defer s.lock.unlockRead()

	return DebugDump{
		KeysUsed:        len(s.keys),
		FreesUsed:       len(s.frees),
		LastSeq:         s.header.lastSeq,
		FileSizeBytes:   s.fileSize,
		LiveTailLength:  s.tail.length,
		OversizeDropped: readCounterValue(s.metrics.oversizeDropped),
	}
}

func readCounterValue(c interface {
	Write(*dto.Metric) error
},
) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}

	return m.GetCounter().GetValue()
}
