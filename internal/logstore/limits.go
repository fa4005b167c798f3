package logstore

const (
	// maxKeys is MAX_KEYS: the fixed capacity of the key slot array.
	maxKeys = 8192

	// maxFrees is MAX_FREES: the fixed capacity of the free slot array.
	maxFrees = 2048

	// layoutSentinel separates the key array from the free array on disk
	// as a layout-verification marker.
	layoutSentinel uint32 = 0xDEADBEEF

	// expandChunkBytes is EXPAND_K: the granularity of file growth.
	expandChunkBytes = 256 * 1024

	// evictBatchSize is the number of oldest keys evicted at once, per
	// §4.D.1 step 2 and §4.D.4.
	evictBatchSize = 512

	// maxEventBytes bounds the serialized size of any one event; larger
	// events are silently dropped at write time.
	maxEventBytes = 2048

	// minResidualFreeBytes is the free-list-trim absorption threshold of
	// §4.D.1 step 10. Kept as a named constant per the Open Question
	// resolution in SPEC_FULL.md §9(c): do not change without
	// re-measuring fragmentation against a real write distribution.
	minResidualFreeBytes = 128

	// coalesceMinFreeEntries is the free-list population at or above which
	// §4.D.6 coalescing is worth attempting (the 64 in "only invoked when
	// at least 64 free entries exist").
	coalesceMinFreeEntries = 64

	// coalesceRecheckThreshold triggers a second coalescing pass from
	// inside eviction, per §4.D.4 step 6.
	coalesceRecheckThreshold = 256

	// maxQueryCount is the upper clamp for QueryByCount's maxReturn and
	// QueryFiltered's Max, the default when a caller passes 0, and the
	// fixed cap on the number of events QueryByMinutes returns.
	maxQueryCount = 256

	// headerMarker is the 7-byte ASCII marker at the start of a valid
	// store file.
	headerMarker = "CIDLOG\x00"

	// fmtVersion is the on-disk format version this build writes and
	// expects to read.
	fmtVersion = 1
)
