package logstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(newMemFS(), "test.cidlog", prometheus.NewRegistry())
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

// Scenario 1: a fresh store accepts a write and reads it back unchanged.
func Test_Scenario1_FreshStore_Write_Then_Read_Back(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	ev := LogEvent{LoggedAt: 100, Host: "h1", Process: "p1", Message: "hello world", Severity: SevInfo}

	require.NoError(t, s.LogOne(ev))

	got, err := s.QueryByCount(10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "hello world", got[0].Message)
	assert.Equal(t, uint32(1), got[0].Seq)
}

func Test_LogOne_Assigns_Monotonically_Increasing_Seq(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Message: "m"}))
	}

	got, err := s.QueryByCount(10)
	require.NoError(t, err)
	require.Len(t, got, 5)

	// newest first
	for i := 0; i < 4; i++ {
		assert.Greater(t, got[i].Seq, got[i+1].Seq)
	}
}

func Test_LogOne_Drops_Oversize_Event_Without_Error(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	huge := LogEvent{LoggedAt: 1, Message: string(make([]byte, maxEventBytes*2))}

	err := s.LogOne(huge)
	require.NoError(t, err)

	dump := s.Dump()
	assert.Equal(t, 0, dump.KeysUsed)
	assert.Equal(t, float64(1), dump.OversizeDropped)
}

// Scenario 2: filling the store past capacity triggers eviction, and the
// disjoint-partition invariant (every live byte range belongs to exactly
// one key or one free entry, never both) holds afterward.
func Test_Scenario2_Fill_Past_Capacity_Evicts_Oldest_And_Keeps_Disjoint_Partition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for i := 0; i < maxKeys+100; i++ {
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Message: "m"}))
	}

	assert.LessOrEqual(t, len(s.keys), maxKeys)
	assertDisjointPartition(t, s)
}

func assertDisjointPartition(t *testing.T, s *Store) {
	t.Helper()

	type span struct{ start, end uint32 }

	var spans []span

	for _, k := range s.keys {
		spans = append(spans, span{k.offset, k.offset + k.size})
	}

	for _, f := range s.frees {
		spans = append(spans, span{f.offset, f.offset + f.size})
	}

	for i := range spans {
		for j := range spans {
			if i == j {
				continue
			}

			overlap := spans[i].start < spans[j].end && spans[j].start < spans[i].end
			assert.Falsef(t, overlap, "spans overlap: %+v and %+v", spans[i], spans[j])
		}
	}
}

func Test_RemoveAll_Is_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 1, Message: "a"}))
	require.NoError(t, s.RemoveAll())
	require.NoError(t, s.RemoveAll())

	got, err := s.QueryByCount(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func Test_QueryFiltered_Short_Circuits_On_Bitmask_Before_Regex(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 1, Severity: SevInfo, Host: "web1"}))
	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 2, Severity: SevFailed, Host: "web2"}))

	got, err := s.QueryFiltered(QueryFilter{
		SeverityMask: 1 << uint(SevFailed),
		HostPattern:  "web",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SevFailed, got[0].Severity)
}

func Test_QueryFiltered_Wildcard_Pattern_Matches_Everything(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 1, Host: "a"}))
	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 2, Host: "b"}))

	got, err := s.QueryFiltered(QueryFilter{HostPattern: "*"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func Test_QueryFiltered_Stops_Once_Max_Accepted(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Host: "x"}))
	}

	got, err := s.QueryFiltered(QueryFilter{Max: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	// reverse time order: newest first.
	assert.Equal(t, int64(9), got[0].LoggedAt)
	assert.Equal(t, int64(7), got[2].LoggedAt)
}

func Test_QueryFiltered_Rejects_Bad_Regex(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.QueryFiltered(QueryFilter{HostPattern: "("})
	assert.ErrorIs(t, err, ErrBadQueryArgument)
}

func Test_QueryByMinutes_Rejects_NonPositive_Minutes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.QueryByMinutes(0)
	assert.ErrorIs(t, err, ErrBadQueryArgument)
}

func Test_QueryByCount_Zero_Returns_Up_To_Default_Max(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Message: "m"}))
	}

	got, err := s.QueryByCount(0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func Test_GetLiveEvents_Reports_Out_Of_Sync_On_Watermark_Beyond_Tail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 1, Message: "a"}))

	events, newWatermark := s.GetLiveEvents(9999)
	require.Len(t, events, 1)
	assert.Equal(t, syntheticMessageOutOfSync, events[0].Message)
	assert.Equal(t, uint32(2), newWatermark)
}

func Test_GetLiveEvents_Zero_Watermark_Returns_All_Retained(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 1, Message: "a"}))
	require.NoError(t, s.LogOne(LogEvent{LoggedAt: 2, Message: "b"}))

	events, newWatermark := s.GetLiveEvents(0)
	require.Len(t, events, 2)
	assert.Equal(t, uint32(3), newWatermark)
}

func Test_GetLiveEvents_Reports_Missed_Events_When_Watermark_Evicted_From_Head(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	// Index 1 (the first pushed node) will be evicted from the head once
	// more than liveTailCapacity events have been pushed.
	for i := 0; i < liveTailCapacity+1; i++ {
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Message: "m"}))
	}

	events, newWatermark := s.GetLiveEvents(1)
	require.NotEmpty(t, events)
	assert.Equal(t, syntheticMessageMissedEvents, events[0].Message)
	assert.Equal(t, uint32(liveTailCapacity+2), newWatermark)
}

func Test_LiveTail_SinceWatermark_Distinguishes_Desync_Kinds(t *testing.T) {
	t.Parallel()

	freshQueue := func() *liveTail {
		q := newLiveTail()
		for i := 0; i < 3; i++ {
			q.push(LogEvent{Message: "m"})
		}
		// indices 1,2,3 with nextIndex == 4.
		return q
	}

	t.Run("missed events", func(t *testing.T) {
		q := freshQueue()
		q.dropHead() // evicts index 1

		events, newWatermark, kind := q.sinceWatermark(1)
		assert.Equal(t, desyncMissedEvents, kind)
		assert.Equal(t, uint32(4), newWatermark)
		assert.NotEmpty(t, events)
	})

	t.Run("out of sync", func(t *testing.T) {
		q := freshQueue()

		_, newWatermark, kind := q.sinceWatermark(999)
		assert.Equal(t, desyncOutOfSync, kind)
		assert.Equal(t, uint32(4), newWatermark)
	})

	t.Run("bad watermark", func(t *testing.T) {
		q := freshQueue()

		// 2 is within [head.index, tail.index] but, with a gap punched in
		// by directly rewriting the middle node's index, no longer names
		// any node — the defensive case §4.E calls "bad id".
		q.head.next.index = 99

		_, newWatermark, kind := q.sinceWatermark(2)
		assert.Equal(t, desyncBadWatermark, kind)
		assert.Equal(t, uint32(4), newWatermark)
	})

	t.Run("caught up returns unchanged watermark", func(t *testing.T) {
		q := freshQueue()

		events, newWatermark, kind := q.sinceWatermark(4)
		assert.Equal(t, desyncNone, kind)
		assert.Equal(t, uint32(4), newWatermark)
		assert.Empty(t, events)
	})
}

// Repeatedly clearing the store and writing again keeps the key and free
// lists disjoint and the store queryable. This does not reach the full
// compaction path: each RemoveAll coalesces the data region back into a
// single free entry, so every following write fits without compacting.
func Test_RemoveAll_Then_Rewrite_Repeatedly_Keeps_Store_Consistent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for i := 0; i < 2000; i++ {
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Message: "m", Seq: 0}))
	}

	for i := 0; i < 500; i++ {
		require.NoError(t, s.RemoveAll())
		require.NoError(t, s.LogOne(LogEvent{LoggedAt: int64(i), Message: "after-clear"}))
	}

	assertDisjointPartition(t, s)

	got, err := s.QueryByCount(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "after-clear", got[0].Message)
}

func Test_LogMany_Continues_Past_Dropped_Oversize_Events(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	evs := []LogEvent{
		{LoggedAt: 1, Message: "ok"},
		{LoggedAt: 2, Message: string(make([]byte, maxEventBytes*2))},
		{LoggedAt: 3, Message: "ok2"},
	}

	written, err := s.LogMany(evs)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
}

func Test_Operations_After_Close_Return_ErrStoreClosed(t *testing.T) {
	t.Parallel()

	s, err := Open(newMemFS(), "x.cidlog", prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.LogOne(LogEvent{LoggedAt: 1, Message: "m"})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func Test_Open_Reopens_Existing_Store_With_Prior_Events(t *testing.T) {
	t.Parallel()

	fsys := newMemFS()

	want := LogEvent{
		LoggedAt: 1,
		Host:     "h1",
		Process:  "p1",
		Facility: "fac1",
		Thread:   "t1",
		File:     "f.c",
		Message:  "persisted",
		AuxText:  "aux",
		Line:     42,
		Severity: SevWarn,
		ErrClass: ClassPlatform,
	}

	s1, err := Open(fsys, "reopen.cidlog", prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, s1.LogOne(want))
	require.NoError(t, s1.flushHeaderAndIndex())
	require.NoError(t, s1.file.Close())

	s2, err := Open(fsys, "reopen.cidlog", prometheus.NewRegistry())
	require.NoError(t, err)

	got, err := s2.QueryByCount(10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Seq is assigned on write, not supplied by the caller; every other
	// field must survive the round trip through the on-disk layout intact.
	if diff := cmp.Diff(want, got[0], cmpopts.IgnoreFields(LogEvent{}, "Seq")); diff != "" {
		t.Errorf("event mismatch after reopen (-want +got):\n%s", diff)
	}
}

func Test_Open_Corrupt_File_Panic_Resets_To_Empty_Store(t *testing.T) {
	t.Parallel()

	fsys := newMemFS()
	require.NoError(t, fsys.WriteFile("bad.cidlog", []byte("not a valid store file"), 0o644))

	s, err := Open(fsys, "bad.cidlog", prometheus.NewRegistry())
	require.NoError(t, err)

	got, err := s.QueryByCount(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
