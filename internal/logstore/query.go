package logstore

import (
	"regexp"
	"sort"
	"time"
)

// QueryFilter narrows a query by severity and error class bitmasks and
// per-field regexes on Host/Process/Facility/Thread, per §4.D.3b's
// QueryFiltered(max, host_re, proc_re, fac_re, thread_re, sev_bits,
// class_bits) signature. A zero SeverityMask or ClassMask matches
// everything on that dimension; an empty pattern or the literal "*"
// wildcard matches everything for that field without compiling a regex.
// Max of 0 is treated as [maxQueryCount], same as [Store.QueryByCount].
type QueryFilter struct {
	Max             int
	SeverityMask    uint64
	ClassMask       uint64
	HostPattern     string
	ProcessPattern  string
	FacilityPattern string
	ThreadPattern   string
}

// matchesKeyBitmask reports whether a key-array entry passes this filter's
// severity/class bitmasks, without touching the data region. Used by
// [Store.QueryFiltered] to short-circuit before any I/O.
func (f QueryFilter) matchesKeyBitmask(k keyItem) bool {
	if f.SeverityMask != 0 && f.SeverityMask&(1<<uint(k.sev)) == 0 {
		return false
	}

	if f.ClassMask != 0 && f.ClassMask&(1<<uint(k.class)) == 0 {
		return false
	}

	return true
}

// QueryByCount returns up to maxReturn of the most recent events, newest
// first, per §4.D.2. maxReturn of 0 is treated as [maxQueryCount].
func (s *Store) QueryByCount(maxReturn int) ([]LogEvent, error) {
	s.lock.lockRead()
	defer s.lock.unlockRead()

	s.metrics.queriesTotal.WithLabelValues("by_count").Inc()

	maxReturn = clampQueryCount(maxReturn)

	order := s.sortedKeyOrder()
	if len(order) > maxReturn {
		order = order[len(order)-maxReturn:]
	}

	return s.readEventsNewestFirst(order)
}

// QueryByMinutes returns every event logged within the last minutes
// minutes, newest first, capped at [maxQueryCount], per §4.D.3a.
func (s *Store) QueryByMinutes(minutes int) ([]LogEvent, error) {
	if minutes <= 0 {
		return nil, ErrBadQueryArgument
	}

	s.lock.lockRead()
	defer s.lock.unlockRead()

	s.metrics.queriesTotal.WithLabelValues("by_minutes").Inc()

	cutoff := s.approxNow() - int64(minutes)*60*1e7

	order := s.sortedKeyOrder()

	var filtered []int

	for _, i := range order {
		if s.keys[i].loggedAt >= cutoff {
			filtered = append(filtered, i)
		}
	}

	if len(filtered) > maxQueryCount {
		filtered = filtered[len(filtered)-maxQueryCount:]
	}

	return s.readEventsNewestFirst(filtered)
}

// compilePattern compiles pattern into a regex, unless it is empty or the
// literal "*" wildcard, in which case it returns (nil, nil) — the
// wildcard shortcut of §4.D.3b that skips both compilation and the
// per-event match test.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == "*" {
		return nil, nil
	}

	return regexp.Compile(pattern)
}

// QueryFiltered walks the sorted view in reverse time order, per §4.D.3b:
// for each entry it checks the severity/class bitmasks against the key
// index first (no I/O), and only for entries that pass does it read the
// block and test the four field regexes, stopping as soon as filter.Max
// entries have been accepted or the view is exhausted. Result is in
// reverse time order (newest first), matching the spec's documented
// QueryFiltered contract.
func (s *Store) QueryFiltered(filter QueryFilter) ([]LogEvent, error) {
	hostRE, err := compilePattern(filter.HostPattern)
	if err != nil {
		return nil, ErrBadQueryArgument
	}

	procRE, err := compilePattern(filter.ProcessPattern)
	if err != nil {
		return nil, ErrBadQueryArgument
	}

	facRE, err := compilePattern(filter.FacilityPattern)
	if err != nil {
		return nil, ErrBadQueryArgument
	}

	threadRE, err := compilePattern(filter.ThreadPattern)
	if err != nil {
		return nil, ErrBadQueryArgument
	}

	s.lock.lockRead()
	defer s.lock.unlockRead()

	s.metrics.queriesTotal.WithLabelValues("filtered").Inc()

	max := clampQueryCount(filter.Max)

	order := s.sortedKeyOrder()

	out := make([]LogEvent, 0, max)

	for i := len(order) - 1; i >= 0 && len(out) < max; i-- {
		k := s.keys[order[i]]

		if !filter.matchesKeyBitmask(k) {
			continue
		}

		ev := s.readOneEvent(k)

		if hostRE != nil && !hostRE.MatchString(ev.Host) {
			continue
		}

		if procRE != nil && !procRE.MatchString(ev.Process) {
			continue
		}

		if facRE != nil && !facRE.MatchString(ev.Facility) {
			continue
		}

		if threadRE != nil && !threadRE.MatchString(ev.Thread) {
			continue
		}

		out = append(out, ev)
	}

	return out, nil
}

// RemoveAll tombstones every live key, freeing all of its data-region
// space, and resets the live-tail queue. It is idempotent: calling it on
// an already-empty store succeeds trivially, per §8's idempotent
// RemoveAll law.
func (s *Store) RemoveAll() error {
	s.lock.lockWrite()
	defer s.lock.unlockWrite()

	if s.closed {
		return ErrStoreClosed
	}

	s.evictOldest(len(s.keys))
	s.tail = newLiveTail()

	return nil
}

// sortedKeyOrder returns indices into s.keys sorted oldest-first by
// (loggedAt, seq).
func (s *Store) sortedKeyOrder() []int {
	order := make([]int, len(s.keys))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(a, b int) bool {
		ka, kb := s.keys[order[a]], s.keys[order[b]]
		if ka.loggedAt != kb.loggedAt {
			return ka.loggedAt < kb.loggedAt
		}

		return ka.seq < kb.seq
	})

	return order
}

// readEventsNewestFirst reads the data-region bytes for each index in
// order (assumed oldest-first) and returns them newest-first. A block
// that fails to deserialize is never allowed to abort the whole query;
// it is replaced with a synthetic placeholder event, per §4.D.2.
func (s *Store) readEventsNewestFirst(order []int) ([]LogEvent, error) {
	events, err := s.readEventsOldestFirst(order)
	if err != nil {
		return nil, err
	}

	reverse(events)

	return events, nil
}

func (s *Store) readEventsOldestFirst(order []int) ([]LogEvent, error) {
	events := make([]LogEvent, 0, len(order))

	for _, i := range order {
		events = append(events, s.readOneEvent(s.keys[i]))
	}

	return events, nil
}

// readOneEvent reads and deserializes the data-region bytes for k. A
// block that fails to read or deserialize never aborts the caller's
// query; it is replaced with a synthetic placeholder event, per §4.D.2.
func (s *Store) readOneEvent(k keyItem) LogEvent {
	raw := make([]byte, k.size)
	if err := readFullAt(s.file, raw, storeOffset+int64(k.offset)); err != nil {
		return placeholderEvent(k.loggedAt, k.seq)
	}

	ev, err := deserializeEvent(raw)
	if err != nil {
		return placeholderEvent(k.loggedAt, k.seq)
	}

	return ev
}

func reverse(evs []LogEvent) {
	for i, j := 0, len(evs)-1; i < j; i, j = i+1, j-1 {
		evs[i], evs[j] = evs[j], evs[i]
	}
}

func clampQueryCount(n int) int {
	if n <= 0 || n > maxQueryCount {
		return maxQueryCount
	}

	return n
}

// approxNow returns the current time in the store's 100ns-tick timestamp
// unit. Exposed as a method (rather than a free function) so tests can
// embed a Store with a fixed clock if ever needed; today it always uses
// the wall clock.
func (s *Store) approxNow() int64 {
	return time.Now().UnixNano() / 100
}
