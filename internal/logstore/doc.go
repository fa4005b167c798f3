// Package logstore implements a single-file, crash-tolerant event store: a
// fixed-size header, an in-memory key index and free-list allocator backed
// by fixed on-disk slot arrays, a data region grown in fixed chunks, and a
// background flusher that persists the header and both index arrays.
//
// Grounded on the on-disk header/offset layout and sentinel-error style of
// pkg/slotcache (calvinalkan-agent-task's mmap slot cache), generalized
// from a single fixed-size hash-bucket slot array to a key-list + free-list
// + data-region model. Concurrency is a single write-preferring
// storeLock (lock.go) rather than slotcache's seqlock/mmap model — see DESIGN.md
// for why the simpler model was kept.
package logstore
