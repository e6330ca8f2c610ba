package numa

import "sync/atomic"

// ThreadInfo is what a worker goroutine learns about its own placement at
// startup: its NUMA node and its NUMA-local thread id (spec.md section 5).
type ThreadInfo struct {
	Node        NodeID
	LocalThread int
}

// BindCurrentGoroutine is the seam a platform build would replace with a
// real OS-level affinity call (sched_setaffinity / SetThreadAffinityMask).
// Go does not expose OS-thread binding for goroutines portably, so this
// is a documented no-op here; it exists so that the worker startup in
// store.ForEachAgentParallel matches the source's "bind then discover placement" order
// and so a future platform-specific build has a single seam to replace.
func BindCurrentGoroutine(_ ThreadInfo) {}

// StealCounters hands out a monotonically increasing chunk index per
// NUMA domain, letting an idle worker "steal" the next unclaimed chunk
// from any domain once its own local work is exhausted (spec.md section
// 4.1's work-stealing counter).
type StealCounters struct {
	counters []uint64
}

// NewStealCounters allocates one atomic counter per NUMA domain.
func NewStealCounters(numDomains int) *StealCounters {
	return &StealCounters{counters: make([]uint64, numDomains)}
}

// Next returns the next chunk index to claim for domain d and advances
// its counter. Safe for concurrent use across workers of any domain.
func (s *StealCounters) Next(d NodeID) uint64 {
	return atomic.AddUint64(&s.counters[int(d)], 1) - 1
}

// Peek returns the current counter value for domain d without advancing it.
func (s *StealCounters) Peek(d NodeID) uint64 {
	return atomic.LoadUint64(&s.counters[int(d)])
}
