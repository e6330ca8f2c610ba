package store

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"simcore/agent"
	"simcore/numa"
)

// DefaultChunkSize is the number of agents a worker claims per unit of
// work-stealing, the chunk size ForEachAgentParallel falls back to when
// the caller does not supply one.
const DefaultChunkSize = 256

// chunk is one contiguous run of elements within one (numa, kind) block.
type chunk struct {
	numa  int
	kind  agent.Kind
	start int
	end   int // exclusive
}

// ForEachAgentParallel visits every agent exactly once, parallelized
// across workers bound (conceptually; see numa.BindCurrentGoroutine) to
// their preferred NUMA domain. Each worker exhausts chunks local to its
// domain first and then steals chunks from other domains via a shared
// work-stealing counter per domain (spec.md section 4.1).
//
// fn receives the domain id of the goroutine currently calling it, not
// the domain the agent was originally partitioned into (a stolen chunk
// runs under the thief's domain id). Callers that keep per-domain state
// not safe to share across goroutines — an execctx.Context, an
// rng.Stream — index it by this id.
func (s *Store) ForEachAgentParallel(fn func(domain int, a agent.Agent), chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	s.mu.RLock()
	chunksByDomain := make([][]chunk, len(s.partitions))
	for numaID, kinds := range s.partitions {
		var kindsSorted []agent.Kind
		for k := range kinds {
			kindsSorted = append(kindsSorted, k)
		}
		sort.Slice(kindsSorted, func(i, j int) bool { return kindsSorted[i] < kindsSorted[j] })

		for _, k := range kindsSorted {
			n := kinds[k].Len()
			for start := 0; start < n; start += chunkSize {
				end := start + chunkSize
				if end > n {
					end = n
				}
				chunksByDomain[numaID] = append(chunksByDomain[numaID], chunk{numa: numaID, kind: k, start: start, end: end})
			}
		}
	}
	s.mu.RUnlock()

	numDomains := len(s.partitions)
	steal := numa.NewStealCounters(numDomains)

	nworkers := 0
	for _, cs := range chunksByDomain {
		if len(cs) > 0 {
			nworkers++
		}
	}
	if nworkers == 0 {
		nworkers = 1
	}

	var g errgroup.Group
	for d := 0; d < numDomains; d++ {
		d := d
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("store: worker for domain %d panicked: %v", d, r)
				}
			}()
			numa.BindCurrentGoroutine(numa.ThreadInfo{Node: numa.NodeID(d)})
			return s.drainDomain(d, chunksByDomain, steal, fn)
		})
	}
	return g.Wait()
}

// drainDomain processes every chunk local to domain d, then steals from
// other domains (round-robin) until no work remains anywhere. Every
// chunk run here, local or stolen, is reported to fn under d: d is the
// id of the goroutine doing the work, which is what a caller's
// per-domain state needs to be indexed by.
func (s *Store) drainDomain(d int, chunksByDomain [][]chunk, steal *numa.StealCounters, fn func(domain int, a agent.Agent)) error {
	local := chunksByDomain[d]
	for idx := numa.NodeID(d); ; {
		n := steal.Next(idx)
		if int(n) >= len(chunksByDomain[int(idx)]) {
			break
		}
		s.runChunk(d, local[n], fn)
	}

	numDomains := len(chunksByDomain)
	for offset := 1; offset < numDomains; offset++ {
		other := (d + offset) % numDomains
		for {
			n := steal.Next(numa.NodeID(other))
			if int(n) >= len(chunksByDomain[other]) {
				break
			}
			s.runChunk(d, chunksByDomain[other][n], fn)
		}
	}
	return nil
}

func (s *Store) runChunk(workerDomain int, c chunk, fn func(domain int, a agent.Agent)) {
	s.mu.RLock()
	block := s.partitions[c.numa][c.kind]
	s.mu.RUnlock()
	for i := c.start; i < c.end; i++ {
		fn(workerDomain, block.Get(i))
	}
}
