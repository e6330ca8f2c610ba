package store

import (
	"sync"

	"simcore/agent"
	"simcore/logx"
	"simcore/numa"
	"simcore/uid"
)

// Store is the AgentStore / ResourceManager of spec.md section 4.1: a
// typed, NUMA-partitioned SoA container with stable Uid-based identity
// and direct (numa, type, element) addressing.
type Store struct {
	topology *numa.Topology

	mu         sync.RWMutex
	registered map[agent.Kind]bool
	partitions []map[agent.Kind]Block // indexed by numa id
	uidIndex   map[uid.Uid]agent.Handle
}

// NewStore allocates an empty store with one partition map per NUMA
// domain in topo.
func NewStore(topo *numa.Topology) *Store {
	s := &Store{
		topology:   topo,
		registered: make(map[agent.Kind]bool),
		partitions: make([]map[agent.Kind]Block, topo.NumNodes()),
		uidIndex:   make(map[uid.Uid]agent.Handle),
	}
	for i := range s.partitions {
		s.partitions[i] = make(map[agent.Kind]Block)
	}
	return s
}

// Register declares a concrete agent kind will be stored. Duplicate
// registration is Fatal (spec.md section 4.1).
func (s *Store) Register(k agent.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registered[k] {
		logx.Fatal("store", "duplicate registration of kind %s", k)
	}
	s.registered[k] = true
	for numaID := range s.partitions {
		switch k {
		case agent.KindCell:
			s.partitions[numaID][k] = NewCellBlock(uint16(numaID))
		case agent.KindNeuriteElement:
			s.partitions[numaID][k] = NewNeuriteBlock(uint16(numaID))
		default:
			logx.Fatal("store", "unknown agent kind %d", k)
		}
	}
}

// leastLoadedNuma returns the NUMA domain with the fewest agents across
// all kinds, a simple greedy placement for freshly-pushed agents; the
// balance is made exact by a later Rebalance call.
func (s *Store) leastLoadedNuma() uint16 {
	best, bestCount := 0, -1
	for i, kinds := range s.partitions {
		total := 0
		for _, b := range kinds {
			total += b.Len()
		}
		if bestCount == -1 || total < bestCount {
			best, bestCount = i, total
		}
	}
	return uint16(best)
}

// PushCell places c directly (not through an ExecutionContext) and
// returns its Handle. Used for initial population seeding, before any
// iteration is in flight.
func (s *Store) PushCell(c *agent.Cell) agent.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	numaID := s.leastLoadedNuma()
	block := s.partitions[numaID][agent.KindCell].(*CellBlock)
	idx := block.Append(c)
	h := agent.Handle{Numa: numaID, Type: uint16(agent.KindCell), Element: uint32(idx)}
	s.uidIndex[c.Uid()] = h
	return h
}

// PushCellWithUid places c directly like PushCell, but first overwrites
// its Uid to id. Used by package backup when restoring agents from a
// snapshot, so restored agents keep the identity any surviving
// Pointer[T] referenced them by.
func (s *Store) PushCellWithUid(c *agent.Cell, id uid.Uid) agent.Handle {
	c.SetUidForRestore(id)
	return s.PushCell(c)
}

// PushNeurite places n directly and returns its Handle.
func (s *Store) PushNeurite(n *agent.NeuriteElement) agent.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	numaID := s.leastLoadedNuma()
	block := s.partitions[numaID][agent.KindNeuriteElement].(*NeuriteBlock)
	idx := block.Append(n)
	h := agent.Handle{Numa: numaID, Type: uint16(agent.KindNeuriteElement), Element: uint32(idx)}
	s.uidIndex[n.Uid()] = h
	return h
}

// Remove deletes the agent identified by id immediately via swap-and-pop.
// Removing a non-existent Uid is a no-op warning (spec.md section 4.1).
func (s *Store) Remove(id uid.Uid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *Store) removeLocked(id uid.Uid) {
	h, ok := s.uidIndex[id]
	if !ok {
		logx.Warning("store", "remove: no such agent %d", id)
		return
	}
	block := s.partitions[h.Numa][agent.Kind(h.Type)]
	movedUid, movedExists := block.RemoveSwap(int(h.Element))
	delete(s.uidIndex, id)
	if movedExists {
		// The agent previously at the last slot now occupies h.Element;
		// its Handle is updated in the same critical section as the pop
		// (spec.md section 4.1: "its AgentHandle is updated in the UID
		// map in the same critical section").
		s.uidIndex[movedUid] = h
	}
}

// Get returns the SoA block for kind k in NUMA domain numaID, or nil if
// that kind was never registered.
func (s *Store) Get(numaID uint16, k agent.Kind) Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(numaID) >= len(s.partitions) {
		return nil
	}
	return s.partitions[numaID][k]
}

// NumAgents returns the total agent count across every NUMA domain and kind.
func (s *Store) NumAgents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, kinds := range s.partitions {
		for _, b := range kinds {
			total += b.Len()
		}
	}
	return total
}

// NumaCount returns the number of NUMA partitions.
func (s *Store) NumaCount() int {
	return len(s.partitions)
}

// Clear removes every agent; SoA capacity is not released (spec.md
// section 4.1).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kinds := range s.partitions {
		for _, b := range kinds {
			b.Clear()
		}
	}
	s.uidIndex = make(map[uid.Uid]agent.Handle)
}

// Resolve implements agent.Resolver: it looks up id's current Handle and
// returns the live Agent view at that slot.
func (s *Store) Resolve(id uid.Uid) (agent.Agent, bool) {
	s.mu.RLock()
	h, ok := s.uidIndex[id]
	if !ok {
		s.mu.RUnlock()
		return nil, false
	}
	block := s.partitions[h.Numa][agent.Kind(h.Type)]
	s.mu.RUnlock()
	if block == nil || int(h.Element) >= block.Len() {
		return nil, false
	}
	return block.Get(int(h.Element)), true
}

// ForEachAgent visits every agent exactly once, sequentially.
func (s *Store) ForEachAgent(fn func(agent.Agent)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, kinds := range s.partitions {
		for _, b := range kinds {
			n := b.Len()
			for i := 0; i < n; i++ {
				fn(b.Get(i))
			}
		}
	}
}
