package store

import (
	"sort"

	"simcore/agent"
	"simcore/uid"
)

// Rebalance walks every agent in Z-order (Morton order) of its cached
// spatial box index and reassigns NUMA partitions so each domain holds
// N/num_nodes agents laid out contiguously (spec.md section 4.1).
// Rebalance invalidates every Handle; AgentPointers remain valid because
// they resolve through the Uid map, which this method keeps consistent.
//
// boxIndexOf supplies each agent's current spatial box coordinate (as
// assigned by the last spatial.Index.Update), used only to order agents
// before redistribution; it does not require importing package spatial.
func (s *Store) Rebalance(boxIndexOf func(agent.Agent) (bx, by, bz int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		a      agent.Agent
		morton uint64
	}

	var all []entry
	for _, kinds := range s.partitions {
		for _, b := range kinds {
			n := b.Len()
			for i := 0; i < n; i++ {
				a := b.Get(i)
				bx, by, bz := boxIndexOf(a)
				all = append(all, entry{a: a, morton: morton3(bx, by, bz)})
			}
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].morton < all[j].morton })

	numDomains := len(s.partitions)
	if numDomains == 0 || len(all) == 0 {
		return
	}

	// Drain every block (preserving nothing; agents are re-pushed in
	// Z-order below) and reset the Uid map, which Rebalance is explicitly
	// permitted to invalidate at the Handle level (spec.md section 4.1).
	fresh := make([]map[agent.Kind]Block, numDomains)
	for i := range fresh {
		fresh[i] = make(map[agent.Kind]Block)
		for k := range s.registered {
			switch k {
			case agent.KindCell:
				fresh[i][k] = NewCellBlock(uint16(i))
			case agent.KindNeuriteElement:
				fresh[i][k] = NewNeuriteBlock(uint16(i))
			}
		}
	}

	perDomain := (len(all) + numDomains - 1) / numDomains
	newUidIndex := make(map[uid.Uid]agent.Handle, len(all))

	for i, e := range all {
		domain := i / perDomain
		if domain >= numDomains {
			domain = numDomains - 1
		}
		var h agent.Handle
		switch c := e.a.(type) {
		case CellAgent:
			cell := cellFields(c)
			block := fresh[domain][agent.KindCell].(*CellBlock)
			idx := block.appendRaw(cell)
			h = agent.Handle{Numa: uint16(domain), Type: uint16(agent.KindCell), Element: uint32(idx)}
		case *agent.NeuriteElement:
			block := fresh[domain][agent.KindNeuriteElement].(*NeuriteBlock)
			idx := block.Append(c)
			h = agent.Handle{Numa: uint16(domain), Type: uint16(agent.KindNeuriteElement), Element: uint32(idx)}
		default:
			continue
		}
		newUidIndex[e.a.Uid()] = h
	}

	s.partitions = fresh
	s.uidIndex = newUidIndex
}

func morton3(x, y, z int) uint64 {
	return interleave3(uint32(x)) | interleave3(uint32(y))<<1 | interleave3(uint32(z))<<2
}

// interleave3 spreads the low 21 bits of v so they occupy every third bit,
// the standard 3D Morton-order bit trick.
func interleave3(v uint32) uint64 {
	x := uint64(v) & 0x1fffff
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}
