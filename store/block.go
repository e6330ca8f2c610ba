// Package store implements the AgentStore (ResourceManager): a typed,
// NUMA-partitioned Structure-of-Arrays container of agents (spec.md
// section 4.1).
package store

import (
	"simcore/agent"
	"simcore/uid"
)

// Block is one NUMA partition's storage for one concrete Kind. It is the
// "SoAView" spec.md section 4.1 names: direct, index-addressed access to
// one type's packed storage.
type Block interface {
	Kind() agent.Kind
	Len() int
	Get(i int) agent.Agent
	// RemoveSwap removes element i using swap-and-pop: the last element
	// (if any, and if not i itself) is moved into slot i. It returns the
	// Uid that now occupies slot i after the move (so the caller can fix
	// up the Uid->Handle map), and ok=false if nothing occupied slot i
	// after the pop (block is now shorter than i+1).
	RemoveSwap(i int) (movedUid uid.Uid, ok bool)
	Clear()
}

// growFactor is the geometric growth factor spec.md section 4.1 requires.
const growFactor = 1.5

func grow(oldCap int) int {
	if oldCap == 0 {
		return 8
	}
	return int(float64(oldCap)*growFactor) + 1
}
