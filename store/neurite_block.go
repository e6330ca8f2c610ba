package store

import (
	"simcore/agent"
	"simcore/uid"
)

// NeuriteBlock stores agent.NeuriteElement as Array-of-Structures rather
// than true SoA. NeuriteElement is a supplemented, non-core kind
// (SPEC_FULL.md section 4.5); CellBlock demonstrates the genuine
// member-wise SoA layout the design calls for, and this block trades
// that for simplicity since chains are small relative to cell
// populations and are not on the hot displacement path in the same way.
type NeuriteBlock struct {
	numaID   uint16
	elements []*agent.NeuriteElement
}

// NewNeuriteBlock allocates an empty block for the given NUMA domain.
func NewNeuriteBlock(numaID uint16) *NeuriteBlock {
	return &NeuriteBlock{numaID: numaID}
}

func (b *NeuriteBlock) Kind() agent.Kind { return agent.KindNeuriteElement }
func (b *NeuriteBlock) Len() int         { return len(b.elements) }

// Append places n at the end of the block and assigns its Handle.
func (b *NeuriteBlock) Append(n *agent.NeuriteElement) int {
	i := len(b.elements)
	if i >= cap(b.elements) {
		grown := make([]*agent.NeuriteElement, i, grow(cap(b.elements)))
		copy(grown, b.elements)
		b.elements = grown
	}
	b.elements = append(b.elements, n)
	n.SetHandle(agent.Handle{Numa: b.numaID, Type: uint16(agent.KindNeuriteElement), Element: uint32(i)})
	return i
}

func (b *NeuriteBlock) Get(i int) agent.Agent {
	return b.elements[i]
}

func (b *NeuriteBlock) RemoveSwap(i int) (uid.Uid, bool) {
	n := len(b.elements)
	if i < 0 || i >= n {
		return uid.Nil, false
	}
	last := n - 1
	if i != last {
		b.elements[i] = b.elements[last]
		b.elements[i].SetHandle(agent.Handle{Numa: b.numaID, Type: uint16(agent.KindNeuriteElement), Element: uint32(i)})
	}
	b.elements = b.elements[:last]
	if i == last {
		return uid.Nil, false
	}
	return b.elements[i].Uid(), true
}

func (b *NeuriteBlock) Clear() {
	b.elements = b.elements[:0]
}
