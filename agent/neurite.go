package agent

import "simcore/uid"

// NeuriteElement is a cylindrical segment of a neurite chain (spec.md
// section 3). Chains are represented as Uid pairs rather than raw
// pointers (spec.md section 9, "Cyclic graphs of agents"); consistency
// of the chain is the discretization operation's responsibility.
type NeuriteElement struct {
	Base

	SpringAxis   Vec3
	Tension      float64
	ActualLength float64
	RestingLength float64

	Prev uid.Uid // proximal neighbor, or uid.Nil at the soma end
	Next uid.Uid // distal neighbor, or uid.Nil at a growth cone/tip

	resolver Resolver
}

// NewNeuriteElement constructs a segment of the given diameter at pos.
func NewNeuriteElement(pos Vec3, diameter float64, resolver Resolver) *NeuriteElement {
	return &NeuriteElement{
		Base:     NewBase(KindNeuriteElement, pos, diameter),
		resolver: resolver,
	}
}

// PrevPointer resolves the Prev Uid through the same store the element
// was created against.
func (n *NeuriteElement) PrevPointer() Pointer[*NeuriteElement] {
	return NewPointer[*NeuriteElement](n.Prev, n.resolver)
}

// NextPointer resolves the Next Uid through the same store the element
// was created against.
func (n *NeuriteElement) NextPointer() Pointer[*NeuriteElement] {
	return NewPointer[*NeuriteElement](n.Next, n.resolver)
}

// RunDiscretization sets Tension to the relative stretch
// (ActualLength - RestingLength) / RestingLength, and does nothing when
// RestingLength is not positive. It is the per-agent row-wise part of
// the "discretization" operation (spec.md section 4.4, op 5) and only
// updates this element's own fields. No element is split and no new
// element is inserted, neither here nor by the discretization operation.
func (n *NeuriteElement) RunDiscretization() {
	if n.RestingLength <= 0 {
		return
	}
	n.Tension = (n.ActualLength - n.RestingLength) / n.RestingLength
}
