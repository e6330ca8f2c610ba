// Package agent defines the polymorphic Agent contract (spec.md section 3)
// as a closed set of tagged variants, per the design notes in spec.md
// section 9: a Kind enum plus one concrete struct per kind, rather than
// the source's compile-time template registration.
package agent

import "simcore/uid"

// Kind tags a concrete agent type. AgentHandle.Type is this value,
// narrowed to uint16 for storage.
type Kind uint16

const (
	// KindCell is the one reference agent kind this module ships
	// (SPEC_FULL.md section 1): a spherical cell with mass, adherence,
	// volume and a division behavior.
	KindCell Kind = iota
	// KindNeuriteElement is a cylindrical segment of a neurite chain,
	// linked to its neighbors by Uid pairs rather than raw pointers
	// (spec.md section 9, "Cyclic graphs of agents").
	KindNeuriteElement
)

func (k Kind) String() string {
	switch k {
	case KindCell:
		return "Cell"
	case KindNeuriteElement:
		return "NeuriteElement"
	default:
		return "Unknown"
	}
}

// Handle is the opaque intra-store coordinate (numa, type, element),
// invalidated by compaction or rebalance (spec.md section 3).
type Handle struct {
	Numa    uint16
	Type    uint16
	Element uint32
}

// IsZero reports whether h is the zero Handle, used as a "not placed" sentinel.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// Vec3 is a 3-vector, used for position, displacement and gradients.
type Vec3 [3]float64

// Add returns a+b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns a*s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a[0] * s, a[1] * s, a[2] * s}
}

// Norm2 returns the squared Euclidean length of a.
func (a Vec3) Norm2() float64 {
	return a[0]*a[0] + a[1]*a[1] + a[2]*a[2]
}

// Agent is the contract every concrete kind satisfies. Implementations
// embed *Base and add kind-specific fields (Cell, NeuriteElement).
type Agent interface {
	Uid() uid.Uid
	Kind() Kind
	Position() Vec3
	SetPosition(Vec3)
	Diameter() float64
	SetDiameter(float64)
	Handle() Handle
	SetHandle(Handle)
	Behaviors() []Behavior
	AddBehavior(Behavior)
	RemoveBehaviorsOn(EventKind)
	RunDiscretization()
}

// Base carries the fields every agent kind shares: identity, kind,
// position, bounding-sphere diameter, storage Handle (which carries the
// NUMA id) and attached behaviors. The spatial box index is not kept
// here; spatial.Index caches it per Uid (see Index.BoxIndexOf).
type Base struct {
	id        uid.Uid
	kind      Kind
	pos       Vec3
	diameter  float64
	handle    Handle
	behaviors []Behavior
}

// NewBase constructs the common fields for a newly created agent of kind k.
func NewBase(k Kind, pos Vec3, diameter float64) Base {
	return Base{
		id:       uid.Next(),
		kind:     k,
		pos:      pos,
		diameter: diameter,
	}
}

func (b *Base) Uid() uid.Uid { return b.id }

// SetUidForRestore overwrites this agent's Uid, used only by package
// backup when reconstructing agents from a snapshot so their identity
// (and any Pointer referencing them) survives a restore.
func (b *Base) SetUidForRestore(id uid.Uid) { b.id = id }
func (b *Base) Kind() Kind            { return b.kind }
func (b *Base) Position() Vec3        { return b.pos }
func (b *Base) SetPosition(p Vec3)    { b.pos = p }
func (b *Base) Diameter() float64     { return b.diameter }
func (b *Base) SetDiameter(d float64) { b.diameter = d }
func (b *Base) Handle() Handle        { return b.handle }
func (b *Base) SetHandle(h Handle)    { b.handle = h }

func (b *Base) Behaviors() []Behavior { return b.behaviors }

func (b *Base) AddBehavior(beh Behavior) {
	b.behaviors = append(b.behaviors, beh)
}

// RemoveBehaviorsOn drops every behavior whose remove mask is set for e,
// called after the triggering event has run (spec.md section 3).
func (b *Base) RemoveBehaviorsOn(e EventKind) {
	kept := b.behaviors[:0]
	for _, beh := range b.behaviors {
		if !beh.RemoveOnEvent(e) {
			kept = append(kept, beh)
		}
	}
	b.behaviors = kept
}

// CopyBehaviorsOnto copies every behavior of b whose copy mask is set for e
// onto dst, used when a creation event (e.g. division) spawns a new agent.
func (b *Base) CopyBehaviorsOnto(dst Agent, e EventKind) {
	for _, beh := range b.behaviors {
		if beh.CopyOnEvent(e) {
			dst.AddBehavior(beh)
		}
	}
}

// Resolver resolves a Uid to its current Agent and storage slot. AgentStore
// implements this; Pointer holds a Resolver rather than a direct store
// reference so this package does not depend on the store package.
type Resolver interface {
	Resolve(id uid.Uid) (Agent, bool)
}

// Pointer is a weak, UID-keyed reference that survives compaction and
// rebalancing (spec.md section 9, "SoPointer / back-references"). A
// dereference of a removed agent's Uid returns (zero, false) rather than
// a stale value.
type Pointer[T Agent] struct {
	id       uid.Uid
	resolver Resolver
}

// NewPointer builds a Pointer to id, resolved through r.
func NewPointer[T Agent](id uid.Uid, r Resolver) Pointer[T] {
	return Pointer[T]{id: id, resolver: r}
}

// Uid returns the pointed-to Uid, valid even if the agent no longer exists.
func (p Pointer[T]) Uid() uid.Uid { return p.id }

// IsNil reports whether this pointer was never assigned a target.
func (p Pointer[T]) IsNil() bool { return p.id == uid.Nil }

// Get resolves the pointer. ok is false if the resolver is nil, the Uid
// was never assigned, the agent has been removed, or it isn't of kind T.
func (p Pointer[T]) Get() (value T, ok bool) {
	if p.resolver == nil || p.id == uid.Nil {
		return value, false
	}
	a, found := p.resolver.Resolve(p.id)
	if !found {
		return value, false
	}
	value, ok = a.(T)
	return value, ok
}
