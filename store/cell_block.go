package store

import (
	"simcore/agent"
	"simcore/uid"
)

// CellBlock is the Structure-of-Arrays partition for agent.Cell: every
// field lives in its own flat slice, indexed in parallel. Get(i) returns
// a CellView, a zero-allocation cursor into these arrays rather than a
// materialized *agent.Cell.
type CellBlock struct {
	numa agent.Handle // only .Numa is meaningful here; reused to avoid a second type

	uids            []uid.Uid
	positions       []agent.Vec3
	diameters       []float64
	mass            []float64
	adherence       []float64
	volume          []float64
	tractorForce    []agent.Vec3
	runDisplacement []bool
	behaviors       [][]agent.Behavior
}

// NewCellBlock allocates an empty block for the given NUMA domain.
func NewCellBlock(numaID uint16) *CellBlock {
	return &CellBlock{numa: agent.Handle{Numa: numaID}}
}

func (b *CellBlock) Kind() agent.Kind { return agent.KindCell }
func (b *CellBlock) Len() int         { return len(b.uids) }

func (b *CellBlock) handleAt(i int) agent.Handle {
	return agent.Handle{Numa: b.numa.Numa, Type: uint16(agent.KindCell), Element: uint32(i)}
}

// Append copies c's field values into the block's parallel arrays and
// returns the element index it was placed at. c itself is not retained;
// once appended, the CellView at that index is the live agent.
//
// Growth is geometric (spec.md section 4.1's factor 1.5): when the uids
// slice is about to exceed its capacity, every parallel slice is
// reallocated to the same larger capacity together, so they never drift
// out of lockstep the way independent append() calls on each slice could
// leave them if one slice's backing array were reallocated and another's
// were not.
// cellSnapshot is a plain-value copy of every CellBlock-resident field,
// used to move a cell between blocks (e.g. during Rebalance) without
// requiring the source to be a concrete *agent.Cell.
type cellSnapshot struct {
	id              uid.Uid
	position        agent.Vec3
	diameter        float64
	mass            float64
	adherence       float64
	volume          float64
	tractorForce    agent.Vec3
	runDisplacement bool
	behaviors       []agent.Behavior
}

// cellFields snapshots a CellAgent's current field values.
func cellFields(c CellAgent) cellSnapshot {
	return cellSnapshot{
		id:              c.Uid(),
		position:        c.Position(),
		diameter:        c.Diameter(),
		mass:            c.Mass(),
		adherence:       c.Adherence(),
		volume:          c.Volume(),
		tractorForce:    c.TractorForce(),
		runDisplacement: c.RunDisplacement(),
		behaviors:       append([]agent.Behavior(nil), c.Behaviors()...),
	}
}

// appendRaw places a pre-snapshotted cell into the block, used by Rebalance.
func (b *CellBlock) appendRaw(s cellSnapshot) int {
	i := len(b.uids)
	if i >= cap(b.uids) {
		b.reserve(grow(cap(b.uids)))
	}
	b.uids = append(b.uids, s.id)
	b.positions = append(b.positions, s.position)
	b.diameters = append(b.diameters, s.diameter)
	b.mass = append(b.mass, s.mass)
	b.adherence = append(b.adherence, s.adherence)
	b.volume = append(b.volume, s.volume)
	b.tractorForce = append(b.tractorForce, s.tractorForce)
	b.runDisplacement = append(b.runDisplacement, s.runDisplacement)
	b.behaviors = append(b.behaviors, s.behaviors)
	return i
}

func (b *CellBlock) Append(c *agent.Cell) int {
	i := len(b.uids)
	if i >= cap(b.uids) {
		b.reserve(grow(cap(b.uids)))
	}
	b.uids = append(b.uids, c.Uid())
	b.positions = append(b.positions, c.Position())
	b.diameters = append(b.diameters, c.Diameter())
	b.mass = append(b.mass, c.Mass)
	b.adherence = append(b.adherence, c.Adherence)
	b.volume = append(b.volume, c.Volume)
	b.tractorForce = append(b.tractorForce, c.TractorForce)
	b.runDisplacement = append(b.runDisplacement, c.RunDisplacement)
	b.behaviors = append(b.behaviors, c.Behaviors())

	h := b.handleAt(i)
	c.SetHandle(h)
	return i
}

func (b *CellBlock) reserve(newCap int) {
	n := len(b.uids)

	growUid := make([]uid.Uid, n, newCap)
	copy(growUid, b.uids)
	b.uids = growUid

	growPos := make([]agent.Vec3, n, newCap)
	copy(growPos, b.positions)
	b.positions = growPos

	growDiam := make([]float64, n, newCap)
	copy(growDiam, b.diameters)
	b.diameters = growDiam

	growMass := make([]float64, n, newCap)
	copy(growMass, b.mass)
	b.mass = growMass

	growAdh := make([]float64, n, newCap)
	copy(growAdh, b.adherence)
	b.adherence = growAdh

	growVol := make([]float64, n, newCap)
	copy(growVol, b.volume)
	b.volume = growVol

	growForce := make([]agent.Vec3, n, newCap)
	copy(growForce, b.tractorForce)
	b.tractorForce = growForce

	growRun := make([]bool, n, newCap)
	copy(growRun, b.runDisplacement)
	b.runDisplacement = growRun

	growBeh := make([][]agent.Behavior, n, newCap)
	copy(growBeh, b.behaviors)
	b.behaviors = growBeh
}

// Get returns a CellView cursor at index i.
func (b *CellBlock) Get(i int) agent.Agent {
	return CellView{block: b, idx: i}
}

// RemoveSwap implements Block.RemoveSwap (spec.md section 4.1): swap the
// last element into slot i, then pop. Returns the Uid now at slot i.
func (b *CellBlock) RemoveSwap(i int) (uid.Uid, bool) {
	n := len(b.uids)
	if i < 0 || i >= n {
		return uid.Nil, false
	}
	last := n - 1
	if i != last {
		b.uids[i] = b.uids[last]
		b.positions[i] = b.positions[last]
		b.diameters[i] = b.diameters[last]
		b.mass[i] = b.mass[last]
		b.adherence[i] = b.adherence[last]
		b.volume[i] = b.volume[last]
		b.tractorForce[i] = b.tractorForce[last]
		b.runDisplacement[i] = b.runDisplacement[last]
		b.behaviors[i] = b.behaviors[last]
	}
	b.uids = b.uids[:last]
	b.positions = b.positions[:last]
	b.diameters = b.diameters[:last]
	b.mass = b.mass[:last]
	b.adherence = b.adherence[:last]
	b.volume = b.volume[:last]
	b.tractorForce = b.tractorForce[:last]
	b.runDisplacement = b.runDisplacement[:last]
	b.behaviors = b.behaviors[:last]

	if i == last {
		return uid.Nil, false
	}
	return b.uids[i], true
}

// Clear empties the block without releasing its backing arrays' capacity.
func (b *CellBlock) Clear() {
	b.uids = b.uids[:0]
	b.positions = b.positions[:0]
	b.diameters = b.diameters[:0]
	b.mass = b.mass[:0]
	b.adherence = b.adherence[:0]
	b.volume = b.volume[:0]
	b.tractorForce = b.tractorForce[:0]
	b.runDisplacement = b.runDisplacement[:0]
	b.behaviors = b.behaviors[:0]
}

// CellView is a cursor into a CellBlock's parallel arrays: reading or
// writing through it reads/writes the block storage directly, with no
// copy. It satisfies both agent.Agent and the Cell-specific accessors
// the displacement operation needs.
type CellView struct {
	block *CellBlock
	idx   int
}

func (v CellView) Uid() uid.Uid   { return v.block.uids[v.idx] }
func (v CellView) Kind() agent.Kind { return agent.KindCell }

func (v CellView) Position() agent.Vec3     { return v.block.positions[v.idx] }
func (v CellView) SetPosition(p agent.Vec3) { v.block.positions[v.idx] = p }

func (v CellView) Diameter() float64     { return v.block.diameters[v.idx] }
func (v CellView) SetDiameter(d float64) { v.block.diameters[v.idx] = d }

func (v CellView) Handle() agent.Handle { return v.block.handleAt(v.idx) }
func (v CellView) SetHandle(agent.Handle) {
	// Handles are derived from (numa, kind, index) and are recomputed on
	// every access; an explicit set would only be meaningful across a
	// block move, which RemoveSwap and Rebalance perform directly on the
	// block, not through the view.
}

func (v CellView) Behaviors() []agent.Behavior { return v.block.behaviors[v.idx] }
func (v CellView) AddBehavior(b agent.Behavior) {
	v.block.behaviors[v.idx] = append(v.block.behaviors[v.idx], b)
}
func (v CellView) RemoveBehaviorsOn(e agent.EventKind) {
	list := v.block.behaviors[v.idx]
	kept := list[:0]
	for _, b := range list {
		if !b.RemoveOnEvent(e) {
			kept = append(kept, b)
		}
	}
	v.block.behaviors[v.idx] = kept
}

func (v CellView) RunDiscretization() {}

func (v CellView) Mass() float64      { return v.block.mass[v.idx] }
func (v CellView) SetMass(m float64)  { v.block.mass[v.idx] = m }
func (v CellView) Adherence() float64 { return v.block.adherence[v.idx] }
func (v CellView) Volume() float64    { return v.block.volume[v.idx] }
func (v CellView) SetVolume(x float64) { v.block.volume[v.idx] = x }

func (v CellView) TractorForce() agent.Vec3 { return v.block.tractorForce[v.idx] }
func (v CellView) SetTractorForce(f agent.Vec3) {
	v.block.tractorForce[v.idx] = f
}
func (v CellView) AddTractorForce(f agent.Vec3) {
	v.block.tractorForce[v.idx] = v.block.tractorForce[v.idx].Add(f)
}

func (v CellView) RunDisplacement() bool { return v.block.runDisplacement[v.idx] }
func (v CellView) SetRunDisplacement(b bool) {
	v.block.runDisplacement[v.idx] = b
}

// CellAgent is the narrow interface row-wise operations use to reach
// Cell-specific fields without a type assertion on a concrete struct,
// since the live value is a CellView, not a *agent.Cell.
type CellAgent interface {
	agent.Agent
	Mass() float64
	Adherence() float64
	Volume() float64
	SetVolume(float64)
	TractorForce() agent.Vec3
	SetTractorForce(agent.Vec3)
	AddTractorForce(agent.Vec3)
	RunDisplacement() bool
	SetRunDisplacement(bool)
}

var _ CellAgent = CellView{}
var _ agent.Agent = CellView{}
