package agent

import "simcore/logx"

// EventKind is a named state transition that triggers behavior copy/remove
// evaluation (spec.md section 3 and the GLOSSARY). Values are bit positions
// into a single uint64 mask, capping the number of distinct event kinds at
// 64 (spec.md section 7, Fatal: "too many unique behavior event kinds").
type EventKind uint8

const (
	EventCreation EventKind = iota
	EventDivision
	EventBranching
	EventDeath
	maxBuiltinEventKind
)

// MaxEventKinds is the hard cap from spec.md section 7.
const MaxEventKinds = 64

var nextCustomEventKind = uint8(maxBuiltinEventKind)

// NewEventKind allocates a fresh EventKind for simulation-specific events
// beyond the built-in creation/division/branching/death set. Exceeding
// MaxEventKinds is Fatal: masks are stored in a single uint64 and cannot
// represent more bits.
func NewEventKind(name string) EventKind {
	if int(nextCustomEventKind) >= MaxEventKinds {
		logx.Fatal("behavior", "event kind cap (%d) exceeded registering %q", MaxEventKinds, name)
	}
	k := EventKind(nextCustomEventKind)
	nextCustomEventKind++
	return k
}

func bit(e EventKind) uint64 {
	return uint64(1) << uint(e)
}

// Mask is a bitset over EventKind, used for both the copy mask and the
// remove mask of a Behavior.
type Mask uint64

// NewMask builds a Mask set for exactly the given event kinds.
func NewMask(kinds ...EventKind) Mask {
	var m Mask
	for _, k := range kinds {
		m |= Mask(bit(k))
	}
	return m
}

// Has reports whether e is set in m.
func (m Mask) Has(e EventKind) bool {
	return m&Mask(bit(e)) != 0
}

// Behavior is a plug-in per-agent update rule (spec.md section 3). It has
// no identity of its own and is owned by the agent it is attached to.
type Behavior interface {
	// Run executes one step of the behavior against its owning agent.
	Run(a Agent)
	// CopyOnEvent reports whether this behavior should be copied onto a
	// newly-created agent born from event e.
	CopyOnEvent(e EventKind) bool
	// RemoveOnEvent reports whether this behavior should be removed from
	// the triggering agent after event e.
	RemoveOnEvent(e EventKind) bool
}

// MaskedBehavior is an embeddable helper giving a concrete Behavior its
// copy/remove predicates from two precomputed Masks, so authors of new
// behaviors only need to implement Run.
type MaskedBehavior struct {
	Copy   Mask
	Remove Mask
}

func (m MaskedBehavior) CopyOnEvent(e EventKind) bool   { return m.Copy.Has(e) }
func (m MaskedBehavior) RemoveOnEvent(e EventKind) bool { return m.Remove.Has(e) }

// CreatingBehavior is a Behavior that may spawn a sibling agent as a
// side effect of running (e.g. division). The "behaviors" operation
// type-switches for this so the new agent is routed through the
// caller's ExecutionContext buffer rather than inserted into the store
// mid-iteration (spec.md section 5, "ExecutionContext buffers: strictly
// thread-local").
type CreatingBehavior interface {
	Behavior
	// RunCreating executes one step of the behavior against a, calling
	// create with any new agent spawned this step (division, budding).
	// create may be called zero or one times.
	RunCreating(a Agent, create func(Agent))
}
