// Package spatial implements the SpatialIndex (spec.md section 4.2): a
// uniform cubic-cell grid rebuilt from scratch every step, providing
// Moore and half-Moore neighbor iteration for pairwise force evaluation.
package spatial

import (
	"simcore/uid"
)

// Box is one cubic bucket of the grid: the set of agent Uids whose
// center currently falls inside it. The teacher's and spec's atomic
// linked-list-per-box design exists to let concurrent pushes during
// Build race safely; this package instead builds boxes single-threaded
// (Build is not a per-step bottleneck at the scale this module targets)
// and leaves the box contents as a plain slice, read-only once Build
// returns.
type Box struct {
	uids []uid.Uid
}

func (b *Box) push(id uid.Uid) {
	b.uids = append(b.uids, id)
}

// Len returns the number of agents resident in this box.
func (b *Box) Len() int { return len(b.uids) }
