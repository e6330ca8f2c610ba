package spatial

import (
	"simcore/agent"
	"simcore/uid"
)

// halfMooreOffsets is the 14-element half-Moore set: the center box
// plus 13 of its 26 neighbors, chosen so that every unordered pair of
// adjacent boxes is represented by exactly one center's set (spec.md
// section 4.2). Using id(dx,dy,dz) = dx + 3dy + 9dz, exactly one of
// {offset, -offset} has id > 0 for every non-zero offset; keeping the
// center (id == 0) plus every offset with id > 0 yields 1 + 13 = 14
// boxes, and for any two adjacent boxes A, B with B = A + offset, the
// pair is enumerated from A's set if id(offset) > 0 and from B's set
// (as -offset) otherwise — never both.
var halfMooreOffsets = buildHalfMooreOffsets()

func buildHalfMooreOffsets() [][3]int {
	offsets := [][3]int{{0, 0, 0}}
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				if dx+3*dy+9*dz > 0 {
					offsets = append(offsets, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return offsets
}

// ForEachPairHalfMoore visits every unordered pair of agents (a, b)
// with ‖pos(a)-pos(b)‖² <= radius2 exactly once (spec.md section 4.2).
// Within a single phase, rows of center boxes (one (y, z) pair each) are
// at least 3 boxes apart in y and z, so the half-Moore sets (which only
// reach 1 box away) of different rows never overlap and the rows could
// in principle be driven concurrently; centers within one row are
// adjacent along x and are visited one after another. Centers
// in DIFFERENT phases are NOT guaranteed disjoint: e.g. y=3 (phase 0)
// and y=4 (phase 1) are only one box apart, so a phase-0 center's
// half-Moore set can reach the same box a phase-1 center treats as its
// own. Race-freedom across phases therefore comes entirely from running
// the nine phases in strict sequence below, not from any non-overlap
// property between phases — this implementation does not expose a way
// to run a single phase in isolation, since nothing else needs one.
func (idx *Index) ForEachPairHalfMoore(resolver agent.Resolver, radius2 float64, fn func(a, b agent.Agent)) {
	for zPhase := 0; zPhase < 3; zPhase++ {
		for yPhase := 0; yPhase < 3; yPhase++ {
			idx.runPhase(yPhase, zPhase, resolver, radius2, fn)
		}
	}
}

// runPhase visits every center box whose (y mod 3, z mod 3) equals
// (yPhase, zPhase), excluding the padding layer, applying the
// half-Moore set at each.
func (idx *Index) runPhase(yPhase, zPhase int, resolver agent.Resolver, radius2 float64, fn func(a, b agent.Agent)) {
	for z := 1; z < idx.nz-1; z++ {
		if z%3 != zPhase {
			continue
		}
		for y := 1; y < idx.ny-1; y++ {
			if y%3 != yPhase {
				continue
			}
			for x := 1; x < idx.nx-1; x++ {
				idx.visitCenter(x, y, z, resolver, radius2, fn)
			}
		}
	}
}

func (idx *Index) visitCenter(cx, cy, cz int, resolver agent.Resolver, radius2 float64, fn func(a, b agent.Agent)) {
	center := &idx.boxes[idx.flatten(cx, cy, cz)]

	// Pairs within the center box itself: upper triangle, each pair once.
	for i := 0; i < len(center.uids); i++ {
		for j := i + 1; j < len(center.uids); j++ {
			idx.emitPair(center.uids[i], center.uids[j], resolver, radius2, fn)
		}
	}

	for _, off := range halfMooreOffsets {
		if off == ([3]int{0, 0, 0}) {
			continue
		}
		nx, ny, nz := cx+off[0], cy+off[1], cz+off[2]
		if !idx.inBounds(nx, ny, nz) {
			continue
		}
		neighbor := &idx.boxes[idx.flatten(nx, ny, nz)]
		for _, aID := range center.uids {
			for _, bID := range neighbor.uids {
				idx.emitPair(aID, bID, resolver, radius2, fn)
			}
		}
	}
}

func (idx *Index) emitPair(aID, bID uid.Uid, resolver agent.Resolver, radius2 float64, fn func(a, b agent.Agent)) {
	if aID == bID {
		return
	}
	a, ok := resolver.Resolve(aID)
	if !ok {
		return
	}
	b, ok := resolver.Resolve(bID)
	if !ok {
		return
	}
	if a.Position().Sub(b.Position()).Norm2() > radius2 {
		return
	}
	fn(a, b)
}
