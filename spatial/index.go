package spatial

import (
	"math"

	"simcore/agent"
	"simcore/uid"
)

// Index is the uniform-grid spatial index, rebuilt from scratch on
// every call to Update (spec.md section 4.2: "no incremental
// maintenance across steps").
type Index struct {
	edge       float64
	min        agent.Vec3
	nx, ny, nz int // includes one box of padding on every side

	boxes []Box

	boxOf map[uid.Uid][3]int
}

// NewIndex returns an empty, unbuilt index.
func NewIndex() *Index {
	return &Index{boxOf: make(map[uid.Uid][3]int)}
}

// Edge returns the current box edge length.
func (idx *Index) Edge() float64 { return idx.edge }

// Bounds returns the index's world-space origin and box counts per
// axis (including padding).
func (idx *Index) Bounds() (min agent.Vec3, nx, ny, nz int) {
	return idx.min, idx.nx, idx.ny, idx.nz
}

// AABB returns the bounding box of the given agents' centers and the
// largest diameter among them, without padding — the same accumulation
// diffusion.Grid.Update needs to decide whether to grow (spec.md
// section 4.3, "Growth").
func AABB(agents []agent.Agent) (min, max agent.Vec3, maxDiameter float64) {
	if len(agents) == 0 {
		return agent.Vec3{}, agent.Vec3{}, 0
	}
	first := agents[0].Position()
	min, max = first, first
	for _, a := range agents {
		p := a.Position()
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis] {
				min[axis] = p[axis]
			}
			if p[axis] > max[axis] {
				max[axis] = p[axis]
			}
		}
		if d := a.Diameter(); d > maxDiameter {
			maxDiameter = d
		}
	}
	return min, max, maxDiameter
}

// Update clears and rebuilds the index over agents (spec.md section
// 4.2, "Build"): computes the AABB and max diameter, sets
// edge = max(1, ceil(maxDiameter)), rounds each axis up to a multiple
// of edge, adds one edge of padding on every side, then buckets every
// agent into its box.
func (idx *Index) Update(agents []agent.Agent) {
	min, max, maxDiameter := AABB(agents)

	edge := math.Ceil(maxDiameter)
	if edge < 1 {
		edge = 1
	}
	idx.edge = edge

	extent := agent.Vec3{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
	nx := cellsAlong(extent[0], edge)
	ny := cellsAlong(extent[1], edge)
	nz := cellsAlong(extent[2], edge)

	// One box of padding on every side (spec.md section 4.2, step 2 and
	// the padding invariant in section 3).
	idx.nx, idx.ny, idx.nz = nx+2, ny+2, nz+2
	idx.min = agent.Vec3{min[0] - edge, min[1] - edge, min[2] - edge}

	idx.boxes = make([]Box, idx.nx*idx.ny*idx.nz)
	idx.boxOf = make(map[uid.Uid][3]int, len(agents))

	for _, a := range agents {
		bx, by, bz := idx.boxCoords(a.Position())
		idx.boxes[idx.flatten(bx, by, bz)].push(a.Uid())
		idx.boxOf[a.Uid()] = [3]int{bx, by, bz}
	}
}

// cellsAlong uses floor+1 rather than ceil so that an agent lying exactly
// on the max face still falls inside the non-padding boxes.
func cellsAlong(extent, edge float64) int {
	n := int(math.Floor(extent/edge)) + 1
	if n < 1 {
		n = 1
	}
	return n
}

func (idx *Index) flatten(x, y, z int) int {
	return x + y*idx.nx + z*idx.nx*idx.ny
}

// boxCoords maps a world position to its (possibly out-of-range) box
// coordinate; callers that index idx.boxes must clamp/validate first.
func (idx *Index) boxCoords(pos agent.Vec3) (x, y, z int) {
	x = int(math.Floor((pos[0] - idx.min[0]) / idx.edge))
	y = int(math.Floor((pos[1] - idx.min[1]) / idx.edge))
	z = int(math.Floor((pos[2] - idx.min[2]) / idx.edge))
	return
}

func (idx *Index) inBounds(x, y, z int) bool {
	return x >= 0 && x < idx.nx && y >= 0 && y < idx.ny && z >= 0 && z < idx.nz
}

// BoxIndexOf returns a's cached box coordinate from the most recent
// Update, for use as store.Rebalance's boxIndexOf callback (spec.md
// section 4.1, "NUMA balancing").
func (idx *Index) BoxIndexOf(a agent.Agent) (bx, by, bz int) {
	c, ok := idx.boxOf[a.Uid()]
	if !ok {
		return 0, 0, 0
	}
	return c[0], c[1], c[2]
}
