package spatial

import "simcore/agent"

// ForEachNeighbor iterates the 27 boxes centered on a's box (spec.md
// section 4.2, "Neighbor iteration"); for every other agent found
// within radius of a, invokes fn. Self is always rejected. Querying an
// agent not present in the most recent Update yields an empty
// neighborhood.
func (idx *Index) ForEachNeighbor(a agent.Agent, resolver agent.Resolver, radius float64, fn func(agent.Agent)) {
	c, ok := idx.boxOf[a.Uid()]
	if !ok {
		return
	}
	cx, cy, cz := c[0], c[1], c[2]
	r2 := radius * radius
	pos := a.Position()

	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				x, y, z := cx+dx, cy+dy, cz+dz
				if !idx.inBounds(x, y, z) {
					continue
				}
				box := &idx.boxes[idx.flatten(x, y, z)]
				for _, id := range box.uids {
					if id == a.Uid() {
						continue
					}
					other, ok := resolver.Resolve(id)
					if !ok {
						continue
					}
					d := other.Position().Sub(pos)
					if d.Norm2() > r2 {
						continue
					}
					fn(other)
				}
			}
		}
	}
}
