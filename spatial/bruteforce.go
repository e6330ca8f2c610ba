package spatial

import "simcore/agent"

// BruteForcePairs is an O(n^2) reference implementation used only by
// tests to cross-check ForEachPairHalfMoore (spec.md section 8,
// scenario 5, "Half-Moore coverage"). It visits every unordered pair
// exactly once.
func BruteForcePairs(agents []agent.Agent, radius2 float64, fn func(a, b agent.Agent)) {
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			if a.Position().Sub(b.Position()).Norm2() > radius2 {
				continue
			}
			fn(a, b)
		}
	}
}
