package spatial

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcore/agent"
	"simcore/uid"
)

type mapResolver map[uid.Uid]agent.Agent

func (m mapResolver) Resolve(id uid.Uid) (agent.Agent, bool) {
	a, ok := m[id]
	return a, ok
}

func pairKey(a, b agent.Agent) [2]uid.Uid {
	if a.Uid() < b.Uid() {
		return [2]uid.Uid{a.Uid(), b.Uid()}
	}
	return [2]uid.Uid{b.Uid(), a.Uid()}
}

// TestHalfMooreMatchesBruteForce is spec.md section 8's scenario 5:
// a random uniform population compared against an O(N^2) reference.
func TestHalfMooreMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	var agents []agent.Agent
	resolver := mapResolver{}
	for i := 0; i < 100; i++ {
		pos := agent.Vec3{r.Float64() * 100, r.Float64() * 100, r.Float64() * 100}
		c := agent.NewCell(pos, 10)
		agents = append(agents, c)
		resolver[c.Uid()] = c
	}

	idx := NewIndex()
	idx.Update(agents)

	// Any pair within strictly less than one box edge of each other must
	// lie in the same or an adjacent box (two boxes two apart are always
	// at least one edge length apart), so a radius safely under the edge
	// guarantees the half-Moore 1-box neighborhood sees every matching
	// pair brute force does.
	edge := idx.Edge()
	radius := edge * 0.9
	radius2 := radius * radius

	var bruteForcePairs [][2]uid.Uid
	BruteForcePairs(agents, radius2, func(a, b agent.Agent) {
		bruteForcePairs = append(bruteForcePairs, pairKey(a, b))
	})

	var halfMoorePairs [][2]uid.Uid
	idx.ForEachPairHalfMoore(resolver, radius2, func(a, b agent.Agent) {
		require.NotEqual(t, a.Uid(), b.Uid(), "must never emit a self-pair")
		halfMoorePairs = append(halfMoorePairs, pairKey(a, b))
	})

	sortPairs(bruteForcePairs)
	sortPairs(halfMoorePairs)

	assert.Equal(t, bruteForcePairs, halfMoorePairs)
}

func sortPairs(pairs [][2]uid.Uid) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
}

// TestBoxIndexMatchesFloorDivision is spec.md section 8's first
// invariant: the cached box index equals floor((position-origin)/edge).
func TestBoxIndexMatchesFloorDivision(t *testing.T) {
	var agents []agent.Agent
	for i := 0; i < 20; i++ {
		agents = append(agents, agent.NewCell(agent.Vec3{float64(i) * 3, float64(i) * 2, float64(i)}, 5))
	}

	idx := NewIndex()
	idx.Update(agents)

	min, _, _, _ := idx.Bounds()
	edge := idx.Edge()

	for _, a := range agents {
		bx, by, bz := idx.BoxIndexOf(a)
		pos := a.Position()
		wantX := int(math.Floor((pos[0] - min[0]) / edge))
		wantY := int(math.Floor((pos[1] - min[1]) / edge))
		wantZ := int(math.Floor((pos[2] - min[2]) / edge))
		assert.Equal(t, wantX, bx)
		assert.Equal(t, wantY, by)
		assert.Equal(t, wantZ, bz)
	}
}
