package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcore/agent"
	"simcore/numa"
	"simcore/uid"
)

// TestRebalancePreservesAgentSet is spec.md section 8: rebalancing across
// NUMA nodes preserves the set of live agents and their state; only
// handles change.
func TestRebalancePreservesAgentSet(t *testing.T) {
	st := NewStore(numa.DiscoverWithNodeCount(4))
	st.Register(agent.KindCell)

	wantPositions := make(map[uid.Uid]agent.Vec3)
	wantVolumes := make(map[uid.Uid]float64)
	for i := 0; i < 40; i++ {
		c := agent.NewCell(agent.Vec3{float64(i), float64(i) * 2, float64(i) * 3}, 8)
		c.Mass = float64(i) + 1
		st.PushCell(c)
		wantPositions[c.Uid()] = c.Position()
		wantVolumes[c.Uid()] = c.Volume
	}

	before := st.NumAgents()

	// boxIndexOf derives a coarse Z-order key directly from position,
	// standing in for spatial.Index.BoxIndexOf without importing package
	// spatial.
	boxIndexOf := func(a agent.Agent) (int, int, int) {
		p := a.Position()
		return int(p[0]) / 4, int(p[1]) / 4, int(p[2]) / 4
	}

	st.Rebalance(boxIndexOf)

	assert.Equal(t, before, st.NumAgents())

	seen := make(map[uid.Uid]bool)
	st.ForEachAgent(func(a agent.Agent) {
		id := a.Uid()
		seen[id] = true
		wantPos, ok := wantPositions[id]
		require.True(t, ok, "rebalance produced an unexpected agent")
		assert.Equal(t, wantPos, a.Position())

		cell, ok := a.(CellAgent)
		require.True(t, ok)
		assert.Equal(t, wantVolumes[id], cell.Volume())
	})
	assert.Len(t, seen, len(wantPositions))

	for id, wantPos := range wantPositions {
		resolved, ok := st.Resolve(id)
		require.True(t, ok, "every original uid must still resolve after rebalance")
		assert.Equal(t, wantPos, resolved.Position())
	}
}
