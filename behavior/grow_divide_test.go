package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcore/agent"
	"simcore/execctx"
	"simcore/numa"
	"simcore/ops"
	"simcore/rng"
	"simcore/store"
)

func TestGrowDivideGrowsWithoutDividingBelowThreshold(t *testing.T) {
	st := store.NewStore(numa.DiscoverWithNodeCount(1))
	st.Register(agent.KindCell)

	c := agent.NewCell(agent.Vec3{0, 0, 0}, 10)
	startVolume := c.Volume
	c.AddBehavior(NewGrowDivide(0.1, startVolume*10))
	st.PushCell(c)

	runBehaviorsOnce(t, st)

	assert.Equal(t, 1, st.NumAgents())
	grown, ok := st.Resolve(c.Uid())
	require.True(t, ok)
	cell, ok := grown.(store.CellAgent)
	require.True(t, ok)
	assert.InDelta(t, startVolume+0.1, cell.Volume(), 1e-9)
}

// TestGrowDivideSplitsAtThreshold exercises the full store-cursor path
// (a CellView, not a concrete *agent.Cell) so the division math in
// agent.DivideVolume is verified against the same live-agent shape the
// scheduler actually hands behaviors at runtime.
func TestGrowDivideSplitsAtThreshold(t *testing.T) {
	st := store.NewStore(numa.DiscoverWithNodeCount(1))
	st.Register(agent.KindCell)

	c := agent.NewCell(agent.Vec3{0, 0, 0}, 10)
	startVolume := c.Volume
	threshold := startVolume + 0.05
	c.AddBehavior(NewGrowDivide(0.1, threshold))
	motherUid := c.Uid()
	st.PushCell(c)

	runBehaviorsOnce(t, st)

	assert.Equal(t, 2, st.NumAgents(), "division must add exactly one daughter")

	mother, ok := st.Resolve(motherUid)
	require.True(t, ok, "mother must keep its original Uid after division")
	motherCell, ok := mother.(store.CellAgent)
	require.True(t, ok)

	var daughterCell store.CellAgent
	st.ForEachAgent(func(a agent.Agent) {
		if a.Uid() == motherUid {
			return
		}
		daughterCell = a.(store.CellAgent)
	})
	require.NotNil(t, daughterCell, "daughter must be resolvable in the store")

	assert.InDelta(t, motherCell.Diameter(), daughterCell.Diameter(), 1e-9)
	assert.InDelta(t, startVolume+0.1, motherCell.Volume()+daughterCell.Volume(), 1e-9)
}

func runBehaviorsOnce(t *testing.T, st *store.Store) {
	t.Helper()
	var agents []agent.Agent
	st.ForEachAgent(func(a agent.Agent) { agents = append(agents, a) })

	ctx := execctx.New(0)
	worker := &ops.Worker{Ctx: ctx, RNG: rng.NewStream(1)}
	op := ops.NewBehaviors()
	for _, a := range agents {
		op.RunOnAgent(a, nil, worker)
	}
	execctx.MergeAndApply(nil, st, []*execctx.Context{ctx})
}
