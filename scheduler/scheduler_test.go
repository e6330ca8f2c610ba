package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcore/agent"
	"simcore/config"
	"simcore/diffusion"
	"simcore/numa"
	"simcore/ops"
	"simcore/spatial"
	"simcore/store"
)

func newTestScheduler(t *testing.T, seed int64) *Scheduler {
	t.Helper()

	cfg := config.Default()
	cfg.Simulation.BackupInterval = 0
	cfg.Simulation.BackupFile = ""

	st := store.NewStore(numa.DiscoverWithNodeCount(1))
	st.Register(agent.KindCell)
	st.Register(agent.KindNeuriteElement)

	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				pos := agent.Vec3{float64(x) * 15, float64(y) * 15, float64(z) * 15}
				st.PushCell(agent.NewCell(pos, 10))
			}
		}
	}

	idx := spatial.NewIndex()
	diffMgr := diffusion.NewManager()

	reg := ops.NewRegistry()
	reg.RegisterRow(ops.NewFirstOp())
	reg.RegisterRow(ops.NewBehaviors())
	reg.RegisterRow(ops.NewDisplacement(cfg.Simulation.TimeStep, cfg.Simulation.MaxDisplacement))
	reg.RegisterRow(ops.NewDiscretization())
	reg.RegisterRow(ops.NewLastOp())

	return New(cfg, st, idx, diffMgr, reg, seed)
}

// snapshotPositions returns agent positions in Store traversal order. Both
// schedulers under test are built by the identical single-NUMA-domain,
// no-removal construction sequence in newTestScheduler, so that order is
// the same append order in both runs and positions compare index-wise
// instead of needing a common cross-run identifier (the two runs assign
// disjoint Uid ranges, since Uid is a single process-wide counter).
func snapshotPositions(t *testing.T, s *Scheduler) []agent.Vec3 {
	t.Helper()
	var out []agent.Vec3
	s.Store.ForEachAgent(func(a agent.Agent) {
		out = append(out, a.Position())
	})
	return out
}

// TestSimulateIsDeterministicAcrossSplitCalls is spec.md section 8:
// Simulate(N) followed by Simulate(M) must produce the same final state
// as a single Simulate(N+M) call, given the same seed and initial
// population.
func TestSimulateIsDeterministicAcrossSplitCalls(t *testing.T) {
	split := newTestScheduler(t, 99)
	split.Simulate(5)
	split.Simulate(7)

	whole := newTestScheduler(t, 99)
	whole.Simulate(12)

	require.Equal(t, split.TotalSteps(), whole.TotalSteps())

	splitPositions := snapshotPositions(t, split)
	wholePositions := snapshotPositions(t, whole)

	require.Equal(t, len(wholePositions), len(splitPositions))
	for i := range wholePositions {
		assert.InDelta(t, wholePositions[i][0], splitPositions[i][0], 1e-9)
		assert.InDelta(t, wholePositions[i][1], splitPositions[i][1], 1e-9)
		assert.InDelta(t, wholePositions[i][2], splitPositions[i][2], 1e-9)
	}
}
