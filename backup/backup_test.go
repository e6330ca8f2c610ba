package backup

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simcore/agent"
	"simcore/diffusion"
	"simcore/numa"
	"simcore/rng"
	"simcore/store"
)

func newTestStore() *store.Store {
	st := store.NewStore(numa.DiscoverWithNodeCount(1))
	st.Register(agent.KindCell)
	st.Register(agent.KindNeuriteElement)
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newTestStore()
	c1 := agent.NewCell(agent.Vec3{1, 2, 3}, 10)
	c1.Mass = 2.5
	c1.Adherence = 0.7
	st.PushCell(c1)

	diffMgr := diffusion.NewManager()
	g, err := diffusion.NewGrid(1, "oxygen", 0.4, 0.01, 1e15, 5, diffusion.Closed, diffusion.Euler)
	require.NoError(t, err)
	require.NoError(t, g.Update(agent.Vec3{0, 0, 0}, agent.Vec3{5, 5, 5}))
	g.IncreaseAt(agent.Vec3{2.5, 2.5, 2.5}, 4.0)
	diffMgr.Register(g)

	pool := rng.NewPool(7)
	pool.For(0).Float64()
	pool.For(0).Float64()

	snap := NewSnapshot(st, diffMgr, pool, 42)

	dir := t.TempDir()
	file := filepath.Join(dir, "sim.backup")
	require.NoError(t, Save(file, snap))

	loaded, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, snap.CompletedSteps, loaded.CompletedSteps)
	require.Len(t, loaded.Cells, 1)
	assert.Equal(t, uint64(c1.Uid()), loaded.Cells[0].Uid)
	assert.Equal(t, c1.Position(), loaded.Cells[0].Position)
	assert.Equal(t, c1.Mass, loaded.Cells[0].Mass)
	require.Len(t, loaded.Grids, 1)
	assert.Equal(t, g.ID, loaded.Grids[0].ID)
	assert.Equal(t, g.RawValues(), loaded.Grids[0].Concentration)
	require.Len(t, loaded.RNG, 1)
	assert.Equal(t, uint64(2), loaded.RNG[0].Draws)
}

func TestApplyRestoresStoreAndRng(t *testing.T) {
	st := newTestStore()
	c1 := agent.NewCell(agent.Vec3{1, 1, 1}, 8)
	originalUid := c1.Uid()
	st.PushCell(c1)

	pool := rng.NewPool(9)
	pool.For(0).Float64()
	pool.For(0).Float64()
	pool.For(0).Float64()

	snap := NewSnapshot(st, nil, pool, 5)

	st2 := newTestStore()
	pool2 := rng.NewPool(9)

	Apply(snap, st2, nil, pool2)

	assert.Equal(t, 1, st2.NumAgents())
	restored, ok := st2.Resolve(originalUid)
	require.True(t, ok)
	assert.Equal(t, agent.Vec3{1, 1, 1}, restored.Position())

	restoredStream := pool2.For(0)
	freshStream := rng.NewStream(9)
	freshStream.Float64()
	freshStream.Float64()
	freshStream.Float64()
	assert.Equal(t, freshStream.Float64(), restoredStream.Float64())
}
