package backup

import (
	"simcore/agent"
	"simcore/diffusion"
	"simcore/rng"
	"simcore/store"
)

// CellRecord is the on-disk representation of one agent.Cell, flattened
// out of whichever CellBlock it currently lives in (spec.md section 6,
// "Persisted state layout": "the AgentStore").
type CellRecord struct {
	Uid             uint64       `msgpack:"uid"`
	Position        agent.Vec3   `msgpack:"position"`
	Diameter        float64      `msgpack:"diameter"`
	Mass            float64      `msgpack:"mass"`
	Adherence       float64      `msgpack:"adherence"`
	Volume          float64      `msgpack:"volume"`
	TractorForce    agent.Vec3   `msgpack:"tractor_force"`
	RunDisplacement bool         `msgpack:"run_displacement"`
}

// GridRecord is the on-disk representation of one diffusion.Grid's
// full layout and concentration field, sufficient to restore it without
// rerunning Update first.
type GridRecord struct {
	ID            uint64     `msgpack:"id"`
	Name          string     `msgpack:"name"`
	D             float64    `msgpack:"d"`
	Mu            float64    `msgpack:"mu"`
	Cmax          float64    `msgpack:"cmax"`
	Edge          float64    `msgpack:"edge"`
	Min           agent.Vec3 `msgpack:"min"`
	Nx            int        `msgpack:"nx"`
	Ny            int        `msgpack:"ny"`
	Nz            int        `msgpack:"nz"`
	Concentration []float64  `msgpack:"concentration"`
}

// Snapshot is the complete persisted state of one backup (spec.md
// section 6): the AgentStore, the step counter under
// completed_simulation_steps, RuntimeVariables, every DiffusionGrid,
// and the RNG state vector.
type Snapshot struct {
	CompletedSteps int                `msgpack:"completed_simulation_steps"`
	Cells          []CellRecord       `msgpack:"cells"`
	Grids          []GridRecord       `msgpack:"grids"`
	RNG            []rng.State        `msgpack:"rng"`
	Runtime        RuntimeVariables   `msgpack:"runtime_variables"`
}

// NewSnapshot builds a Snapshot from the live simulation state.
func NewSnapshot(st *store.Store, diff *diffusion.Manager, pool *rng.Pool, completedSteps int) *Snapshot {
	snap := &Snapshot{
		CompletedSteps: completedSteps,
		Runtime:        CurrentRuntimeVariables(),
	}

	st.ForEachAgent(func(a agent.Agent) {
		c, ok := a.(store.CellAgent)
		if !ok {
			return
		}
		snap.Cells = append(snap.Cells, CellRecord{
			Uid:             uint64(c.Uid()),
			Position:        c.Position(),
			Diameter:        c.Diameter(),
			Mass:            c.Mass(),
			Adherence:       c.Adherence(),
			Volume:          c.Volume(),
			TractorForce:    c.TractorForce(),
			RunDisplacement: c.RunDisplacement(),
		})
	})

	if diff != nil {
		diff.ForEach(func(g *diffusion.Grid) {
			nx, ny, nz := g.Resolution()
			snap.Grids = append(snap.Grids, GridRecord{
				ID:            g.ID,
				Name:          g.Name,
				D:             g.D,
				Mu:            g.Mu,
				Cmax:          g.Cmax,
				Edge:          g.Edge(),
				Min:           g.Origin(),
				Nx:            nx,
				Ny:            ny,
				Nz:            nz,
				Concentration: g.RawValues(),
			})
		})
	}

	if pool != nil {
		snap.RNG = pool.Snapshot()
	}

	return snap
}
