// Package scheduler drives the fixed-timestep main loop (spec.md
// section 4.4): setup execution contexts, update the spatial index, run
// row-wise operations in registration order, run column-wise
// operations, tear down execution contexts, and back up if due.
package scheduler

import (
	"time"

	"simcore/agent"
	"simcore/backup"
	"simcore/config"
	"simcore/diffusion"
	"simcore/execctx"
	"simcore/logx"
	"simcore/ops"
	"simcore/rng"
	"simcore/spatial"
	"simcore/store"
)

// Publisher receives one stats snapshot per completed step. package
// server's Server implements this; left nil, no stats are published.
type Publisher interface {
	Publish(step int, agentCount int, grids []GridStats)
}

// GridStats is one substance's published summary for a single step.
type GridStats struct {
	ID   uint64
	Name string
	Sum  float64
}

// Scheduler owns the simulation's shared subsystems and drives Simulate.
type Scheduler struct {
	Config    *config.Config
	Store     *store.Store
	Index     *spatial.Index
	Diffusion *diffusion.Manager
	Registry  *ops.Registry
	RNGPool   *rng.Pool
	Publisher Publisher

	totalSteps int
	restore    *backup.Snapshot // set by LoadRestoreFile, consumed by the first Simulate call
	lastBackup time.Time        // set to the construction time in New, then to each successful backup's time
}

// New wires a Scheduler from its subsystems. cfg.Simulation.TimeStep and
// MaxDisplacement are expected to already be reflected into the
// registered "displacement" operation by the caller (main.go's wiring
// step), since the registry is built before the Scheduler exists.
func New(cfg *config.Config, st *store.Store, idx *spatial.Index, diff *diffusion.Manager, reg *ops.Registry, seed int64) *Scheduler {
	return &Scheduler{
		Config:     cfg,
		Store:      st,
		Index:      idx,
		Diffusion:  diff,
		Registry:   reg,
		RNGPool:    rng.NewPool(seed),
		lastBackup: time.Now(),
	}
}

// TotalSteps returns the number of steps completed so far.
func (s *Scheduler) TotalSteps() int { return s.totalSteps }

// LoadRestoreFile stages snap to be applied at the start of the next
// Simulate call, implementing spec.md section 4.4's restore
// short-circuit logic.
func (s *Scheduler) LoadRestoreFile(snap *backup.Snapshot) {
	s.restore = snap
}

// Simulate runs n steps, applying any staged restore first (spec.md
// section 4.4, "Restore"). Running with zero agents is fatal (spec.md
// section 4.4, section 7): at least one agent must exist.
func (s *Scheduler) Simulate(n int) {
	if s.restore != nil {
		snap := s.restore
		s.restore = nil

		restoreStep := snap.CompletedSteps
		if restoreStep >= s.totalSteps+n {
			// Short-circuit: the restored state already covers the
			// requested window. Count the call as completed without work.
			s.totalSteps = restoreStep
			return
		}
		if restoreStep > s.totalSteps {
			backup.Apply(snap, s.Store, s.Diffusion, s.RNGPool)
			remaining := n - (restoreStep - s.totalSteps)
			s.totalSteps = restoreStep
			s.runSteps(remaining)
			return
		}
	}

	s.runSteps(n)
}

func (s *Scheduler) runSteps(n int) {
	if s.Store.NumAgents() == 0 {
		logx.Fatal("scheduler", "Simulate called with zero agents")
	}

	for i := 0; i < n; i++ {
		s.runOneStep()
		s.totalSteps++

		if s.rebalanceDue() {
			s.Store.Rebalance(s.Index.BoxIndexOf)
		}

		if s.backupDue() {
			if err := backup.Save(s.Config.Simulation.BackupFile, s.snapshot()); err != nil {
				logx.Recoverable("scheduler", "backup write failed at step %d: %v", s.totalSteps, err)
			} else {
				s.lastBackup = time.Now()
			}
		}
	}
}

// runOneStep runs one fixed-timestep iteration (spec.md section 4.4).
// Row-wise operations are parallelized across NUMA domains through
// Store.ForEachAgentParallel (spec.md section 4.1): each domain gets its
// own *execctx.Context and *rng.Stream, since neither is safe to share
// across goroutines (spec.md section 5), and a domain's goroutine may
// run a chunk stolen from another domain's partition, not just its own.
func (s *Scheduler) runOneStep() {
	agents := s.collectAgents()

	numDomains := s.Store.NumaCount()
	if numDomains < 1 {
		numDomains = 1
	}
	ctxs := make([]*execctx.Context, numDomains)
	workers := make([]*ops.Worker, numDomains)
	for d := 0; d < numDomains; d++ {
		ctxs[d] = execctx.New(d)
		workers[d] = &ops.Worker{Ctx: ctxs[d], RNG: s.RNGPool.For(d)}
	}

	s.Index.Update(agents)

	env := &ops.Env{
		Step:      s.totalSteps,
		Config:    s.Config,
		Index:     s.Index,
		Resolver:  s.Store,
		Diffusion: s.Diffusion,
	}

	if s.Diffusion != nil {
		minB, maxB, _ := spatial.AABB(agents)
		s.Diffusion.UpdateAll(minB, maxB)
	}

	for _, op := range s.Registry.Rows() {
		if !ops.ShouldRun(op.Frequency(), s.totalSteps) {
			continue
		}
		op := op
		err := s.Store.ForEachAgentParallel(func(domain int, a agent.Agent) {
			op.RunOnAgent(a, env, workers[domain])
		}, store.DefaultChunkSize)
		if err != nil {
			logx.Recoverable("scheduler", "row op %q: %v", op.Name(), err)
		}
	}

	for _, op := range s.Registry.Columns() {
		if !ops.ShouldRun(op.Frequency(), s.totalSteps) {
			continue
		}
		op.RunColumn(env)
	}

	execctx.MergeAndApply(nil, s.Store, ctxs)

	if s.Publisher != nil {
		s.publishStats(len(agents))
	}
}

func (s *Scheduler) publishStats(agentCount int) {
	var grids []GridStats
	if s.Diffusion != nil {
		s.Diffusion.ForEach(func(g *diffusion.Grid) {
			grids = append(grids, GridStats{ID: g.ID, Name: g.Name, Sum: g.Sum()})
		})
	}
	s.Publisher.Publish(s.totalSteps, agentCount, grids)
}

func (s *Scheduler) collectAgents() []agent.Agent {
	var agents []agent.Agent
	s.Store.ForEachAgent(func(a agent.Agent) {
		agents = append(agents, a)
	})
	return agents
}

// backupDue reports whether a full backup_interval of wall-clock seconds
// has elapsed since the last backup (spec.md section 2, "configured
// wall-clock interval"; section 6, backup_interval is in seconds;
// original_source/src/scheduler.h's duration_cast<seconds> check).
func (s *Scheduler) backupDue() bool {
	interval := s.Config.Simulation.BackupInterval
	if interval <= 0 || s.Config.Simulation.BackupFile == "" {
		return false
	}
	return time.Since(s.lastBackup) >= time.Duration(interval)*time.Second
}

// rebalanceDue reports whether rebalance_interval steps have elapsed
// since the store was last rebalanced across NUMA domains (spec.md
// section 4.1). Unlike backup_interval this is a step count, not a wall
// clock: rebalancing compensates for population drift (division,
// movement) across steps, not elapsed time.
func (s *Scheduler) rebalanceDue() bool {
	interval := s.Config.Simulation.RebalanceInterval
	if interval <= 0 {
		return false
	}
	return s.totalSteps > 0 && s.totalSteps%interval == 0
}

func (s *Scheduler) snapshot() *backup.Snapshot {
	return backup.NewSnapshot(s.Store, s.Diffusion, s.RNGPool, s.totalSteps)
}
