package ops

import "simcore/agent"

// RowWise visits one agent at a time, parallelized across the
// AgentStore (spec.md section 4.4).
type RowWise interface {
	Name() string
	Frequency() int
	Target() ComputeTarget
	Protected() bool
	RunOnAgent(a agent.Agent, env *Env, w *Worker)
}

// ColumnWise runs once per step with access to the whole simulation
// (spec.md section 4.4): diffusion, statistics, visualization, backup.
type ColumnWise interface {
	Name() string
	Frequency() int
	Target() ComputeTarget
	Protected() bool
	RunColumn(env *Env)
}

// base holds the fields every concrete operation shares.
type base struct {
	name      string
	frequency int
	target    ComputeTarget
	protected bool
}

func (b base) Name() string          { return b.name }
func (b base) Frequency() int        { return b.frequency }
func (b base) Target() ComputeTarget { return b.target }
func (b base) Protected() bool       { return b.protected }

// ShouldRun reports whether op runs on the given step (spec.md section
// 4.4: "executed only on steps where step % f == 0").
func ShouldRun(frequency, step int) bool {
	if frequency < 1 {
		frequency = 1
	}
	return step%frequency == 0
}
