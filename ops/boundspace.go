package ops

import "simcore/agent"

// BoundSpace clamps agent positions into [min_bound, max_bound]
// (spec.md section 4.4, operation 2). It is unprotected: simulations
// without a bounded domain unschedule it.
type BoundSpace struct {
	base
	Min, Max agent.Vec3
}

// NewBoundSpace returns "bound space" at frequency 1, clamping into [min,max].
func NewBoundSpace(min, max agent.Vec3) *BoundSpace {
	return &BoundSpace{base: base{name: "bound space", frequency: 1, target: CPU}, Min: min, Max: max}
}

func (op *BoundSpace) RunOnAgent(a agent.Agent, env *Env, w *Worker) {
	p := a.Position()
	for axis := 0; axis < 3; axis++ {
		if p[axis] < op.Min[axis] {
			p[axis] = op.Min[axis]
		}
		if p[axis] > op.Max[axis] {
			p[axis] = op.Max[axis]
		}
	}
	a.SetPosition(p)
}
