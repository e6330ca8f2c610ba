package ops

import (
	"simcore/agent"
	"simcore/store"
)

// FirstOp is the protected "first op" (spec.md section 4.4): per-agent
// housekeeping that marks whether the agent runs the displacement
// operation this step. This reference implementation runs displacement
// on every cell every step that schedules it; kind-specific opt-outs
// (e.g. an anchored agent) are expressed by a Behavior clearing the flag
// during the "behaviors" operation, which runs immediately after.
type FirstOp struct{ base }

// NewFirstOp returns the default "first op" at frequency 1.
func NewFirstOp() *FirstOp {
	return &FirstOp{base{name: "first op", frequency: 1, target: CPU, protected: true}}
}

func (op *FirstOp) RunOnAgent(a agent.Agent, env *Env, w *Worker) {
	if c, ok := a.(store.CellAgent); ok {
		c.SetRunDisplacement(true)
	}
}
