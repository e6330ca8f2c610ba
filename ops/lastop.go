package ops

import (
	"simcore/agent"
	"simcore/store"
)

// LastOp is the protected "last op" (spec.md section 4.4, operation 7):
// commits per-agent next-step displacement flags. Since FirstOp already
// sets RunDisplacement unconditionally at the start of the next step,
// this reference implementation's commit step is a reset to the
// not-yet-decided state, leaving FirstOp as the sole place the flag is
// turned on.
type LastOp struct{ base }

// NewLastOp returns the default "last op" at frequency 1.
func NewLastOp() *LastOp {
	return &LastOp{base{name: "last op", frequency: 1, target: CPU, protected: true}}
}

func (op *LastOp) RunOnAgent(a agent.Agent, env *Env, w *Worker) {
	if c, ok := a.(store.CellAgent); ok {
		c.SetRunDisplacement(false)
	}
}
