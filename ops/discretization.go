package ops

import "simcore/agent"

// Discretization is the protected "discretization" operation (spec.md
// section 4.4, operation 5): per-agent kind-specific post-step
// adjustment, e.g. neurite re-segmentation. Dispatch is the agent's own
// responsibility via Agent.RunDiscretization (spec.md section 9's
// tagged-variant design: no type switch needed here).
type Discretization struct{ base }

// NewDiscretization returns the default "discretization" operation at frequency 1.
func NewDiscretization() *Discretization {
	return &Discretization{base{name: "discretization", frequency: 1, target: CPU, protected: true}}
}

func (op *Discretization) RunOnAgent(a agent.Agent, env *Env, w *Worker) {
	a.RunDiscretization()
}
