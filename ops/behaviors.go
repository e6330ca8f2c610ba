package ops

import "simcore/agent"

// Behaviors invokes every attached Behavior's Run (spec.md section 4.4,
// operation 3, protected).
type Behaviors struct{ base }

// NewBehaviors returns the default "behaviors" operation at frequency 1.
func NewBehaviors() *Behaviors {
	return &Behaviors{base{name: "behaviors", frequency: 1, target: CPU, protected: true}}
}

func (op *Behaviors) RunOnAgent(a agent.Agent, env *Env, w *Worker) {
	for _, beh := range a.Behaviors() {
		if cb, ok := beh.(agent.CreatingBehavior); ok {
			cb.RunCreating(a, w.Ctx.CreateAgent)
			continue
		}
		beh.Run(a)
	}
}
