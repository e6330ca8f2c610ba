package ops

import (
	"math"

	"simcore/agent"
	"simcore/store"
)

// Force constants from the original engine's default pairwise force
// (original_source/src/default_force.h): k is the repulsion
// coefficient, gamma the attraction coefficient, and minDistance guards
// against dividing by a near-zero center separation.
const (
	repulsionK    = 2.0
	attractionG   = 1.0
	minDistance   = 1e-8
	adherenceBoost = 10.0 // additional_radius = adherenceBoost * min(adherence1, adherence2)
)

// PairwiseForce computes the force spec.md section 4.4's displacement
// algorithm step 2 describes: repulsion plus bounded attraction on
// overlap, zero with no overlap, and a random jitter when centers
// coincide to within minDistance.
func PairwiseForce(c1 agent.Vec3, d1, adh1 float64, c2 agent.Vec3, d2, adh2 float64, jitter func() agent.Vec3) agent.Vec3 {
	boost := adherenceBoost * math.Min(adh1, adh2)
	r1 := 0.5*d1 + boost
	r2 := 0.5*d2 + boost

	diff := c1.Sub(c2)
	dist := math.Sqrt(diff.Norm2())
	delta := r1 + r2 - dist

	if delta < 0 {
		return agent.Vec3{}
	}
	if dist < minDistance {
		return jitter()
	}

	R := (r1 * r2) / (r1 + r2)
	F := repulsionK*delta - attractionG*math.Sqrt(R*delta)
	module := F / dist
	return diff.Scale(module)
}

// Displacement is the unprotected "displacement" operation (spec.md
// section 4.4, operation 4): accumulates mechanical forces from
// neighbors within squared_radius = (max box edge)^2 and applies a
// capped position update.
//
// It walks neighbors through Index.ForEachNeighbor (the full 27-box
// Moore query) rather than Index.ForEachPairHalfMoore. Half-Moore
// exists to let a pairwise force be accumulated onto BOTH members of a
// pair from a single visit, which only stays race-free if its nine
// phases run strictly in sequence (see the ForEachPairHalfMoore doc
// comment). That sequencing is a hard barrier against
// Store.ForEachAgentParallel's NUMA work-stealing, which gives no
// control over which agent a domain's goroutine is touching at any
// moment. RunOnAgent instead reads every neighbor but writes only c's
// own TractorForce/position, so running it once per agent under
// work-stealing is safe with no phase barrier at all — each goroutine
// owns the one agent it is currently positioned at. ForEachPairHalfMoore
// remains in package spatial for callers that want the one-sided-write
// shape (see its own test), it is simply not this operation's fit.
type Displacement struct {
	base
	TimeStep         float64
	MaxDisplacement  float64
}

// NewDisplacement returns "displacement" at frequency 1.
func NewDisplacement(timeStep, maxDisplacement float64) *Displacement {
	return &Displacement{
		base:            base{name: "displacement", frequency: 1, target: CPU},
		TimeStep:        timeStep,
		MaxDisplacement: maxDisplacement,
	}
}

func (op *Displacement) RunOnAgent(a agent.Agent, env *Env, w *Worker) {
	c, ok := a.(store.CellAgent)
	if !ok || !c.RunDisplacement() {
		return
	}

	h := op.TimeStep
	move := c.TractorForce().Scale(h)

	radius := env.Index.Edge()
	var force agent.Vec3
	env.Index.ForEachNeighbor(a, env.Resolver, radius, func(other agent.Agent) {
		nb, ok := other.(store.CellAgent)
		if !ok {
			return
		}
		f := PairwiseForce(
			c.Position(), c.Diameter(), c.Adherence(),
			nb.Position(), nb.Diameter(), nb.Adherence(),
			func() agent.Vec3 { return w.RNG.JitterVec3(3.0) },
		)
		force = force.Add(f)
	})

	if math.Sqrt(force.Norm2()) > c.Adherence() {
		move = move.Add(force.Scale(h / c.Mass()))
	}

	if mag := math.Sqrt(move.Norm2()); mag > op.MaxDisplacement {
		move = move.Scale(op.MaxDisplacement / mag)
	}

	c.SetPosition(c.Position().Add(move))
	c.SetTractorForce(agent.Vec3{})
}
