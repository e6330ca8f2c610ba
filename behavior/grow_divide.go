// Package behavior ships the one concrete agent.Behavior this module
// includes: GrowDivide, a continuous-growth-then-split rule grounded on
// original_source/src/biology_module/grow_divide.h (spec.md section 9's
// GrowthModule open question, resolved as a single non-duplicated
// implementation called from the normal "behaviors" operation).
package behavior

import (
	"math"

	"simcore/agent"
	"simcore/store"
)

// GrowDivide adds GrowthRate to a Cell's volume every step it runs, and
// once the volume reaches Threshold, divides the cell in place: the live
// agent becomes the mother half and a freshly created daughter half is
// handed to the caller's create callback (spec.md section 8, scenario 4,
// applied continuously rather than as a one-shot test call).
type GrowDivide struct {
	agent.MaskedBehavior
	GrowthRate  float64
	Threshold   float64
	VolumeRatio float64
	Phi, Theta  float64
}

// NewGrowDivide returns a GrowDivide that adds growthRate volume per run
// and divides into equal halves along a fixed +x axis once a cell's
// volume reaches threshold. The behavior is copied onto the daughter on
// division (EventDivision) and never removed from either half.
func NewGrowDivide(growthRate, threshold float64) *GrowDivide {
	return &GrowDivide{
		MaskedBehavior: agent.MaskedBehavior{
			Copy: agent.NewMask(agent.EventDivision),
		},
		GrowthRate:  growthRate,
		Threshold:   threshold,
		VolumeRatio: 1.0,
		Phi:         math.Pi / 2,
	}
}

// Run satisfies agent.Behavior for callers that never need the daughter
// (direct single-agent tests); it simply discards any division result.
func (g *GrowDivide) Run(a agent.Agent) {
	g.RunCreating(a, func(agent.Agent) {})
}

// RunCreating satisfies agent.CreatingBehavior: it mutates the narrow
// store.CellAgent view of a in place and calls create with the daughter
// exactly when a division happens this step.
func (g *GrowDivide) RunCreating(a agent.Agent, create func(agent.Agent)) {
	cell, ok := a.(store.CellAgent)
	if !ok {
		return
	}

	grown := cell.Volume() + g.GrowthRate
	if grown < g.Threshold {
		cell.SetVolume(grown)
		a.SetDiameter(agent.DiameterOfVolume(grown))
		return
	}

	motherVolume, motherDiameter, motherCenter, daughterVolume, daughterDiameter, daughterCenter :=
		agent.DivideVolume(grown, a.Position(), g.VolumeRatio, g.Phi, g.Theta)

	a.SetPosition(motherCenter)
	a.SetDiameter(motherDiameter)
	cell.SetVolume(motherVolume)

	daughter := agent.NewCell(daughterCenter, daughterDiameter)
	daughter.Volume = daughterVolume
	daughter.AddBehavior(NewGrowDivide(g.GrowthRate, g.Threshold))

	create(daughter)
}
