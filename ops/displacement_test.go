package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"simcore/agent"
)

func noJitter() agent.Vec3 { return agent.Vec3{} }

func TestPairwiseForceNoOverlapIsZero(t *testing.T) {
	f := PairwiseForce(
		agent.Vec3{0, 0, 0}, 10, 0.4,
		agent.Vec3{100, 0, 0}, 10, 0.4,
		noJitter,
	)
	assert.Equal(t, agent.Vec3{}, f)
}

func TestPairwiseForceIsAntisymmetric(t *testing.T) {
	a := agent.Vec3{0, 0, 0}
	b := agent.Vec3{5, 0, 0}

	fAB := PairwiseForce(a, 10, 0.4, b, 10, 0.4, noJitter)
	fBA := PairwiseForce(b, 10, 0.4, a, 10, 0.4, noJitter)

	assert.InDelta(t, -fAB[0], fBA[0], 1e-12)
	assert.InDelta(t, -fAB[1], fBA[1], 1e-12)
	assert.InDelta(t, -fAB[2], fBA[2], 1e-12)
}

func TestPairwiseForcePushesApartOnDeepOverlap(t *testing.T) {
	a := agent.Vec3{0, 0, 0}
	b := agent.Vec3{1, 0, 0}

	f := PairwiseForce(a, 10, 0.4, b, 10, 0.4, noJitter)

	// a sits to the left of b and they deeply overlap: the force on a
	// should point further left (away from b), i.e. negative x.
	assert.Less(t, f[0], 0.0)
}

func TestPairwiseForceJittersOnCoincidentCenters(t *testing.T) {
	want := agent.Vec3{1, 2, 3}
	f := PairwiseForce(
		agent.Vec3{0, 0, 0}, 10, 0.4,
		agent.Vec3{0, 0, 0}, 10, 0.4,
		func() agent.Vec3 { return want },
	)
	assert.Equal(t, want, f)
}

func TestPairwiseForceZeroAtExactContact(t *testing.T) {
	// delta == 0 at exactly r1+r2 apart: force should be (approximately) zero.
	d := 10.0
	f := PairwiseForce(
		agent.Vec3{0, 0, 0}, d, 0,
		agent.Vec3{d, 0, 0}, d, 0,
		noJitter,
	)
	assert.InDelta(t, 0.0, math.Sqrt(f.Norm2()), 1e-9)
}
