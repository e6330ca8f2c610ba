package agent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDivideConservesVolumeAndSplitsAlongAxis is spec.md section 8,
// scenario 4: a diameter-40 sphere divided with volumeRatio = 1.0,
// phi = pi/2, theta = 0 yields equal mother/daughter diameters, a
// volume sum matching the original within 1e-10, and centers displaced
// by equal distances along the +x axis.
func TestDivideConservesVolumeAndSplitsAlongAxis(t *testing.T) {
	origin := Vec3{0, 0, 0}
	c := NewCell(origin, 40)
	originalVolume := c.Volume

	daughter := c.Divide(1.0, math.Pi/2, 0)

	assert.InDelta(t, c.Diameter(), daughter.Diameter(), 1e-9)
	assert.InDelta(t, originalVolume, c.Volume+daughter.Volume, 1e-10)

	motherOffset := c.Position().Sub(origin)
	daughterOffset := daughter.Position().Sub(origin)

	// Equal volume split puts both centers at the same distance from the
	// pre-division center, on opposite sides of it.
	assert.InDelta(t, motherOffset.Norm2(), daughterOffset.Norm2(), 1e-9)

	// phi = pi/2, theta = 0 selects the +x axis: the y and z components
	// of both offsets must vanish, and x must have opposite sign.
	assert.InDelta(t, 0, motherOffset[1], 1e-9)
	assert.InDelta(t, 0, motherOffset[2], 1e-9)
	assert.InDelta(t, 0, daughterOffset[1], 1e-9)
	assert.InDelta(t, 0, daughterOffset[2], 1e-9)
	assert.True(t, motherOffset[0]*daughterOffset[0] < 0)
}

func TestDivideConservesMass(t *testing.T) {
	c := NewCell(Vec3{1, 2, 3}, 20)
	c.Mass = 8.0

	daughter := c.Divide(0.5, 0.3, 1.1)

	assert.InDelta(t, 8.0, c.Mass+daughter.Mass, 1e-10)
}
