package diffusion

import (
	"fmt"
	"math"

	"simcore/agent"
	"simcore/logx"
)

// grow enlarges the grid to cover the new, larger bounds, re-centering
// existing values into zero-padded margins. Growth never shrinks the
// grid (spec.md section 4.3); a request to grow to a smaller volume is a
// logic error and is rejected without mutating the grid.
func (g *Grid) grow(minB, maxB agent.Vec3) error {
	newExtent := agent.Vec3{maxB[0] - minB[0], maxB[1] - minB[1], maxB[2] - minB[2]}

	newNx := cellsFor(newExtent[0], g.edge)
	newNy := cellsFor(newExtent[1], g.edge)
	newNz := cellsFor(newExtent[2], g.edge)

	if newNx < g.nx || newNy < g.ny || newNz < g.nz {
		return fmt.Errorf("diffusion: grid %s: grow requested smaller extent (%d,%d,%d) < (%d,%d,%d)",
			g.Name, newNx, newNy, newNz, g.nx, g.ny, g.nz)
	}
	if newNx == g.nx && newNy == g.ny && newNz == g.nz {
		return nil
	}

	dx := evenPad(newNx - g.nx)
	dy := evenPad(newNy - g.ny)
	dz := evenPad(newNz - g.nz)

	grownNx := g.nx + dx
	grownNy := g.ny + dy
	grownNz := g.nz + dz

	offX, offY, offZ := dx/2, dy/2, dz/2

	newC1 := make([]float64, grownNx*grownNy*grownNz)
	newC2 := make([]float64, grownNx*grownNy*grownNz)
	newGrad := make([]float64, 3*grownNx*grownNy*grownNz)

	oldIdx := func(x, y, z int) int { return x + y*g.nx + z*g.nx*g.ny }
	newIdx := func(x, y, z int) int { return x + y*grownNx + z*grownNx*grownNy }

	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				newC1[newIdx(x+offX, y+offY, z+offZ)] = g.c1[oldIdx(x, y, z)]
			}
		}
	}

	g.nx, g.ny, g.nz = grownNx, grownNy, grownNz
	g.c1, g.c2, g.grad = newC1, newC2, newGrad

	// Re-center the origin so cell (offX,offY,offZ) still maps to the
	// same world coordinates it did before growth.
	g.min = agent.Vec3{
		g.min[0] - float64(offX)*g.edge,
		g.min[1] - float64(offY)*g.edge,
		g.min[2] - float64(offZ)*g.edge,
	}

	logx.Debug("diffusion", "grid %s grown to (%d,%d,%d)", g.Name, g.nx, g.ny, g.nz)
	return nil
}

func cellsFor(extent, edge float64) int {
	n := int(math.Ceil(extent / edge))
	if n < 1 {
		n = 1
	}
	return n
}

// evenPad rounds a positive cell-count delta up to an even number, so
// growth stays symmetric and the centering property in grow() holds
// exactly (spec.md section 4.3: "If the required growth along an axis
// is odd, it is rounded up to even").
func evenPad(delta int) int {
	if delta <= 0 {
		return 0
	}
	if delta%2 != 0 {
		delta++
	}
	return delta
}
