// Package diffusion implements the DiffusionGrid (spec.md section 4.3):
// one regular Cartesian grid per extracellular substance, integrating
// the reaction-diffusion equation dc/dt = D*Laplacian(c) - mu*c with an
// isotropic 7-point stencil, a selectable boundary policy, and in-place
// growth that preserves existing values.
package diffusion

import (
	"fmt"
	"math"

	"simcore/agent"
	"simcore/logx"
)

// Boundary selects how the stencil treats reads that fall outside the grid.
type Boundary int

const (
	// Closed reflects the boundary cell's own value back for an
	// out-of-grid read (Neumann-0): mass accumulates at the edges.
	Closed Boundary = iota
	// Leaking zeroes the stencil coefficient for any direction that
	// would read outside the grid (Dirichlet-0): substance can leave.
	Leaking
)

// Integrator selects the time-stepping scheme.
type Integrator int

const (
	Euler Integrator = iota
	RK4
)

// Grid is one substance's diffusion state (spec.md section 3,
// "DiffusionGrid state").
type Grid struct {
	ID   uint64
	Name string

	D     float64 // diffusion coefficient, in [0,1)
	Mu    float64 // decay constant, >= 0
	Cmax  float64 // concentration clamp

	Boundary   Boundary
	Integrator Integrator

	resolution int // cells per axis of the longest side, fixed at construction

	edge       float64
	nx, ny, nz int
	min        agent.Vec3 // grid origin (world coordinates of cell (0,0,0)'s low corner)

	c1, c2 []float64
	grad   []float64 // 3*nx*ny*nz, unit-normalized per cell

	cc, cnb float64 // cc: center coefficient; cnb: the six equal neighbor coefficients
}

// NewGrid constructs a Grid for substance id/name with diffusion
// coefficient D and decay mu. The grid is not yet sized; the first call
// to Update allocates it against an AABB (spec.md section 4.3,
// "Initialization").
func NewGrid(id uint64, name string, D, mu, cmax float64, resolution int, boundary Boundary, integrator Integrator) (*Grid, error) {
	if D < 0 || D >= 1 {
		return nil, fmt.Errorf("diffusion: D must be in [0,1), got %v", D)
	}
	if mu < 0 {
		return nil, fmt.Errorf("diffusion: mu must be >= 0, got %v", mu)
	}
	if resolution < 1 {
		resolution = 1
	}
	g := &Grid{
		ID:         id,
		Name:       name,
		D:          D,
		Mu:         mu,
		Cmax:       cmax,
		Boundary:   boundary,
		Integrator: integrator,
		resolution: resolution,
		cc:         1 - D,
		cnb:        D / 6,
	}
	return g, nil
}

// Resolution returns the number of cells along each axis.
func (g *Grid) Resolution() (nx, ny, nz int) { return g.nx, g.ny, g.nz }

// Edge returns the cell edge length.
func (g *Grid) Edge() float64 { return g.edge }

// Allocated reports whether Update has sized the grid yet.
func (g *Grid) Allocated() bool { return g.nx > 0 }

// Origin returns the grid's world-space minimum corner.
func (g *Grid) Origin() agent.Vec3 { return g.min }

// RawValues returns a copy of the current concentration field, flattened
// in (x + y*nx + z*nx*ny) order, for backup persistence.
func (g *Grid) RawValues() []float64 {
	out := make([]float64, len(g.c1))
	copy(out, g.c1)
	return out
}

// RestoreLayout directly sets the grid's geometry and concentration
// field from a prior backup (spec.md section 6), bypassing Update/grow
// since the exact layout is already known.
func (g *Grid) RestoreLayout(edge float64, min agent.Vec3, nx, ny, nz int, values []float64) {
	g.edge = edge
	g.min = min
	g.nx, g.ny, g.nz = nx, ny, nz
	g.c1 = make([]float64, len(values))
	copy(g.c1, values)
	g.c2 = make([]float64, len(values))
	g.grad = make([]float64, 3*len(values))
}

func roundUpMultiple(length, edge float64) float64 {
	n := math.Ceil(length / edge)
	if n < 1 {
		n = 1
	}
	return n * edge
}

// Update (re)sizes the grid to cover [minB,maxB] at the given resolution
// (cells per axis of the longest side). On first call it allocates; on
// later calls it only grows, preserving existing values by re-centering
// them into the larger array with zero-padded margins (spec.md section
// 4.3, "Growth"). Shrinking is a logic error.
func (g *Grid) Update(minB, maxB agent.Vec3) error {
	extent := agent.Vec3{maxB[0] - minB[0], maxB[1] - minB[1], maxB[2] - minB[2]}
	lmax := math.Max(extent[0], math.Max(extent[1], extent[2]))
	if lmax <= 0 {
		lmax = 1
	}

	if !g.Allocated() {
		edge := lmax / float64(g.resolution)
		if edge <= 0 {
			logx.Fatal("diffusion", "grid %s: computed non-positive edge", g.Name)
		}
		g.edge = edge
		g.min = minB
		g.allocateFor(extent)
		return nil
	}

	return g.grow(minB, maxB)
}

func (g *Grid) allocateFor(extent agent.Vec3) {
	g.nx = int(math.Ceil(roundUpMultiple(extent[0], g.edge) / g.edge))
	g.ny = int(math.Ceil(roundUpMultiple(extent[1], g.edge) / g.edge))
	g.nz = int(math.Ceil(roundUpMultiple(extent[2], g.edge) / g.edge))
	if g.nx < 1 {
		g.nx = 1
	}
	if g.ny < 1 {
		g.ny = 1
	}
	if g.nz < 1 {
		g.nz = 1
	}
	n := g.nx * g.ny * g.nz
	g.c1 = make([]float64, n)
	g.c2 = make([]float64, n)
	g.grad = make([]float64, 3*n)
}

func (g *Grid) idx(x, y, z int) int {
	return x + y*g.nx + z*g.nx*g.ny
}

func (g *Grid) inBounds(x, y, z int) bool {
	return x >= 0 && x < g.nx && y >= 0 && y < g.ny && z >= 0 && z < g.nz
}

// Seed applies fn(x,y,z) (world coordinates of each cell's center) to
// every cell of c1, the "user initializer functor" of spec.md section 4.3.
func (g *Grid) Seed(fn func(x, y, z float64) float64) {
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				wx, wy, wz := g.cellCenter(x, y, z)
				g.c1[g.idx(x, y, z)] = fn(wx, wy, wz)
			}
		}
	}
}

func (g *Grid) cellCenter(x, y, z int) (wx, wy, wz float64) {
	return g.min[0] + (float64(x)+0.5)*g.edge,
		g.min[1] + (float64(y)+0.5)*g.edge,
		g.min[2] + (float64(z)+0.5)*g.edge
}

// posToCell maps a world position to its containing cell indices.
func (g *Grid) posToCell(pos agent.Vec3) (x, y, z int) {
	x = int(math.Floor((pos[0] - g.min[0]) / g.edge))
	y = int(math.Floor((pos[1] - g.min[1]) / g.edge))
	z = int(math.Floor((pos[2] - g.min[2]) / g.edge))
	return
}

// IncreaseAt adds delta to the cell containing pos, clamped at Cmax
// (spec.md section 4.3: clamping happens at deposition sites, never as a
// blanket post-step clamp).
func (g *Grid) IncreaseAt(pos agent.Vec3, delta float64) {
	x, y, z := g.posToCell(pos)
	if !g.inBounds(x, y, z) {
		return
	}
	i := g.idx(x, y, z)
	v := g.c1[i] + delta
	if v > g.Cmax {
		v = g.Cmax
	}
	g.c1[i] = v
}

// ConcentrationAt returns c1 of the cell containing pos.
func (g *Grid) ConcentrationAt(pos agent.Vec3) float64 {
	x, y, z := g.posToCell(pos)
	if !g.inBounds(x, y, z) {
		return 0
	}
	return g.c1[g.idx(x, y, z)]
}

// GradientAt returns the cached, already-normalized gradient of the cell
// containing pos.
func (g *Grid) GradientAt(pos agent.Vec3) agent.Vec3 {
	x, y, z := g.posToCell(pos)
	if !g.inBounds(x, y, z) {
		return agent.Vec3{}
	}
	i := 3 * g.idx(x, y, z)
	return agent.Vec3{g.grad[i], g.grad[i+1], g.grad[i+2]}
}

// At returns c1 at explicit cell indices, used by tests checking exact
// values against spec.md section 8's literal scenarios.
func (g *Grid) At(x, y, z int) float64 {
	return g.c1[g.idx(x, y, z)]
}

// GradAt returns the gradient at explicit cell indices.
func (g *Grid) GradAt(x, y, z int) agent.Vec3 {
	i := 3 * g.idx(x, y, z)
	return agent.Vec3{g.grad[i], g.grad[i+1], g.grad[i+2]}
}

// Sum returns the total concentration across the grid, used by the mass
// conservation / decay test properties of spec.md section 8.
func (g *Grid) Sum() float64 {
	total := 0.0
	for _, v := range g.c1 {
		total += v
	}
	return total
}
