package diffusion

import "math"

// neighborValue reads c at (x+dx,y+dy,z+dz), applying the boundary
// policy when that cell lies outside the grid (spec.md section 4.3,
// "Boundary policy").
func (g *Grid) neighborValue(c []float64, x, y, z, dx, dy, dz int) (value float64, coeff float64) {
	nx, ny, nz := x+dx, y+dy, z+dz
	if g.inBounds(nx, ny, nz) {
		return c[g.idx(nx, ny, nz)], g.cnb
	}
	switch g.Boundary {
	case Closed:
		// Out-of-grid reads are replaced by the boundary cell's own
		// value: reflects a Neumann-0 gradient at the edge.
		return c[g.idx(x, y, z)], g.cnb
	case Leaking:
		// The coefficient for this direction is forced to zero for this
		// edge cell (Dirichlet-0): substance leaves through the face.
		return 0, 0
	default:
		return c[g.idx(x, y, z)], g.cnb
	}
}

// stencilAt evaluates the 7-point stencil at (x,y,z) reading from src,
// returning the pre-decay value (spec.md section 4.3's bracketed sum,
// before the outer (1-mu) factor).
func (g *Grid) stencilAt(src []float64, x, y, z int) float64 {
	center := g.cc * src[g.idx(x, y, z)]

	wVal, wCoef := g.neighborValue(src, x, y, z, -1, 0, 0)
	eVal, eCoef := g.neighborValue(src, x, y, z, 1, 0, 0)
	nVal, nCoef := g.neighborValue(src, x, y, z, 0, -1, 0)
	sVal, sCoef := g.neighborValue(src, x, y, z, 0, 1, 0)
	bVal, bCoef := g.neighborValue(src, x, y, z, 0, 0, -1)
	tVal, tCoef := g.neighborValue(src, x, y, z, 0, 0, 1)

	return center + wCoef*wVal + eCoef*eVal + nCoef*nVal + sCoef*sVal + bCoef*bVal + tCoef*tVal
}

// Step advances the grid by one timestep using the configured Integrator,
// then recomputes the gradient field (spec.md section 4.3).
func (g *Grid) Step() {
	switch g.Integrator {
	case RK4:
		g.stepRK4()
	default:
		g.stepEuler()
	}
	g.computeGradient()
}

func (g *Grid) stepEuler() {
	decay := 1 - g.Mu
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				g.c2[g.idx(x, y, z)] = decay * g.stencilAt(g.c1, x, y, z)
			}
		}
	}
	g.c1, g.c2 = g.c2, g.c1
}

// stepRK4 applies the same stencil as the Euler step but combines four
// evaluations per cell as k1..k4 (spec.md section 4.3): since the
// stencil here is linear and time-independent, k2 is evaluated against
// the half-step state formed from k1, k3 against the half-step state
// formed from k2, and k4 against the full-step state formed from k3,
// matching a classical RK4 applied to
// dc/dt = (stencil(c) - c)/dt with dt folded into the stencil's own
// implicit unit timestep.
func (g *Grid) stepRK4() {
	decay := 1 - g.Mu
	n := len(g.c1)
	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	tmp := make([]float64, n)

	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				i := g.idx(x, y, z)
				k1[i] = decay*g.stencilAt(g.c1, x, y, z) - g.c1[i]
			}
		}
	}
	for i := range tmp {
		tmp[i] = g.c1[i] + 0.5*k1[i]
	}
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				i := g.idx(x, y, z)
				k2[i] = decay*g.stencilAt(tmp, x, y, z) - tmp[i]
			}
		}
	}
	for i := range tmp {
		tmp[i] = g.c1[i] + 0.5*k2[i]
	}
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				i := g.idx(x, y, z)
				k3[i] = decay*g.stencilAt(tmp, x, y, z) - tmp[i]
			}
		}
	}
	for i := range tmp {
		tmp[i] = g.c1[i] + k3[i]
	}
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				i := g.idx(x, y, z)
				k4[i] = decay*g.stencilAt(tmp, x, y, z) - tmp[i]
			}
		}
	}

	for i := range g.c2 {
		g.c2[i] = g.c1[i] + (k1[i]+2*k2[i]+2*k3[i]+k4[i])/6
	}
	g.c1, g.c2 = g.c2, g.c1
}

// computeGradient fills g.grad via central differences, doubling the
// single available neighbor term at a boundary face, then normalizes
// each cell's gradient to unit length if its magnitude exceeds 1e-10
// (spec.md section 4.3, "Gradient").
//
// g.grad stores the normalized vector, not the raw central difference:
// spec.md says the grid is "normalized per-cell ... after every step"
// and GradientAt returns the normalized value, so normalizing here and
// storing only that is the literal reading. original_source instead
// stores the raw difference and normalizes on read (in its
// GetGradient), which means a raw magnitude like spec.md section 8
// scenario 1's example value is not reproducible from g.grad as stored
// here — that scenario's literal and this storage choice disagree with
// each other, not just with original_source.
func (g *Grid) computeGradient() {
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				gx := g.partial(x, y, z, -1, 0, 0, 1, 0, 0)
				gy := g.partial(x, y, z, 0, -1, 0, 0, 1, 0)
				gz := g.partial(x, y, z, 0, 0, -1, 0, 0, 1)

				i := 3 * g.idx(x, y, z)
				mag := math.Sqrt(gx*gx + gy*gy + gz*gz)
				if mag > 1e-10 {
					gx, gy, gz = gx/mag, gy/mag, gz/mag
				}
				g.grad[i], g.grad[i+1], g.grad[i+2] = gx, gy, gz
			}
		}
	}
}

// partial computes one axis' central difference c[lo]-c[hi] over 2*edge,
// doubling the one-sided term at a boundary (spec.md section 4.3).
func (g *Grid) partial(x, y, z, loDx, loDy, loDz, hiDx, hiDy, hiDz int) float64 {
	lx, ly, lz := x+loDx, y+loDy, z+loDz
	hx, hy, hz := x+hiDx, y+hiDy, z+hiDz

	loOK := g.inBounds(lx, ly, lz)
	hiOK := g.inBounds(hx, hy, hz)
	self := g.c1[g.idx(x, y, z)]

	switch {
	case loOK && hiOK:
		return (g.c1[g.idx(lx, ly, lz)] - g.c1[g.idx(hx, hy, hz)]) / (2 * g.edge)
	case hiOK: // at the low boundary: only the high neighbor exists
		return (self - g.c1[g.idx(hx, hy, hz)]) / g.edge
	case loOK: // at the high boundary: only the low neighbor exists
		return (g.c1[g.idx(lx, ly, lz)] - self) / g.edge
	default:
		return 0
	}
}
