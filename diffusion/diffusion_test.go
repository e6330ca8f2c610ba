package diffusion

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"simcore/agent"
)

func newTestGrid(t *testing.T, D, mu float64, boundary Boundary) *Grid {
	t.Helper()
	g, err := NewGrid(1, "test", D, mu, 1e15, 5, boundary, Euler)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := g.Update(agent.Vec3{0, 0, 0}, agent.Vec3{5, 5, 5}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	return g
}

func TestDiffusionInvariants(t *testing.T) {
	Convey("Given a closed-edge 5x5x5 grid seeded at its center", t, func() {
		Convey("With mu = 0, total concentration is conserved across a step", func() {
			g := newTestGrid(t, 0.4, 0, Closed)
			g.IncreaseAt(agent.Vec3{2.5, 2.5, 2.5}, 4.0)
			before := g.Sum()

			g.Step()

			So(g.Sum(), ShouldAlmostEqual, before, 1e-9)
		})

		Convey("With mu > 0, total concentration decays by exactly (1-mu) per step", func() {
			mu := 0.1
			g := newTestGrid(t, 0.4, mu, Closed)
			g.IncreaseAt(agent.Vec3{2.5, 2.5, 2.5}, 4.0)
			before := g.Sum()

			g.Step()

			So(g.Sum(), ShouldAlmostEqual, (1-mu)*before, 1e-9)
		})

		Convey("Leaking edges let mass escape, so total concentration strictly decreases", func() {
			g := newTestGrid(t, 0.4, 0, Leaking)
			g.IncreaseAt(agent.Vec3{2.5, 2.5, 2.5}, 4.0)
			before := g.Sum()

			for i := 0; i < 10; i++ {
				g.Step()
			}

			So(g.Sum(), ShouldBeLessThan, before)
		})

		Convey("A single central deposit diffuses symmetrically across the three axes", func() {
			g := newTestGrid(t, 0.4, 0, Closed)
			g.IncreaseAt(agent.Vec3{2.5, 2.5, 2.5}, 4.0)

			g.Step()

			So(g.At(3, 2, 2), ShouldAlmostEqual, g.At(1, 2, 2), 1e-12)
			So(g.At(2, 3, 2), ShouldAlmostEqual, g.At(2, 1, 2), 1e-12)
			So(g.At(2, 2, 3), ShouldAlmostEqual, g.At(2, 2, 1), 1e-12)
			So(g.At(3, 2, 2), ShouldAlmostEqual, g.At(2, 3, 2), 1e-12)
		})
	})
}

func TestGrowthNeverShrinks(t *testing.T) {
	Convey("Given an allocated grid", t, func() {
		g := newTestGrid(t, 0.4, 0, Closed)
		g.IncreaseAt(agent.Vec3{2.5, 2.5, 2.5}, 7.0)
		before := g.At(2, 2, 2)

		Convey("Growing to a larger bound preserves the existing value at its original cell", func() {
			err := g.Update(agent.Vec3{-5, -5, -5}, agent.Vec3{10, 10, 10})
			So(err, ShouldBeNil)

			nx, ny, nz := g.Resolution()
			So(nx, ShouldBeGreaterThan, 5)
			So(ny, ShouldBeGreaterThan, 5)
			So(nz, ShouldBeGreaterThan, 5)

			found := false
			for z := 0; z < nz; z++ {
				for y := 0; y < ny; y++ {
					for x := 0; x < nx; x++ {
						if math.Abs(g.At(x, y, z)-before) < 1e-12 && before != 0 {
							found = true
						}
					}
				}
			}
			So(found, ShouldBeTrue)
		})

		Convey("Requesting a smaller bound is rejected", func() {
			err := g.Update(agent.Vec3{1, 1, 1}, agent.Vec3{2, 2, 2})
			So(err, ShouldNotBeNil)
		})
	})
}
