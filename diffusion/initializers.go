package diffusion

import "math"

// PointSource returns an initializer functor depositing value at every
// point within radius of center, zero elsewhere (spec.md section 4.3,
// "user initializer functor").
func PointSource(center [3]float64, radius, value float64) func(x, y, z float64) float64 {
	r2 := radius * radius
	return func(x, y, z float64) float64 {
		dx, dy, dz := x-center[0], y-center[1], z-center[2]
		if dx*dx+dy*dy+dz*dz <= r2 {
			return value
		}
		return 0
	}
}

// GaussianBand returns an initializer functor producing a Gaussian
// profile along one axis (0=x, 1=y, 2=z), centered at mean with the
// given standard deviation and peak amplitude.
func GaussianBand(axis int, mean, stddev, amplitude float64) func(x, y, z float64) float64 {
	return func(x, y, z float64) float64 {
		var v float64
		switch axis {
		case 0:
			v = x
		case 1:
			v = y
		default:
			v = z
		}
		d := v - mean
		return amplitude * math.Exp(-(d*d)/(2*stddev*stddev))
	}
}

// Uniform returns an initializer functor depositing a constant value
// everywhere.
func Uniform(value float64) func(x, y, z float64) float64 {
	return func(x, y, z float64) float64 { return value }
}
