// Package snap clamps floating point noise to exact zero.
//
// Eigenvalues, rotated vectors and polynomial coefficients computed from nearly
// degenerate quadratic forms carry residues around 1e-15 that would otherwise
// turn a double root into a pair of complex roots. Every such clamp in the
// module goes through this package so the threshold stays in one place.
package snap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Threshold is the default magnitude below which values are clamped to 0.
const Threshold = 1e-11

// Value returns 0 when |x| < threshold, x otherwise.
func Value(x, threshold float64) float64 {
	if math.Abs(x) < threshold {
		return 0
	}
	return x
}

// Vec3 clamps each component of v.
func Vec3(v mgl64.Vec3, threshold float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Value(v[0], threshold),
		Value(v[1], threshold),
		Value(v[2], threshold),
	}
}

// Mat3 clamps each entry of m.
func Mat3(m mgl64.Mat3, threshold float64) mgl64.Mat3 {
	for i := range m {
		m[i] = Value(m[i], threshold)
	}
	return m
}

// Slice clamps xs in place and returns it.
func Slice(xs []float64, threshold float64) []float64 {
	for i := range xs {
		xs[i] = Value(xs[i], threshold)
	}
	return xs
}
