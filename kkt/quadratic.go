package kkt

import (
	"github.com/go-gl/mathgl/mgl64"
)

// BuildA4 returns Σ vᵢvᵢᵗ over the four points centered on their mean.
func BuildA4(points [4]mgl64.Vec3) mgl64.Mat3 {
	v := center(points[:])
	var a mgl64.Mat3
	for _, vi := range v {
		a = a.Add(vi.OuterProd3(vi))
	}
	return a
}

// BuildB4 returns d/2·(v₁ + v₂ - v₃ - v₄) over the centered points. The first two
// points belong to one well and are pushed along +s, the last two along -s.
func BuildB4(points [4]mgl64.Vec3, d float64) mgl64.Vec3 {
	v := center(points[:])
	return v[0].Add(v[1]).Sub(v[2]).Sub(v[3]).Mul(0.5 * d)
}

// BuildA3 returns Σ vᵢvᵢᵗ over the three points centered on their mean.
func BuildA3(points [3]mgl64.Vec3) mgl64.Mat3 {
	v := center(points[:])
	var a mgl64.Mat3
	for _, vi := range v {
		a = a.Add(vi.OuterProd3(vi))
	}
	return a
}

// BuildB3 returns 2d/3·v₁ - d/3·(v₂ + v₃) over the centered points. The first
// point is the lone endpoint of its well, the other two are the opposite well.
func BuildB3(points [3]mgl64.Vec3, d float64) mgl64.Vec3 {
	v := center(points[:])
	return v[0].Mul(2 * d / 3).Sub(v[1].Add(v[2]).Mul(d / 3))
}

// Mean returns the centroid of points.
func Mean(points []mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

func center(points []mgl64.Vec3) []mgl64.Vec3 {
	avg := Mean(points)
	v := make([]mgl64.Vec3, len(points))
	for i, p := range points {
		v[i] = p.Sub(avg)
	}
	return v
}
