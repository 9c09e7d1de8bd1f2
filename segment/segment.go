// Package segment computes exact closest points between line segments in 3D.
//
// The squared distance between P(s) = P0 + s(P1-P0) and Q(t) = Q0 + t(Q1-Q0) is a
// convex quadratic R(s,t) over the unit square. The minimizer is found by sign
// analysis of the gradient of R, which splits the (s,t) plane into nine regions:
// the interior of the square and its four edges and four corners. No iteration
// is involved, the answer is exact up to floating point rounding.
//
// References:
//   - Eberly: "Distance Between Two Line Segments", Geometric Tools (2016)
package segment

import (
	"github.com/go-gl/mathgl/mgl64"
)

// parallelTolerance is the relative determinant below which the segments are
// treated as parallel.
const parallelTolerance = 1e-12

// ClosestPoints returns the point on segment P0P1 and the point on segment Q0Q1
// that minimize the Euclidean distance between the two segments.
//
// Either segment may be degenerate (P0 == P1 or Q0 == Q1); the point then acts as
// a zero-length segment and the parallel branch handles it without division by zero.
func ClosestPoints(p0, p1, q0, q1 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	s, t := parameters(p0, p1, q0, q1)

	closestP := p0.Add(p1.Sub(p0).Mul(s))
	closestQ := q0.Add(q1.Sub(q0).Mul(t))
	return closestP, closestQ
}

// Distance returns the shortest distance between segments P0P1 and Q0Q1.
func Distance(p0, p1, q0, q1 mgl64.Vec3) float64 {
	p, q := ClosestPoints(p0, p1, q0, q1)
	return q.Sub(p).Len()
}

// ClosestToPoint returns the point on segment AB closest to point.
// The query point is handled as a zero-length segment.
func ClosestToPoint(a, b, point mgl64.Vec3) mgl64.Vec3 {
	_, q := ClosestPoints(point, point, a, b)
	return q
}

// parameters solves the region analysis and returns (s, t) in [0,1]².
//
// With u = P1-P0, v = Q1-Q0, w = P0-Q0:
//
//	R(s,t) = a s² - 2b st + c t² + 2d s - 2e t + f
//	a = u·u, b = u·v, c = v·v, d = u·w, e = v·w
//
// Regions (numbering of the reference implementation):
//
//	  t
//	  ^
//	4 | 3 | 2
//	--+---+--
//	5 | 0 | 1
//	--+---+--> s
//	6 | 7 | 8
func parameters(p0, p1, q0, q1 mgl64.Vec3) (float64, float64) {
	u := p1.Sub(p0)
	v := q1.Sub(q0)
	w := p0.Sub(q0)

	a := u.Dot(u)
	b := u.Dot(v)
	c := v.Dot(v)
	d := u.Dot(w)
	e := v.Dot(w)
	det := a*c - b*b

	var s, t float64

	// Relative to a*c so that round-off on parallel inputs takes the parallel branch.
	if det > parallelTolerance*a*c {
		bte := b * e
		ctd := c * d

		if bte <= ctd { // s <= 0
			s = 0
			if e <= 0 { // t <= 0, region 6
				t = 0
				s = clampRatio(-d, a)
			} else if e < c { // 0 < t < 1, region 5
				t = e / c
			} else { // t >= 1, region 4
				t = 1
				s = clampRatio(b-d, a)
			}
			return s, t
		}

		s = bte - ctd
		if s >= det { // s >= 1
			s = 1
			bpe := b + e
			if bpe <= 0 { // t <= 0, region 8
				t = 0
				s = clampRatio(-d, a)
			} else if bpe < c { // 0 < t < 1, region 1
				t = bpe / c
			} else { // t >= 1, region 2
				t = 1
				s = clampRatio(b-d, a)
			}
			return s, t
		}

		// 0 < s < 1
		ate := a * e
		btd := b * d
		if ate <= btd { // t <= 0, region 7
			t = 0
			s = clampRatio(-d, a)
			return s, t
		}

		t = ate - btd
		if t >= det { // t >= 1, region 3
			t = 1
			s = clampRatio(b-d, a)
			return s, t
		}

		// region 0, interior minimum
		return s / det, t / det
	}

	// Parallel (or degenerate) segments. R is constant along the lines
	// s - (b/a)t = k and the minimum lies on a*s - b*t + d = 0. Find an edge of
	// the square crossed by that line, testing the t-axis (s = 0) first.
	if e <= 0 { // t <= 0
		t = 0
		s = clampRatio(-d, a)
	} else if e >= c { // t >= 1
		t = 1
		s = clampRatio(b-d, a)
	} else { // 0 < t < 1, (0, e/c) is on the minimum line
		s = 0
		t = e / c
	}
	return s, t
}

// clampRatio returns num/den clamped to [0,1]. A non-positive numerator maps to
// 0 before the division so den == 0 (degenerate segment) never divides.
func clampRatio(num, den float64) float64 {
	if num <= 0 {
		return 0
	}
	if num >= den {
		return 1
	}
	return num / den
}
