// Package poly holds small dense real polynomials and their roots.
//
// Roots are the eigenvalues of the companion matrix, computed with the LAPACK
// backed non-symmetric eigensolver of gonum. Real roots come out of the real
// Schur form with an imaginary part of exactly zero, so the tolerance used to
// classify roots as real only needs to absorb rounding on nearly double roots.
package poly

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ImagTolerance is the default relative bound on the imaginary part of a root
// still classified as real.
const ImagTolerance = 1e-10

var (
	ErrZeroPolynomial = errors.New("poly: zero polynomial has no isolated roots")
	ErrNoConvergence  = errors.New("poly: companion eigen decomposition did not converge")
)

// Poly is a real polynomial stored by ascending power: p[i] multiplies x^i.
type Poly []float64

// Degree returns the index of the highest non-zero coefficient, -1 for the
// zero polynomial.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// Trim drops zero high-order coefficients.
func (p Poly) Trim() Poly {
	return p[:p.Degree()+1]
}

// Eval evaluates p at x with Horner's scheme.
func (p Poly) Eval(x float64) float64 {
	var y float64
	for i := len(p) - 1; i >= 0; i-- {
		y = y*x + p[i]
	}
	return y
}

// Scale returns k·p.
func (p Poly) Scale(k float64) Poly {
	out := make(Poly, len(p))
	for i, c := range p {
		out[i] = k * c
	}
	return out
}

// Add returns a + b.
func Add(a, b Poly) Poly {
	n := max(len(a), len(b))
	out := make(Poly, n)
	for i := range out {
		if i < len(a) {
			out[i] += a[i]
		}
		if i < len(b) {
			out[i] += b[i]
		}
	}
	return out
}

// Sub returns a - b.
func Sub(a, b Poly) Poly {
	return Add(a, b.Scale(-1))
}

// Mul returns the product a·b.
func Mul(a, b Poly) Poly {
	if len(a) == 0 || len(b) == 0 {
		return Poly{}
	}
	out := make(Poly, len(a)+len(b)-1)
	for i, ca := range a {
		for j, cb := range b {
			out[i+j] += ca * cb
		}
	}
	return out
}

// Product multiplies all factors together. The empty product is 1.
func Product(factors ...Poly) Poly {
	out := Poly{1}
	for _, f := range factors {
		out = Mul(out, f)
	}
	return out
}

// Roots returns all complex roots of p, with multiplicity.
//
// Zero constant terms are factored out first so roots at exactly 0 are
// reported as exact zeros. A constant non-zero polynomial has no roots.
func Roots(p Poly) ([]complex128, error) {
	p = p.Trim()
	if len(p) == 0 {
		return nil, ErrZeroPolynomial
	}

	var roots []complex128
	for len(p) > 1 && p[0] == 0 {
		roots = append(roots, 0)
		p = p[1:]
	}

	n := len(p) - 1
	switch n {
	case 0:
		return roots, nil
	case 1:
		return append(roots, complex(-p[0]/p[1], 0)), nil
	}

	// Frobenius companion matrix of the monic polynomial p/p[n].
	lead := p[n]
	companion := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	for i := 0; i < n; i++ {
		companion.Set(i, n-1, -p[i]/lead)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, ErrNoConvergence
	}
	return append(roots, eig.Values(nil)...), nil
}

// RealRoots returns the real roots of p in ascending order, with multiplicity.
// A root is real when |imag| <= tol·(1+|real|).
func RealRoots(p Poly, tol float64) ([]float64, error) {
	roots, err := Roots(p)
	if err != nil {
		return nil, err
	}

	var out []float64
	for _, r := range roots {
		if math.Abs(imag(r)) <= tol*(1+math.Abs(real(r))) {
			out = append(out, real(r))
		}
	}
	slices.Sort(out)
	return out, nil
}

// Quadratic returns the real roots of a·x² + b·x + c in ascending order.
// a == 0 falls back to the linear equation; a double root is reported once.
func Quadratic(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}

	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return nil
	case disc == 0:
		return []float64{-b / (2 * a)}
	}

	// Citardauq form avoids cancellation when b² >> 4ac.
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	x1 := q / a
	x2 := c / q
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	return []float64{x1, x2}
}
