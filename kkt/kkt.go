// Package kkt finds the stationary directions of the minimal movement problem
// behind the interwell projection.
//
// Moving a group of endpoints onto two parallel planes with unit normal s costs
//
//	sᵗAs - 2bᵗs + const
//
// for the quadratic form (A, b) built from the centered endpoints. Stationary
// points on the unit sphere satisfy the KKT system
//
//	(A - μI)s = b,  ‖s‖ = 1
//
// With A = QDQᵗ and β = Qᵗb, every μ that is not an eigenvalue of A gives
// sᵢ = βᵢ/(Dᵢ - μ) in the eigenbasis, and ‖s‖ = 1 turns into the sextic
//
//	Π(Dᵢ - μ)² - Σ βᵢ² Π_{j≠i}(Dⱼ - μ)² = 0
//
// When μ is an eigenvalue the system is singular. It is solved in the least
// squares sense and the remaining freedom along the null space is fixed by the
// unit norm, which leaves a scalar quadratic.
package kkt

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/akmonengine/wellspace/poly"
	"github.com/akmonengine/wellspace/snap"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const (
	// MaxDirections bounds the number of candidates returned by a solve:
	// six sextic roots plus the two roots of one degenerate quadratic.
	MaxDirections = 8
	// UnitTolerance is the accepted deviation of ‖s‖ from 1 before
	// the caller renormalizes.
	UnitTolerance = 1e-6
)

var ErrEigenDecomposition = errors.New("kkt: symmetric eigen decomposition failed")

var logger = log.New(os.Stderr, "kkt: ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	logger = l
}

// Candidate is one solution of the KKT system.
type Candidate struct {
	Direction mgl64.Vec3
	Mu        float64
	// Degenerate is set when Mu is an eigenvalue of A.
	Degenerate bool
}

// Solver holds the numerical thresholds of a solve.
type Solver struct {
	// SnapThreshold clamps entries of A, its eigenvalues and the sextic
	// coefficients to zero.
	SnapThreshold float64
	// ImagTolerance classifies sextic roots as real.
	ImagTolerance float64
	// EigenvalueTolerance is the distance, relative to the problem scale,
	// under which a sextic root is taken to be an eigenvalue of A.
	EigenvalueTolerance float64
	// RankTolerance is the relative singular value cutoff of A - μI.
	RankTolerance float64
	// ConsistencyTolerance is the relative residual under which a singular
	// system (A - μI)s = b is considered solvable.
	ConsistencyTolerance float64
}

var DefaultSolver = Solver{
	SnapThreshold:        snap.Threshold,
	ImagTolerance:        poly.ImagTolerance,
	EigenvalueTolerance:  1e-6,
	RankTolerance:        1e-9,
	ConsistencyTolerance: 1e-9,
}

// Directions returns the candidate unit directions for (A, b) using DefaultSolver.
func Directions(a mgl64.Mat3, b mgl64.Vec3) ([]mgl64.Vec3, error) {
	candidates, err := DefaultSolver.Solve(a, b)
	if err != nil {
		return nil, err
	}

	directions := make([]mgl64.Vec3, len(candidates))
	for i, c := range candidates {
		directions[i] = c.Direction
	}
	return directions, nil
}

// CheckUnit reports whether s has unit norm within UnitTolerance.
func CheckUnit(s mgl64.Vec3) bool {
	return math.Abs(s.Len()-1) <= UnitTolerance
}

// Solve returns every solution of (A - μI)s = b with ‖s‖ = 1 it can isolate,
// generic roots first. An empty result is not an error.
func (s Solver) Solve(a mgl64.Mat3, b mgl64.Vec3) ([]Candidate, error) {
	a = snap.Mat3(a, s.SnapThreshold)

	var eig mat.EigenSym
	if ok := eig.Factorize(toSym(a), true); !ok {
		return nil, ErrEigenDecomposition
	}
	values := snap.Slice(eig.Values(nil), s.SnapThreshold)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	q := toMat3(&vectors)
	eigenvalues := mgl64.Vec3{values[0], values[1], values[2]}
	beta := q.Transpose().Mul3x1(b)

	coeffs := snap.Slice(Sextic(eigenvalues, beta), s.SnapThreshold)
	roots, err := poly.RealRoots(coeffs, s.ImagTolerance)
	if err != nil {
		return nil, fmt.Errorf("kkt: sextic roots: %w", err)
	}

	scale := math.Max(math.Abs(eigenvalues[0]), math.Abs(eigenvalues[2])) + beta.Len()
	var candidates []Candidate

	for _, mu := range roots {
		if s.isEigenvalue(mu, eigenvalues, scale) {
			continue
		}

		var w mgl64.Vec3
		for i := 0; i < 3; i++ {
			w[i] = beta[i] / (eigenvalues[i] - mu)
		}
		candidates = append(candidates, Candidate{Direction: q.Mul3x1(w), Mu: mu})
	}

	for i, lambda := range eigenvalues {
		if i > 0 && lambda == eigenvalues[i-1] {
			continue
		}
		candidates = append(candidates, s.singular(a, b, lambda)...)
	}

	if len(candidates) > MaxDirections {
		candidates = candidates[:MaxDirections]
	}
	return candidates, nil
}

// Sextic returns the coefficients, by ascending power of μ, of
// Π(Dᵢ - μ)² - Σ βᵢ² Π_{j≠i}(Dⱼ - μ)². Its leading coefficient is 1.
func Sextic(eigenvalues, beta mgl64.Vec3) poly.Poly {
	var squares [3]poly.Poly
	for i, d := range eigenvalues {
		// (d - μ)² = d² - 2dμ + μ²
		squares[i] = poly.Poly{d * d, -2 * d, 1}
	}

	p := poly.Product(squares[0], squares[1], squares[2])
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		term := poly.Mul(squares[j], squares[k]).Scale(beta[i] * beta[i])
		p = poly.Sub(p, term)
	}
	return p
}

func (s Solver) isEigenvalue(mu float64, eigenvalues mgl64.Vec3, scale float64) bool {
	for _, lambda := range eigenvalues {
		if mu == lambda || math.Abs(mu-lambda) <= s.EigenvalueTolerance*scale {
			return true
		}
	}
	return false
}

// singular solves (A - λI)s = b, ‖s‖ = 1 for an eigenvalue λ of A.
func (s Solver) singular(a mgl64.Mat3, b mgl64.Vec3, lambda float64) []Candidate {
	m := a.Sub(mgl64.Ident3().Mul(lambda))

	var svd mat.SVD
	if ok := svd.Factorize(toDense(m), mat.SVDFull); !ok {
		logger.Printf("WARNING: SVD of A - %gI did not converge", lambda)
		return nil
	}

	singular := svd.Values(nil)
	rank := svd.Rank(s.RankTolerance)
	if rank == 3 {
		return nil
	}
	if rank < 2 {
		logger.Printf("null space of A - %gI has %d dimensions, using one", lambda, 3-rank)
	}

	// Minimum norm least squares solution, orthogonal to the null space.
	var x mgl64.Vec3
	if rank > 0 {
		var xv mat.VecDense
		svd.SolveVecTo(&xv, mat.NewVecDense(3, []float64{b[0], b[1], b[2]}), rank)
		x = mgl64.Vec3{xv.AtVec(0), xv.AtVec(1), xv.AtVec(2)}
	}

	residual := m.Mul3x1(x).Sub(b).Len()
	if residual > s.ConsistencyTolerance*(b.Len()+singular[0]*x.Len()) {
		return nil
	}

	var v mat.Dense
	svd.VTo(&v)
	n := mgl64.Vec3{v.At(0, 2), v.At(1, 2), v.At(2, 2)}

	// ‖x + tn‖² = 1
	ts := poly.Quadratic(n.Dot(n), 2*x.Dot(n), x.Dot(x)-1)
	candidates := make([]Candidate, 0, len(ts))
	for _, t := range ts {
		candidates = append(candidates, Candidate{
			Direction:  x.Add(n.Mul(t)),
			Mu:         lambda,
			Degenerate: true,
		})
	}
	return candidates
}

func toSym(m mgl64.Mat3) *mat.SymDense {
	data := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data[i*3+j] = m.At(i, j)
		}
	}
	return mat.NewSymDense(3, data)
}

func toDense(m mgl64.Mat3) *mat.Dense {
	data := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data[i*3+j] = m.At(i, j)
		}
	}
	return mat.NewDense(3, 3, data)
}

func toMat3(d *mat.Dense) mgl64.Mat3 {
	var m mgl64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, d.At(i, j))
		}
	}
	return m
}
