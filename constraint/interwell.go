package constraint

import (
	"fmt"
	"math"

	"github.com/akmonengine/wellspace/well"
)

// Interwell keeps every pair of wells at least Distance apart.
type Interwell struct {
	Distance float64
	// Tolerance is the accepted shortfall when checking feasibility.
	Tolerance float64
}

func NewInterwell(d, tol float64) (*Interwell, error) {
	var err error
	switch {
	case math.IsNaN(d) || math.IsInf(d, 0) || d < 0:
		err = fmt.Errorf("%w: %g", ErrInvalidDistance, d)
	case !(tol >= 0) || math.IsInf(tol, 0):
		err = fmt.Errorf("%w: %g", ErrInvalidTolerance, tol)
	}
	if err != nil {
		return nil, err
	}
	return &Interwell{Distance: d, Tolerance: tol}, nil
}

// Pair identifies two wells by their position in a slice, A < B.
type Pair struct {
	A, B int
}

// AllPairs returns the n(n-1)/2 unordered pairs of n wells in sweep order.
func AllPairs(n int) []Pair {
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: i, B: j})
		}
	}
	return pairs
}

// MinimumDistance returns the shortest distance over all pairs of wells, or
// +Inf for fewer than two wells.
func MinimumDistance(wells []well.Well) float64 {
	shortest := math.Inf(1)
	for i := range wells {
		for j := i + 1; j < len(wells); j++ {
			shortest = math.Min(shortest, wells[i].Distance(wells[j]))
		}
	}
	return shortest
}

// FeasibleInterwell reports whether every pair of wells is at least d - tol
// apart.
func FeasibleInterwell(wells []well.Well, d, tol float64) bool {
	return MinimumDistance(wells) >= d-tol
}

// Sweep projects the listed pairs once, in order, writing each result back
// before the next pair is read. onResult, when not nil, sees every result.
func Sweep(wells []well.Well, d float64, pairs []Pair, onResult func(Pair, Result)) error {
	for _, p := range pairs {
		r, err := ProjectPair(well.Pair(wells[p.A], wells[p.B]), d)
		if err != nil {
			return fmt.Errorf("wells %d and %d: %w", p.A, p.B, err)
		}
		wells[p.A], wells[p.B] = well.Split(r.Points)
		if onResult != nil {
			onResult(p, r)
		}
	}
	return nil
}

func (c *Interwell) Satisfied(wells []well.Well) bool {
	return FeasibleInterwell(wells, c.Distance, c.Tolerance)
}

// Snap runs a single sweep over all pairs.
func (c *Interwell) Snap(wells []well.Well) error {
	return Sweep(wells, c.Distance, AllPairs(len(wells)), nil)
}
