// Package constraint projects well trajectories onto the feasible set of the
// placement constraints: well length bounds, a minimum distance between wells
// and membership of a box of reservoir cells.
//
// The projectors are pure functions of their arguments. The Constraint types
// bind them to a parameter set and apply them in place to a slice of wells.
package constraint

import (
	"errors"
	"log"
	"math"
	"os"

	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidDistance  = errors.New("constraint: minimum distance must be finite and non-negative")
	ErrInvalidBounds    = errors.New("constraint: invalid length bounds")
	ErrInvalidTolerance = errors.New("constraint: tolerance must be non-negative")
	ErrNonFinite        = errors.New("constraint: non-finite coordinate")
	ErrWellIndex        = errors.New("constraint: well index out of range")
)

var logger = log.New(os.Stderr, "constraint: ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	logger = l
}

// Constraint is a feasibility predicate over a set of wells together with the
// projection restoring it.
type Constraint interface {
	Satisfied(wells []well.Well) bool
	// Snap moves wells in place towards feasibility. Failing to reach it is
	// not an error.
	Snap(wells []well.Well) error
}

// MovementCost returns the sum of squared displacements between two
// configurations of the same points.
func MovementCost(before, after []mgl64.Vec3) float64 {
	var cost float64
	for i := range before {
		cost += after[i].Sub(before[i]).LenSqr()
	}
	return cost
}

func finite(points ...mgl64.Vec3) bool {
	for _, p := range points {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
