package constraint

import (
	"fmt"
	"math"

	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

// LengthSlack is the slack applied by the Length constraint when it projects.
const LengthSlack = 1e-3

// ProjectLength moves heel and toe symmetrically along their own axis so the
// distance between them falls into [min, max]. The slack eps pushes the result
// slightly inside the violated bound: a too long well ends at max - eps/2, a
// too short one at min + eps/2.
//
// Coincident endpoints have no axis. They are spread along +x to a length of
// min, or eps/2 when min is 0.
func ProjectLength(heel, toe mgl64.Vec3, max, min, eps float64) (mgl64.Vec3, mgl64.Vec3) {
	axis := toe.Sub(heel)
	d := axis.Len()

	if d == 0 {
		half := min / 2
		if half == 0 {
			half = eps / 4
		}
		x := mgl64.Vec3{1, 0, 0}
		return heel.Add(x.Mul(half)), heel.Sub(x.Mul(half))
	}

	if d >= min && d <= max {
		return heel, toe
	}

	u := axis.Mul(1 / d)
	var move float64
	if d > max {
		move = 0.5 * (d - max + eps/2)
	} else {
		// negative: the endpoints move apart
		move = 0.5 * (d - min - eps/2)
	}
	return heel.Add(u.Mul(move)), toe.Sub(u.Mul(move))
}

// Length bounds the heel to toe distance of every well.
type Length struct {
	Max, Min float64
	// Epsilon is the slack passed to ProjectLength.
	Epsilon float64
	// Tolerance widens [Min, Max] when checking feasibility.
	Tolerance float64
}

// NewLength validates the bounds. Max may be +Inf.
func NewLength(max, min, eps, tol float64) (*Length, error) {
	var err error
	switch {
	case math.IsNaN(max) || math.IsNaN(min):
		err = fmt.Errorf("%w: NaN bound", ErrInvalidBounds)
	case min < 0 || math.IsInf(min, 0):
		err = fmt.Errorf("%w: min length %g", ErrInvalidBounds, min)
	case max < min:
		err = fmt.Errorf("%w: max length %g below min length %g", ErrInvalidBounds, max, min)
	case !(eps > 0) || math.IsInf(eps, 0):
		err = fmt.Errorf("%w: slack %g must be positive", ErrInvalidBounds, eps)
	case !(tol >= 0):
		err = fmt.Errorf("%w: %g", ErrInvalidTolerance, tol)
	}
	if err != nil {
		return nil, err
	}
	return &Length{Max: max, Min: min, Epsilon: eps, Tolerance: tol}, nil
}

// FeasibleLength reports whether every well length lies in
// [min - tol, max + tol].
func FeasibleLength(wells []well.Well, max, min, tol float64) bool {
	for _, w := range wells {
		l := w.Length()
		if l < min-tol || l > max+tol {
			return false
		}
	}
	return true
}

func (c *Length) Satisfied(wells []well.Well) bool {
	return FeasibleLength(wells, c.Max, c.Min, c.Tolerance)
}

func (c *Length) Snap(wells []well.Well) error {
	for i, w := range wells {
		if !finite(w.Heel, w.Toe) {
			return fmt.Errorf("%w: well %d", ErrNonFinite, i)
		}
		wells[i].Heel, wells[i].Toe = ProjectLength(w.Heel, w.Toe, c.Max, c.Min, c.Epsilon)
	}
	return nil
}
