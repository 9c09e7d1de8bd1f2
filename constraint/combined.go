package constraint

import (
	"github.com/akmonengine/wellspace/well"
)

// DefaultCombinedIterations bounds Combined when MaxIterations is not set.
const DefaultCombinedIterations = 100

// Combined enforces an interwell constraint, a length constraint and any
// number of boundaries together by alternating their projections.
type Combined struct {
	Interwell  *Interwell
	Length     *Length
	Boundaries []*Boundary
	// MaxIterations bounds the number of rounds.
	MaxIterations int
}

func (c *Combined) constraints() []Constraint {
	var all []Constraint
	if c.Interwell != nil {
		all = append(all, c.Interwell)
	}
	if c.Length != nil {
		all = append(all, c.Length)
	}
	for _, b := range c.Boundaries {
		all = append(all, b)
	}
	return all
}

func (c *Combined) Satisfied(wells []well.Well) bool {
	for _, constraint := range c.constraints() {
		if !constraint.Satisfied(wells) {
			return false
		}
	}
	return true
}

// Snap runs rounds of interwell, length and boundary projections until every
// constraint is satisfied or MaxIterations rounds have run.
func (c *Combined) Snap(wells []well.Well) error {
	_, _, err := c.Run(wells)
	return err
}

// Run is Snap returning whether the constraints ended satisfied and how many
// rounds ran.
func (c *Combined) Run(wells []well.Well) (bool, int, error) {
	maxIterations := c.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultCombinedIterations
	}

	constraints := c.constraints()
	for i := 0; i < maxIterations; i++ {
		if c.Satisfied(wells) {
			return true, i, nil
		}
		for _, constraint := range constraints {
			if err := constraint.Snap(wells); err != nil {
				return false, i, err
			}
		}
	}

	if c.Satisfied(wells) {
		return true, maxIterations, nil
	}
	logger.Printf("WARNING: combined constraints not satisfied after %d iterations", maxIterations)
	return false, maxIterations, nil
}
