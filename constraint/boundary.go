package constraint

import (
	"fmt"

	"github.com/akmonengine/wellspace/domain"
	"github.com/akmonengine/wellspace/grid"
	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

// Boundary keeps both endpoints of one well inside a set of admissible cells.
type Boundary struct {
	// Well is the position of the constrained well in the slice.
	Well int
	// Cells are resolved once, when the constraint is built.
	Cells []grid.Cell
}

// NewBoundary admits the cells of the i/j/k box [from, to] of g.
func NewBoundary(wellIndex int, g grid.Grid, from, to grid.IJK) (*Boundary, error) {
	indices, err := grid.BoxIndices(g, from, to)
	if err != nil {
		return nil, fmt.Errorf("constraint: boundary of well %d: %w", wellIndex, err)
	}
	return NewBoundaryIndices(wellIndex, g, indices)
}

// NewBoundaryIndices admits the listed global cell indices of g.
func NewBoundaryIndices(wellIndex int, g grid.Grid, indices []int) (*Boundary, error) {
	cells, err := domain.Cells(g, indices)
	if err != nil {
		return nil, fmt.Errorf("constraint: boundary of well %d: %w", wellIndex, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("constraint: boundary of well %d: %w", wellIndex, domain.ErrNoCells)
	}
	return &Boundary{Well: wellIndex, Cells: cells}, nil
}

func (c *Boundary) enveloped(p mgl64.Vec3) bool {
	for _, cell := range c.Cells {
		if cell.EnvelopsPoint(p) {
			return true
		}
	}
	return false
}

func (c *Boundary) Satisfied(wells []well.Well) bool {
	if c.Well < 0 || c.Well >= len(wells) {
		return false
	}
	w := wells[c.Well]
	return c.enveloped(w.Heel) && c.enveloped(w.Toe)
}

// Snap moves heel and toe to their closest admissible points.
func (c *Boundary) Snap(wells []well.Well) error {
	if c.Well < 0 || c.Well >= len(wells) {
		return fmt.Errorf("constraint: boundary of well %d: %w", c.Well, ErrWellIndex)
	}
	w := wells[c.Well]
	if !finite(w.Heel, w.Toe) {
		return fmt.Errorf("%w: well %d", ErrNonFinite, c.Well)
	}

	heel, err := domain.InDomain(w.Heel, c.Cells)
	if err != nil {
		return err
	}
	toe, err := domain.InDomain(w.Toe, c.Cells)
	if err != nil {
		return err
	}
	wells[c.Well] = well.New(heel, toe)
	return nil
}
