// Package grid models the read-only reservoir grid the projectors work against.
//
// Cells are convex hexahedra addressed either by a global index or by their
// logical (i, j, k) position. The global index runs fastest along i, then j,
// then k. Point location goes through an R-tree over the horizontal footprint
// of each cell and is confirmed against the exact cell faces.
package grid

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tidwall/rtree"
)

var (
	ErrIndexOutOfRange = errors.New("grid: cell index out of range")
	ErrOutsideGrid     = errors.New("grid: point is outside the grid")
	ErrInvalidBox      = errors.New("grid: invalid index box")
)

// Grid is the cell query capability consumed by the domain projector and
// the boundary constraint.
type Grid interface {
	Dimensions() IJK
	Cell(global int) (Cell, error)
	CellIJK(ijk IJK) (Cell, error)
	CellEnvelopingPoint(point mgl64.Vec3) (Cell, error)
}

// CornerPointGrid is an in-memory grid of explicit cell corners.
type CornerPointGrid struct {
	dims  IJK
	cells []Cell
	index rtree.RTreeG[int]
}

// NewCornerPointGrid builds a grid of dims cells whose corners are produced by
// corners, in the corner order documented on Cell.
func NewCornerPointGrid(dims IJK, corners func(ijk IJK) [8]mgl64.Vec3) (*CornerPointGrid, error) {
	if dims.I <= 0 || dims.J <= 0 || dims.K <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %v", dims)
	}

	g := &CornerPointGrid{
		dims:  dims,
		cells: make([]Cell, 0, dims.I*dims.J*dims.K),
	}

	for k := 0; k < dims.K; k++ {
		for j := 0; j < dims.J; j++ {
			for i := 0; i < dims.I; i++ {
				ijk := IJK{i, j, k}
				global := len(g.cells)
				cell, err := NewCell(global, ijk, corners(ijk))
				if err != nil {
					return nil, err
				}
				g.cells = append(g.cells, cell)

				lo, hi := cell.Bounds()
				g.index.Insert([2]float64{lo.X(), lo.Y()}, [2]float64{hi.X(), hi.Y()}, global)
			}
		}
	}

	return g, nil
}

// NewRegularGrid builds an axis aligned grid of dims boxes of the given size
// starting at origin. Layer k = 0 is the top layer, at the smallest z.
func NewRegularGrid(dims IJK, origin, size mgl64.Vec3) (*CornerPointGrid, error) {
	return NewCornerPointGrid(dims, func(ijk IJK) [8]mgl64.Vec3 {
		x0 := origin.X() + float64(ijk.I)*size.X()
		y0 := origin.Y() + float64(ijk.J)*size.Y()
		z0 := origin.Z() + float64(ijk.K)*size.Z()
		x1, y1, z1 := x0+size.X(), y0+size.Y(), z0+size.Z()

		return [8]mgl64.Vec3{
			{x0, y0, z0}, {x1, y0, z0}, {x0, y1, z0}, {x1, y1, z0},
			{x0, y0, z1}, {x1, y0, z1}, {x0, y1, z1}, {x1, y1, z1},
		}
	})
}

func (g *CornerPointGrid) Dimensions() IJK {
	return g.dims
}

// Len returns the number of cells.
func (g *CornerPointGrid) Len() int {
	return len(g.cells)
}

func (g *CornerPointGrid) Cell(global int) (Cell, error) {
	if global < 0 || global >= len(g.cells) {
		return Cell{}, fmt.Errorf("%w: global index %d, grid has %d cells", ErrIndexOutOfRange, global, len(g.cells))
	}
	return g.cells[global], nil
}

func (g *CornerPointGrid) CellIJK(ijk IJK) (Cell, error) {
	global, err := GlobalIndex(g.dims, ijk)
	if err != nil {
		return Cell{}, err
	}
	return g.cells[global], nil
}

// CellEnvelopingPoint returns the cell containing point. A point on a shared
// face belongs to the cell with the lowest global index.
func (g *CornerPointGrid) CellEnvelopingPoint(point mgl64.Vec3) (Cell, error) {
	found := -1
	xy := [2]float64{point.X(), point.Y()}

	g.index.Search(xy, xy, func(_, _ [2]float64, global int) bool {
		if (found < 0 || global < found) && g.cells[global].EnvelopsPoint(point) {
			found = global
		}
		return true
	})

	if found < 0 {
		return Cell{}, fmt.Errorf("%w: %v", ErrOutsideGrid, point)
	}
	return g.cells[found], nil
}

// GlobalIndex maps ijk to its global index in a grid of dims cells.
func GlobalIndex(dims IJK, ijk IJK) (int, error) {
	if ijk.I < 0 || ijk.I >= dims.I || ijk.J < 0 || ijk.J >= dims.J || ijk.K < 0 || ijk.K >= dims.K {
		return 0, fmt.Errorf("%w: %v in a %v grid", ErrIndexOutOfRange, ijk, dims)
	}
	return ijk.I + dims.I*(ijk.J+dims.J*ijk.K), nil
}

// BoxIndices lists the global indices of every cell in the inclusive box
// [from, to], in ascending order.
func BoxIndices(g Grid, from, to IJK) ([]int, error) {
	if from.I > to.I || from.J > to.J || from.K > to.K {
		return nil, fmt.Errorf("%w: %v > %v", ErrInvalidBox, from, to)
	}

	dims := g.Dimensions()
	if _, err := GlobalIndex(dims, from); err != nil {
		return nil, err
	}
	if _, err := GlobalIndex(dims, to); err != nil {
		return nil, err
	}

	indices := make([]int, 0, (to.I-from.I+1)*(to.J-from.J+1)*(to.K-from.K+1))
	for k := from.K; k <= to.K; k++ {
		for j := from.J; j <= to.J; j++ {
			for i := from.I; i <= to.I; i++ {
				global, _ := GlobalIndex(dims, IJK{i, j, k})
				indices = append(indices, global)
			}
		}
	}
	return indices, nil
}
