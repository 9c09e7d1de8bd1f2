// Package domain projects points onto admissible reservoir cells.
//
// The projection is exact for convex cells with planar faces: a point outside a
// cell is closest either to the interior of a face, found by orthogonal
// projection onto the face plane, or to one of the face edges.
package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/wellspace/grid"
	"github.com/akmonengine/wellspace/segment"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrNoCells = errors.New("domain: no admissible cells")

// ToFace returns the point of face closest to point. The face plane is used
// when the orthogonal projection stays inside cell, the face edges otherwise.
func ToFace(point mgl64.Vec3, face grid.Face, cell grid.Cell) mgl64.Vec3 {
	offset := point.Sub(face.Corners[0]).Dot(face.Normal)
	projected := point.Sub(face.Normal.Mul(offset))
	if cell.EnvelopsPoint(projected) {
		return projected
	}

	best := projected
	bestDist := math.Inf(1)
	for _, edge := range face.Edges() {
		candidate := segment.ClosestToPoint(edge[0], edge[1], point)
		if d := candidate.Sub(point).LenSqr(); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// ToCell returns point when cell contains it, the closest boundary point of
// cell otherwise.
func ToCell(point mgl64.Vec3, cell grid.Cell) mgl64.Vec3 {
	if cell.EnvelopsPoint(point) {
		return point
	}

	best := point
	bestDist := math.Inf(1)
	for _, face := range cell.Faces {
		candidate := ToFace(point, face, cell)
		if d := candidate.Sub(point).LenSqr(); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// InDomain returns the point closest to point over all cells. Ties keep the
// earliest cell. The cost is linear in len(cells): callers pre-filter.
func InDomain(point mgl64.Vec3, cells []grid.Cell) (mgl64.Vec3, error) {
	if len(cells) == 0 {
		return point, ErrNoCells
	}

	best := point
	bestDist := math.Inf(1)
	for _, cell := range cells {
		candidate := ToCell(point, cell)
		d := candidate.Sub(point).LenSqr()
		if d < bestDist {
			best, bestDist = candidate, d
		}
		if d == 0 {
			break
		}
	}
	return best, nil
}

// InDomainIndices resolves the admissible global indices against g and
// projects point onto them.
func InDomainIndices(point mgl64.Vec3, g grid.Grid, indices []int) (mgl64.Vec3, error) {
	cells, err := Cells(g, indices)
	if err != nil {
		return point, err
	}
	return InDomain(point, cells)
}

// Cells looks up every global index in g.
func Cells(g grid.Grid, indices []int) ([]grid.Cell, error) {
	cells := make([]grid.Cell, 0, len(indices))
	for _, idx := range indices {
		cell, err := g.Cell(idx)
		if err != nil {
			return nil, fmt.Errorf("domain: %w", err)
		}
		cells = append(cells, cell)
	}
	return cells, nil
}
