package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EnvelopTolerance is the slack, relative to the cell diagonal, a point may
	// sit outside a face and still count as enveloped.
	EnvelopTolerance = 1e-9
	// degenerateFaceArea is the squared cross product length under which a face
	// has no usable normal.
	degenerateFaceArea = 1e-24
)

var ErrDegenerateCell = errors.New("grid: degenerate cell")

// IJK addresses a cell by its logical position in the grid.
type IJK struct {
	I, J, K int
}

// Face is a quadrilateral side of a cell. Corners are laid out as a 2x2 patch
// so the boundary runs through edges (0,1), (1,3), (3,2), (2,0).
type Face struct {
	Corners [4]mgl64.Vec3
	// Normal is a unit vector pointing into the cell.
	Normal mgl64.Vec3
}

// Edges returns the four boundary edges of the face.
func (f Face) Edges() [4][2]mgl64.Vec3 {
	c := f.Corners
	return [4][2]mgl64.Vec3{
		{c[0], c[1]},
		{c[1], c[3]},
		{c[3], c[2]},
		{c[2], c[0]},
	}
}

// faceCorners lists the cell corner indices of each face, top, bottom, then the
// j-, j+, i- and i+ sides.
var faceCorners = [6][4]int{
	{0, 1, 2, 3},
	{4, 5, 6, 7},
	{0, 1, 4, 5},
	{2, 3, 6, 7},
	{0, 2, 4, 6},
	{1, 3, 5, 7},
}

// Cell is a read-only convex hexahedron of the grid.
//
// Corners 0..3 form the top layer and 4..7 the bottom layer, each laid out as
//
//	2 - 3
//	|   |
//	0 - 1
//
// with i increasing from 0 to 1 and j increasing from 0 to 2.
type Cell struct {
	Global  int
	IJK     IJK
	Corners [8]mgl64.Vec3
	Faces   [6]Face

	center mgl64.Vec3
	min    mgl64.Vec3
	max    mgl64.Vec3
	slack  float64
}

// NewCell builds the faces of a cell from its corners.
func NewCell(global int, ijk IJK, corners [8]mgl64.Vec3) (Cell, error) {
	cell := Cell{
		Global:  global,
		IJK:     ijk,
		Corners: corners,
		min:     corners[0],
		max:     corners[0],
	}

	for _, c := range corners {
		cell.center = cell.center.Add(c)
		for axis := 0; axis < 3; axis++ {
			cell.min[axis] = math.Min(cell.min[axis], c[axis])
			cell.max[axis] = math.Max(cell.max[axis], c[axis])
		}
	}
	cell.center = cell.center.Mul(1.0 / 8)
	cell.slack = EnvelopTolerance * (1 + cell.max.Sub(cell.min).Len())

	for f, idx := range faceCorners {
		face := Face{Corners: [4]mgl64.Vec3{corners[idx[0]], corners[idx[1]], corners[idx[2]], corners[idx[3]]}}

		// The diagonals of a quad give a normal that stays valid when one edge
		// collapses.
		normal := face.Corners[3].Sub(face.Corners[0]).Cross(face.Corners[2].Sub(face.Corners[1]))
		if normal.LenSqr() < degenerateFaceArea {
			return Cell{}, fmt.Errorf("%w: cell %d face %d has no area", ErrDegenerateCell, global, f)
		}
		normal = normal.Normalize()
		if cell.center.Sub(face.Corners[0]).Dot(normal) < 0 {
			normal = normal.Mul(-1)
		}
		face.Normal = normal
		cell.Faces[f] = face
	}

	return cell, nil
}

// Center returns the mean of the corners.
func (c Cell) Center() mgl64.Vec3 {
	return c.center
}

// Bounds returns the axis aligned box enclosing the corners.
func (c Cell) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return c.min, c.max
}

// EnvelopsPoint reports whether point lies inside the cell or on its boundary.
func (c Cell) EnvelopsPoint(point mgl64.Vec3) bool {
	for _, face := range c.Faces {
		if point.Sub(face.Corners[0]).Dot(face.Normal) < -c.slack {
			return false
		}
	}
	return true
}
