package grid

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxTraceRetries bounds how many times the step past an exit point grows
	// tenfold before the traversal gives up.
	MaxTraceRetries = 6
	// traceStep is the first step past an exit point, relative to the diagonal
	// of the cell being left.
	traceStep = 1e-3
)

var ErrTraversal = errors.New("grid: trajectory traversal failed")

// Crossing is the part of a straight well path lying in one cell.
type Crossing struct {
	Cell  Cell
	Entry mgl64.Vec3
	Exit  mgl64.Vec3
}

// Trace walks the straight path from start to end and returns every cell it
// crosses, in order. Both points must lie inside the grid. A path that cannot
// find the next cell fails with ErrTraversal rather than skipping ahead.
func Trace(g Grid, start, end mgl64.Vec3) ([]Crossing, error) {
	current, err := g.CellEnvelopingPoint(start)
	if err != nil {
		return nil, fmt.Errorf("trace start: %w", err)
	}
	last, err := g.CellEnvelopingPoint(end)
	if err != nil {
		return nil, fmt.Errorf("trace end: %w", err)
	}

	dims := g.Dimensions()
	maxSteps := dims.I * dims.J * dims.K

	var crossings []Crossing
	entry := start

	for step := 0; ; step++ {
		if current.Global == last.Global {
			return append(crossings, Crossing{Cell: current, Entry: entry, Exit: end}), nil
		}
		if step >= maxSteps {
			return nil, fmt.Errorf("%w: end cell %d not reached after %d cells", ErrTraversal, last.Global, step)
		}

		exit, reachesEnd := exitPoint(current, entry, end)
		if reachesEnd {
			// end sits on the boundary shared with last.
			return append(crossings, Crossing{Cell: current, Entry: entry, Exit: end}), nil
		}
		crossings = append(crossings, Crossing{Cell: current, Entry: entry, Exit: exit})

		next, err := stepOut(g, current, exit, end)
		if err != nil {
			return nil, err
		}
		current = next
		entry = exit
	}
}

// exitPoint returns where the segment entry-end leaves the convex cell, and
// whether the segment ends before leaving it.
func exitPoint(cell Cell, entry, end mgl64.Vec3) (mgl64.Vec3, bool) {
	dir := end.Sub(entry)
	tExit := 1.0

	for _, face := range cell.Faces {
		denom := dir.Dot(face.Normal)
		if denom >= 0 {
			continue
		}
		t := face.Corners[0].Sub(entry).Dot(face.Normal) / denom
		if t < tExit {
			tExit = t
		}
	}

	if tExit >= 1 {
		return end, true
	}
	if tExit < 0 {
		tExit = 0
	}
	return entry.Add(dir.Mul(tExit)), false
}

// stepOut moves past exit towards end until a cell other than from contains
// the point.
func stepOut(g Grid, from Cell, exit, end mgl64.Vec3) (Cell, error) {
	remaining := end.Sub(exit).Len()
	if remaining == 0 {
		return Cell{}, fmt.Errorf("%w: stuck in cell %d at %v", ErrTraversal, from.Global, exit)
	}

	lo, hi := from.Bounds()
	fraction := traceStep * hi.Sub(lo).Len() / remaining

	for retry := 0; retry < MaxTraceRetries; retry++ {
		if fraction > 1 {
			fraction = 1
		}
		p := exit.Mul(1 - fraction).Add(end.Mul(fraction))
		if next, err := g.CellEnvelopingPoint(p); err == nil && next.Global != from.Global {
			return next, nil
		}
		if fraction == 1 {
			break
		}
		fraction *= 10
	}

	return Cell{}, fmt.Errorf("%w: no neighbour of cell %d past %v", ErrTraversal, from.Global, exit)
}
