// Package wellspace keeps a set of straight wells within the placement
// constraints of a field development plan: a minimum distance between wells,
// bounds on their length and boxes of admissible reservoir cells.
package wellspace

import (
	"fmt"

	"github.com/akmonengine/wellspace/constraint"
	"github.com/akmonengine/wellspace/grid"
	"github.com/akmonengine/wellspace/well"
)

type boundary struct {
	id    well.ID
	cells []grid.Cell
}

type Field struct {
	// Wells owned by the field, referred to by ID
	Wells    well.Arena
	Settings Settings
	// Broad phase of the interwell sweeps, nil checks every pair
	SpatialGrid *SpatialGrid

	Events Events

	boundaries []boundary
}

// NewField validates settings and returns an empty field.
func NewField(settings Settings) (*Field, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	f := &Field{
		Settings: settings,
		Events:   NewEvents(),
	}
	if settings.BroadPhaseCellSize > 0 {
		f.SpatialGrid = NewSpatialGrid(settings.BroadPhaseCellSize, settings.BroadPhaseCells)
	}
	return f, nil
}

// AddWell adds a well to the field
func (f *Field) AddWell(name string, w well.Well) well.ID {
	return f.Wells.Add(name, w)
}

// RemoveWell removes a well from the field, with its boundaries and pending
// pair events
func (f *Field) RemoveWell(id well.ID) error {
	if err := f.Wells.Remove(id); err != nil {
		return err
	}

	n := 0
	for _, b := range f.boundaries {
		if b.id != id {
			f.boundaries[n] = b
			n++
		}
	}
	f.boundaries = f.boundaries[:n]

	f.Events.forget(id)
	return nil
}

// AddBoundary confines both endpoints of well id to the i/j/k box [from, to]
// of g.
func (f *Field) AddBoundary(id well.ID, g grid.Grid, from, to grid.IJK) error {
	if _, err := f.Wells.Get(id); err != nil {
		return err
	}

	c, err := constraint.NewBoundary(int(id), g, from, to)
	if err != nil {
		return err
	}
	f.boundaries = append(f.boundaries, boundary{id: id, cells: c.Cells})
	return nil
}

// Trace lists the cells of g crossed by well id, from heel to toe.
func (f *Field) Trace(id well.ID, g grid.Grid) ([]grid.Crossing, error) {
	w, err := f.Wells.Get(id)
	if err != nil {
		return nil, err
	}
	return grid.Trace(g, w.Heel, w.Toe)
}

func (f *Field) newEnforcer() *enforcer {
	if f.Events.listeners == nil {
		f.Events = NewEvents()
	}
	return &enforcer{
		settings: f.Settings,
		grid:     f.SpatialGrid,
		events:   &f.Events,
		ids:      f.Wells.IDs(),
	}
}

// run applies fn to a copy of the wells, writes them back and flushes the
// events.
func (f *Field) run(fn func(e *enforcer, wells []well.Well) error) error {
	e := f.newEnforcer()
	wells := f.Wells.Wells()

	err := fn(e, wells)
	if err == nil {
		err = f.Wells.Replace(wells)
	}
	f.Events.flush()
	return err
}

// EnforceInterwell sweeps every pair of wells until they are at least d - tol
// apart or Settings.InterwellMaxIterations sweeps have run.
func (f *Field) EnforceInterwell(d, tol float64) (Report, error) {
	var report Report
	err := f.run(func(e *enforcer, wells []well.Well) error {
		var err error
		report, err = e.interwell(wells, d, tol)
		return err
	})
	return report, err
}

// EnforceLength projects every well onto [min, max], over Settings.Workers
// goroutines.
func (f *Field) EnforceLength(max, min, eps float64) error {
	return f.run(func(e *enforcer, wells []well.Well) error {
		return e.length(wells, max, min, eps)
	})
}

// EnforceBoth alternates length and interwell enforcement until both hold or
// Settings.BothMaxIterations rounds have run.
func (f *Field) EnforceBoth(d, tol, max, min, eps float64) (Report, error) {
	var report Report
	err := f.run(func(e *enforcer, wells []well.Well) error {
		var err error
		report, err = e.both(wells, d, tol, max, min, eps)
		return err
	})
	return report, err
}

// EnforceAll applies the distance and length constraints of Settings together
// with every boundary.
func (f *Field) EnforceAll() (Report, error) {
	interwell, err := constraint.NewInterwell(f.Settings.MinDistance, f.Settings.Tolerance)
	if err != nil {
		return Report{}, err
	}
	length, err := constraint.NewLength(f.Settings.MaxLength, f.Settings.MinLength, f.Settings.Epsilon, f.Settings.Tolerance)
	if err != nil {
		return Report{}, err
	}

	var report Report
	err = f.run(func(e *enforcer, wells []well.Well) error {
		positions := make(map[well.ID]int, len(e.ids))
		for i, id := range e.ids {
			positions[id] = i
		}

		c := &constraint.Combined{
			Interwell:     interwell,
			Length:        length,
			MaxIterations: f.Settings.CombinedMaxIterations,
		}
		for _, b := range f.boundaries {
			i, ok := positions[b.id]
			if !ok {
				return fmt.Errorf("wellspace: boundary of removed well %d", b.id)
			}
			c.Boundaries = append(c.Boundaries, &constraint.Boundary{Well: i, Cells: b.cells})
		}

		var err error
		report, err = e.combined(wells, c)
		return err
	})
	return report, err
}
