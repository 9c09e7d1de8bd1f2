package well

import (
	"errors"
	"fmt"
)

var ErrUnknownID = errors.New("well: unknown id")

// ID is a stable handle to a well stored in an Arena. IDs are never reused.
type ID int

type slot struct {
	name  string
	well  Well
	alive bool
}

// Arena owns the wells of a projection run. Everything outside the arena refers
// to wells by ID.
type Arena struct {
	slots []slot
	count int
}

// Add stores w and returns its ID.
func (a *Arena) Add(name string, w Well) ID {
	a.slots = append(a.slots, slot{name: name, well: w, alive: true})
	a.count++
	return ID(len(a.slots) - 1)
}

// Remove drops the well behind id. Other IDs stay valid.
func (a *Arena) Remove(id ID) error {
	if !a.valid(id) {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	a.slots[id] = slot{}
	a.count--
	return nil
}

func (a *Arena) Get(id ID) (Well, error) {
	if !a.valid(id) {
		return Well{}, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return a.slots[id].well, nil
}

func (a *Arena) Set(id ID, w Well) error {
	if !a.valid(id) {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	a.slots[id].well = w
	return nil
}

// Name returns the name given to the well in Add.
func (a *Arena) Name(id ID) string {
	if !a.valid(id) {
		return ""
	}
	return a.slots[id].name
}

// Len returns the number of live wells.
func (a *Arena) Len() int {
	return a.count
}

// IDs returns the live IDs in ascending order.
func (a *Arena) IDs() []ID {
	ids := make([]ID, 0, a.count)
	for i, s := range a.slots {
		if s.alive {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// Wells returns a copy of the live wells, in the order of IDs.
func (a *Arena) Wells() []Well {
	wells := make([]Well, 0, a.count)
	for _, s := range a.slots {
		if s.alive {
			wells = append(wells, s.well)
		}
	}
	return wells
}

// Replace writes wells back in the order of IDs.
func (a *Arena) Replace(wells []Well) error {
	if len(wells) != a.count {
		return fmt.Errorf("well: replace with %d wells, arena holds %d", len(wells), a.count)
	}

	n := 0
	for i := range a.slots {
		if a.slots[i].alive {
			a.slots[i].well = wells[n]
			n++
		}
	}
	return nil
}

func (a *Arena) valid(id ID) bool {
	return id >= 0 && int(id) < len(a.slots) && a.slots[id].alive
}
