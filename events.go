package wellspace

import (
	"cmp"
	"slices"

	"github.com/akmonengine/wellspace/well"
)

const (
	INTERWELL_NOT_CONVERGED EventType = iota
	BOTH_NOT_CONVERGED
	PAIR_BEST_EFFORT
	COMBINED_NOT_CONVERGED
)

type pairKey struct {
	wellA well.ID
	wellB well.ID
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(a, b well.ID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{wellA: a, wellB: b}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// InterwellNotConvergedEvent reports an interwell enforcement stopped by its
// iteration cap.
type InterwellNotConvergedEvent struct {
	Iterations       int
	MinDistance      float64
	ShortestDistance float64
}

func (e InterwellNotConvergedEvent) Type() EventType { return INTERWELL_NOT_CONVERGED }

type BothNotConvergedEvent struct {
	Iterations int
}

func (e BothNotConvergedEvent) Type() EventType { return BOTH_NOT_CONVERGED }

// PairBestEffortEvent is emitted once per pair of wells whose last projection
// did not reach the minimum distance.
type PairBestEffortEvent struct {
	WellA    well.ID
	WellB    well.ID
	Distance float64
}

func (e PairBestEffortEvent) Type() EventType { return PAIR_BEST_EFFORT }

type CombinedNotConvergedEvent struct {
	Iterations int
}

func (e CombinedNotConvergedEvent) Type() EventType { return COMBINED_NOT_CONVERGED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Last distance of every pair left at best effort
	bestEffortPairs map[pairKey]float64
}

func NewEvents() Events {
	return Events{
		listeners:       make(map[EventType][]EventListener),
		buffer:          make([]Event, 0, 16),
		bestEffortPairs: make(map[pairKey]float64),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// recordPair tracks the outcome of a pair projection. A later success clears
// an earlier best effort.
func (e *Events) recordPair(a, b well.ID, ok bool, distance float64) {
	if e.bestEffortPairs == nil {
		e.bestEffortPairs = make(map[pairKey]float64)
	}

	key := makePairKey(a, b)
	if ok {
		delete(e.bestEffortPairs, key)
		return
	}
	e.bestEffortPairs[key] = distance
}

func (e *Events) forget(id well.ID) {
	for pair := range e.bestEffortPairs {
		if pair.wellA == id || pair.wellB == id {
			delete(e.bestEffortPairs, pair)
		}
	}
}

func (e *Events) processPairEvents() {
	pairs := make([]pairKey, 0, len(e.bestEffortPairs))
	for pair := range e.bestEffortPairs {
		pairs = append(pairs, pair)
	}
	sortPairKeys(pairs)

	for _, pair := range pairs {
		e.buffer = append(e.buffer, PairBestEffortEvent{
			WellA:    pair.wellA,
			WellB:    pair.wellB,
			Distance: e.bestEffortPairs[pair],
		})
	}
	clear(e.bestEffortPairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processPairEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

func sortPairKeys(pairs []pairKey) {
	slices.SortFunc(pairs, func(a, b pairKey) int {
		if c := cmp.Compare(a.wellA, b.wellA); c != 0 {
			return c
		}
		return cmp.Compare(a.wellB, b.wellB)
	})
}
