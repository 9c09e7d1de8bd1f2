package wellspace

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/akmonengine/wellspace/constraint"
	"github.com/akmonengine/wellspace/well"
)

var logger = log.New(os.Stderr, "wellspace: ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	logger = l
}

// Report summarizes an iterative enforcement.
type Report struct {
	Converged  bool
	Iterations int
	// Shortest distance between two wells at the end of the run
	ShortestDistance float64
}

// enforcer runs the multi-well loops over a plain slice. Field binds it to
// its arena, broad phase and events.
type enforcer struct {
	settings Settings
	grid     *SpatialGrid
	events   *Events
	ids      []well.ID
}

func (e *enforcer) workers() int {
	return max(DEFAULT_WORKERS, e.settings.Workers)
}

func (e *enforcer) id(i int) well.ID {
	if e.ids == nil {
		return well.ID(i)
	}
	return e.ids[i]
}

func (e *enforcer) emit(event Event) {
	if e.events != nil {
		e.events.emit(event)
	}
}

func (e *enforcer) pairs(wells []well.Well, d float64) []constraint.Pair {
	if e.grid == nil {
		return constraint.AllPairs(len(wells))
	}
	return BroadPhase(e.grid, wells, d/2, e.workers())
}

func (e *enforcer) interwell(wells []well.Well, d, tol float64) (Report, error) {
	if _, err := constraint.NewInterwell(d, tol); err != nil {
		return Report{}, err
	}
	if err := checkFinite(wells); err != nil {
		return Report{}, err
	}

	shortest := ShortestDistance(wells)
	iterations := 0
	for shortest < d-tol && iterations < e.settings.InterwellMaxIterations {
		if e.events != nil {
			clear(e.events.bestEffortPairs)
		}

		err := constraint.Sweep(wells, d, e.pairs(wells, d), func(p constraint.Pair, r constraint.Result) {
			if e.events != nil {
				e.events.recordPair(e.id(p.A), e.id(p.B), r.OK(), r.Distance)
			}
		})
		if err != nil {
			return Report{Iterations: iterations, ShortestDistance: shortest}, err
		}

		iterations++
		shortest = ShortestDistance(wells)
	}

	report := Report{Converged: shortest >= d-tol, Iterations: iterations, ShortestDistance: shortest}
	if !report.Converged {
		logger.Printf("WARNING: interwell distance %g short of %g after %d iterations", shortest, d, iterations)
		e.emit(InterwellNotConvergedEvent{Iterations: iterations, MinDistance: d, ShortestDistance: shortest})
	}
	return report, nil
}

func (e *enforcer) length(wells []well.Well, max, min, eps float64) error {
	if _, err := constraint.NewLength(max, min, eps, 0); err != nil {
		return err
	}
	if err := checkFinite(wells); err != nil {
		return err
	}

	task(e.workers(), wells, func(i int, w well.Well) {
		wells[i].Heel, wells[i].Toe = constraint.ProjectLength(w.Heel, w.Toe, max, min, eps)
	})
	return nil
}

func (e *enforcer) both(wells []well.Well, d, tol, max, min, eps float64) (Report, error) {
	iterations := 0
	for !FeasibleInterwell(wells, d, 3*tol) || !FeasibleLength(wells, max, min, tol) {
		if iterations >= e.settings.BothMaxIterations {
			break
		}

		if err := e.length(wells, max, min, eps); err != nil {
			return Report{Iterations: iterations}, err
		}
		if _, err := e.interwell(wells, d, tol); err != nil {
			return Report{Iterations: iterations}, err
		}
		iterations++
	}

	shortest := ShortestDistance(wells)
	report := Report{
		Converged:        FeasibleInterwell(wells, d, 3*tol) && FeasibleLength(wells, max, min, tol),
		Iterations:       iterations,
		ShortestDistance: shortest,
	}
	if !report.Converged {
		logger.Printf("WARNING: distance and length constraints not met after %d iterations", iterations)
		e.emit(BothNotConvergedEvent{Iterations: iterations})
	}
	return report, nil
}

func (e *enforcer) combined(wells []well.Well, c *constraint.Combined) (Report, error) {
	ok, iterations, err := c.Run(wells)
	report := Report{Converged: ok, Iterations: iterations, ShortestDistance: ShortestDistance(wells)}
	if err != nil {
		return report, err
	}
	if !ok {
		e.emit(CombinedNotConvergedEvent{Iterations: iterations})
	}
	return report, nil
}

// EnforceInterwell sweeps every pair of wells until they are all at least
// d - tol apart or the sweep cap of DefaultSettings is reached.
func EnforceInterwell(wells []well.Well, d, tol float64) (Report, error) {
	e := enforcer{settings: DefaultSettings()}
	return e.interwell(wells, d, tol)
}

// EnforceLength projects every well onto the length bounds.
func EnforceLength(wells []well.Well, max, min, eps float64) error {
	e := enforcer{settings: DefaultSettings()}
	return e.length(wells, max, min, eps)
}

// EnforceBoth alternates length and interwell enforcement until both hold,
// the distance within 3·tol and the lengths within tol.
func EnforceBoth(wells []well.Well, d, tol, max, min, eps float64) (Report, error) {
	e := enforcer{settings: DefaultSettings()}
	return e.both(wells, d, tol, max, min, eps)
}

// ShortestDistance returns the shortest distance between any two wells.
func ShortestDistance(wells []well.Well) float64 {
	return constraint.MinimumDistance(wells)
}

func FeasibleLength(wells []well.Well, max, min, tol float64) bool {
	return constraint.FeasibleLength(wells, max, min, tol)
}

func FeasibleInterwell(wells []well.Well, d, tol float64) bool {
	return constraint.FeasibleInterwell(wells, d, tol)
}

func checkFinite(wells []well.Well) error {
	for i, w := range wells {
		for axis := 0; axis < 3; axis++ {
			for _, v := range [2]float64{w.Heel[axis], w.Toe[axis]} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: well %d", constraint.ErrNonFinite, i)
				}
			}
		}
	}
	return nil
}
