package constraint

import (
	"fmt"
	"math"

	"github.com/akmonengine/wellspace/kkt"
	"github.com/akmonengine/wellspace/segment"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// PairSlack is the slack of the two point moves.
	PairSlack = 1e-4
	// RelaxedBand is how far below the minimum distance a three or four
	// point move may end and still be accepted.
	RelaxedBand = 1e-3
	// NearMissTolerance bounds the shortfall of a rejected candidate that is
	// still returned as a best effort.
	NearMissTolerance = 1e-2
)

type Status uint8

const (
	// Feasible means the input already satisfied the distance.
	Feasible Status = iota
	// Projected means some endpoints moved and the distance now holds.
	Projected
	// BestEffort means no candidate reached the distance.
	BestEffort
)

func (s Status) String() string {
	switch s {
	case Feasible:
		return "feasible"
	case Projected:
		return "projected"
	case BestEffort:
		return "best effort"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Result is the outcome of a pair projection. Points are ordered as in
// well.Pair.
type Result struct {
	Points [4]mgl64.Vec3
	Status Status
	// Subset lists the indices of the moved points.
	Subset []int
	// Cost is the sum of squared displacements.
	Cost float64
	// Distance is the segment distance of Points.
	Distance float64
}

// OK reports whether the result satisfies the distance.
func (r Result) OK() bool {
	return r.Status != BestEffort
}

var (
	twoPointSubsets = [4][2]int{{0, 2}, {0, 3}, {1, 2}, {1, 3}}
	// The lone endpoint comes first, the opposite well follows.
	threePointSubsets = [4][3]int{{2, 0, 1}, {3, 0, 1}, {0, 2, 3}, {1, 2, 3}}
)

// ShortestDistance returns the distance between the segments points[0]points[1]
// and points[2]points[3].
func ShortestDistance(points [4]mgl64.Vec3) float64 {
	return segment.Distance(points[0], points[1], points[2], points[3])
}

// ProjectPair moves the fewest endpoints of two wells, at the least cost, so
// the wells end up at least d apart.
//
// Two point moves push one endpoint of each well apart along the line joining
// them. Three point moves send a lone endpoint and the opposite well onto two
// parallel planes 2d/3 and d/3 away from their centroid. Four point moves
// send both wells onto planes d/2 away from the centroid. The plane normals
// come from kkt.Directions. Smaller moves are always preferred.
//
// Failing to separate the wells is not an error: the result then carries the
// BestEffort status.
func ProjectPair(points [4]mgl64.Vec3, d float64) (Result, error) {
	var err error
	switch {
	case math.IsNaN(d) || math.IsInf(d, 0) || d < 0:
		err = fmt.Errorf("%w: %g", ErrInvalidDistance, d)
	case !finite(points[:]...):
		err = fmt.Errorf("%w: %v", ErrNonFinite, points)
	}
	if err != nil {
		return Result{}, err
	}

	current := ShortestDistance(points)
	if current >= d {
		return Result{Points: points, Status: Feasible, Distance: current}, nil
	}

	search := pairSearch{input: points, d: d, nearMiss: Result{Distance: math.Inf(-1)}}

	if r, ok := search.twoPoint(); ok {
		return r, nil
	}
	if r, ok := search.threePoint(); ok {
		return r, nil
	}
	if r, ok := search.fourPoint(); ok {
		return r, nil
	}

	if search.nearMiss.Distance >= d-NearMissTolerance {
		logger.Printf("WARNING: pair projection reached %g of %g, returning closest candidate", search.nearMiss.Distance, d)
		r := search.nearMiss
		r.Status = BestEffort
		return r, nil
	}

	logger.Printf("WARNING: pair projection failed at distance %g of %g, points unchanged", current, d)
	return Result{Points: points, Status: BestEffort, Distance: current}, nil
}

// accepted applies the strict band to two point moves and the relaxed band to
// the larger ones.
func accepted(size int, distance, d float64) bool {
	if size == 2 {
		return distance >= d
	}
	return distance >= d-RelaxedBand
}

type pairSearch struct {
	input    [4]mgl64.Vec3
	d        float64
	nearMiss Result
}

// consider scores a candidate and keeps it when it is accepted and cheaper
// than best.
func (s *pairSearch) consider(moved [4]mgl64.Vec3, subset []int, best *Result, found *bool) {
	if !finite(moved[:]...) {
		return
	}

	r := Result{
		Points:   moved,
		Status:   Projected,
		Subset:   subset,
		Cost:     MovementCost(s.input[:], moved[:]),
		Distance: ShortestDistance(moved),
	}

	if !accepted(len(subset), r.Distance, s.d) {
		if r.Distance > s.nearMiss.Distance {
			s.nearMiss = r
		}
		return
	}
	if !*found || r.Cost < best.Cost {
		*best = r
		*found = true
	}
}

func (s *pairSearch) twoPoint() (Result, bool) {
	var best Result
	var found bool

	for _, sub := range twoPointSubsets {
		i, j := sub[0], sub[1]
		moved := s.input
		moved[i], moved[j] = ProjectLength(s.input[i], s.input[j], math.Inf(1), s.d, PairSlack)
		s.consider(moved, []int{i, j}, &best, &found)
	}
	return best, found
}

func (s *pairSearch) threePoint() (Result, bool) {
	var best Result
	var found bool

	for _, sub := range threePointSubsets {
		group := [3]mgl64.Vec3{s.input[sub[0]], s.input[sub[1]], s.input[sub[2]]}
		directions, err := kkt.Directions(kkt.BuildA3(group), kkt.BuildB3(group, s.d))
		if err != nil {
			logger.Printf("WARNING: three point directions for %v: %v", sub, err)
			continue
		}

		avg := kkt.Mean(group[:])
		for _, dir := range directions {
			n, ok := unit(dir)
			if !ok {
				continue
			}

			moved := s.input
			moved[sub[0]] = toPlane(group[0], avg.Add(n.Mul(2*s.d/3)), n)
			moved[sub[1]] = toPlane(group[1], avg.Sub(n.Mul(s.d/3)), n)
			moved[sub[2]] = toPlane(group[2], avg.Sub(n.Mul(s.d/3)), n)
			s.consider(moved, []int{sub[0], sub[1], sub[2]}, &best, &found)
		}
	}
	return best, found
}

func (s *pairSearch) fourPoint() (Result, bool) {
	var best Result
	var found bool

	directions, err := kkt.Directions(kkt.BuildA4(s.input), kkt.BuildB4(s.input, s.d))
	if err != nil {
		logger.Printf("WARNING: four point directions: %v", err)
		return best, false
	}

	avg := kkt.Mean(s.input[:])
	for _, dir := range directions {
		n, ok := unit(dir)
		if !ok {
			continue
		}

		var moved [4]mgl64.Vec3
		for i, p := range s.input {
			offset := s.d / 2
			if i >= 2 {
				offset = -offset
			}
			moved[i] = toPlane(p, avg.Add(n.Mul(offset)), n)
		}
		s.consider(moved, []int{0, 1, 2, 3}, &best, &found)
	}
	return best, found
}

// unit normalizes a solver direction. The norm check is advisory.
func unit(dir mgl64.Vec3) (mgl64.Vec3, bool) {
	l := dir.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	if !kkt.CheckUnit(dir) {
		logger.Printf("WARNING: direction %v has norm %g, renormalizing", dir, l)
	}
	return dir.Mul(1 / l), true
}

// toPlane projects p onto the plane through q with unit normal n.
func toPlane(p, q, n mgl64.Vec3) mgl64.Vec3 {
	return p.Sub(n.Mul(p.Sub(q).Dot(n)))
}
