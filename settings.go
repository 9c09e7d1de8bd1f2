package wellspace

import (
	"errors"
	"fmt"
	"math"
)

const DEFAULT_WORKERS = 1

var ErrInvalidSettings = errors.New("wellspace: invalid settings")

const (
	DEFAULT_INTERWELL_ITERATIONS = 10000
	DEFAULT_BOTH_ITERATIONS      = 100
	DEFAULT_COMBINED_ITERATIONS  = 100
)

// Settings groups the parameters of a Field.
type Settings struct {
	// Minimum distance between any two wells
	MinDistance float64
	// Accepted shortfall on the distance and the length bounds
	Tolerance float64
	MaxLength float64
	MinLength float64
	// Slack pushing projected lengths inside their bounds
	Epsilon float64

	InterwellMaxIterations int
	BothMaxIterations      int
	CombinedMaxIterations  int

	Workers int
	// Broad phase cell size, 0 disables culling
	BroadPhaseCellSize float64
	BroadPhaseCells    int
}

func DefaultSettings() Settings {
	return Settings{
		MinDistance:            0,
		Tolerance:              1e-3,
		MaxLength:              math.Inf(1),
		MinLength:              0,
		Epsilon:                1e-3,
		InterwellMaxIterations: DEFAULT_INTERWELL_ITERATIONS,
		BothMaxIterations:      DEFAULT_BOTH_ITERATIONS,
		CombinedMaxIterations:  DEFAULT_COMBINED_ITERATIONS,
		Workers:                DEFAULT_WORKERS,
		BroadPhaseCells:        DEFAULT_GRID_CELLS,
	}
}

// Validate returns the first invalid setting.
func (s Settings) Validate() error {
	var err error
	switch {
	case math.IsNaN(s.MinDistance) || math.IsInf(s.MinDistance, 0) || s.MinDistance < 0:
		err = fmt.Errorf("%w: MinDistance must be finite and non-negative", ErrInvalidSettings)
	case !(s.Tolerance >= 0) || math.IsInf(s.Tolerance, 0):
		err = fmt.Errorf("%w: Tolerance must be finite and non-negative", ErrInvalidSettings)
	case math.IsNaN(s.MinLength) || math.IsInf(s.MinLength, 0) || s.MinLength < 0:
		err = fmt.Errorf("%w: MinLength must be finite and non-negative", ErrInvalidSettings)
	case math.IsNaN(s.MaxLength) || s.MaxLength < s.MinLength:
		err = fmt.Errorf("%w: MaxLength must not be below MinLength", ErrInvalidSettings)
	case !(s.Epsilon > 0) || math.IsInf(s.Epsilon, 0):
		err = fmt.Errorf("%w: Epsilon must be positive", ErrInvalidSettings)
	case s.InterwellMaxIterations <= 0 || s.BothMaxIterations <= 0 || s.CombinedMaxIterations <= 0:
		err = fmt.Errorf("%w: iteration caps must be positive", ErrInvalidSettings)
	case s.Workers < 0:
		err = fmt.Errorf("%w: Workers must not be negative", ErrInvalidSettings)
	case !(s.BroadPhaseCellSize >= 0) || math.IsInf(s.BroadPhaseCellSize, 0):
		err = fmt.Errorf("%w: BroadPhaseCellSize must be finite and non-negative", ErrInvalidSettings)
	case s.BroadPhaseCellSize > 0 && s.BroadPhaseCells <= 0:
		err = fmt.Errorf("%w: BroadPhaseCells must be positive when culling", ErrInvalidSettings)
	}
	return err
}
