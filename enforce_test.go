package wellspace

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/wellspace/constraint"
	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

func TestEnforceInterwell(t *testing.T) {
	t.Run("two wells", func(t *testing.T) {
		wells := fiveWells()[:2]
		report, err := EnforceInterwell(wells, 4, 1e-3)
		if err != nil {
			t.Fatalf("EnforceInterwell failed: %v", err)
		}
		if !report.Converged || report.Iterations == 0 {
			t.Errorf("Expected convergence after at least one sweep, got %+v", report)
		}
		if d := ShortestDistance(wells); d < 4-1e-3 {
			t.Errorf("Expected distance >= %v, got %v", 4-1e-3, d)
		}
	})

	t.Run("feasible wells are not swept", func(t *testing.T) {
		wells := []well.Well{
			well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}),
			well.New(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{1, 10, 0}),
		}
		report, err := EnforceInterwell(wells, 4, 0)
		if err != nil {
			t.Fatalf("EnforceInterwell failed: %v", err)
		}
		if !report.Converged || report.Iterations != 0 {
			t.Errorf("Expected immediate convergence, got %+v", report)
		}
	})

	t.Run("non-finite wells", func(t *testing.T) {
		wells := []well.Well{
			well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}),
			well.New(mgl64.Vec3{math.NaN(), 0, 0}, mgl64.Vec3{1, 1, 0}),
		}
		if _, err := EnforceInterwell(wells, 4, 0); !errors.Is(err, constraint.ErrNonFinite) {
			t.Errorf("Expected ErrNonFinite, got %v", err)
		}
	})
}

func TestEnforceLength(t *testing.T) {
	wells := fiveWells()
	if err := EnforceLength(wells, 10, 5, 1e-3); err != nil {
		t.Fatalf("EnforceLength failed: %v", err)
	}
	if !FeasibleLength(wells, 10, 5, 1e-3) {
		t.Errorf("Expected every length in [5, 10], got %v", wells)
	}

	for i, w := range fiveWells() {
		if mid := wells[i].Midpoint(); !mid.ApproxEqualThreshold(w.Midpoint(), 1e-9) {
			t.Errorf("Well %d midpoint moved from %v to %v", i, w.Midpoint(), mid)
		}
	}

	t.Run("invalid bounds", func(t *testing.T) {
		if err := EnforceLength(wells, 5, 10, 1e-3); !errors.Is(err, constraint.ErrInvalidBounds) {
			t.Errorf("Expected ErrInvalidBounds, got %v", err)
		}
	})

	t.Run("non-finite wells", func(t *testing.T) {
		bad := []well.Well{well.New(mgl64.Vec3{0, math.Inf(1), 0}, mgl64.Vec3{})}
		if err := EnforceLength(bad, 10, 5, 1e-3); !errors.Is(err, constraint.ErrNonFinite) {
			t.Errorf("Expected ErrNonFinite, got %v", err)
		}
	})
}

func TestEnforceBoth(t *testing.T) {
	wells := fiveWells()
	report, err := EnforceBoth(wells, 4, 1e-3, 10, 5, 1e-7)
	if err != nil {
		t.Fatalf("EnforceBoth failed: %v", err)
	}
	if report.Iterations > DEFAULT_BOTH_ITERATIONS {
		t.Errorf("Expected at most %d iterations, got %d", DEFAULT_BOTH_ITERATIONS, report.Iterations)
	}
	if report.Converged != (FeasibleInterwell(wells, 4, 3e-3) && FeasibleLength(wells, 10, 5, 1e-3)) {
		t.Errorf("Report %+v disagrees with the feasibility predicates", report)
	}
}

func TestShortestDistance(t *testing.T) {
	if d := ShortestDistance(nil); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf without wells, got %v", d)
	}
	wells := fiveWells()
	// first and fourth wells
	if d := ShortestDistance(wells); math.Abs(d-math.Sqrt(0.1)) > 1e-9 {
		t.Errorf("Expected %v, got %v", math.Sqrt(0.1), d)
	}
}
