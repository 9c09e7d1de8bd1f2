package constraint

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

func fiveWells() []well.Well {
	return []well.Well{
		well.New(mgl64.Vec3{-4, 1, 1}, mgl64.Vec3{-1, 0, 0}),
		well.New(mgl64.Vec3{0, 1, 3}, mgl64.Vec3{0, -1, 0}),
		well.New(mgl64.Vec3{-3, 1, 0}, mgl64.Vec3{-2, -1, -1}),
		well.New(mgl64.Vec3{-2, -2, 0}, mgl64.Vec3{-2, 2, 0}),
		well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0, 0}),
	}
}

func TestAllPairs(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{5, 10},
	}

	for _, tt := range tests {
		pairs := AllPairs(tt.n)
		if len(pairs) != tt.expected {
			t.Errorf("AllPairs(%d) returned %d pairs, expected %d", tt.n, len(pairs), tt.expected)
		}
		for _, p := range pairs {
			if p.A >= p.B {
				t.Errorf("Expected A < B, got %v", p)
			}
		}
	}

	if pairs := AllPairs(3); pairs[0] != (Pair{0, 1}) || pairs[1] != (Pair{0, 2}) || pairs[2] != (Pair{1, 2}) {
		t.Errorf("Unexpected sweep order %v", pairs)
	}
}

func TestMinimumDistance(t *testing.T) {
	if d := MinimumDistance(nil); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for no wells, got %v", d)
	}

	wells := []well.Well{
		well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0}),
		well.New(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{10, 3, 0}),
		well.New(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{10, 10, 0}),
	}
	if d := MinimumDistance(wells); math.Abs(d-3) > tolerance {
		t.Errorf("Expected 3, got %v", d)
	}
	if !FeasibleInterwell(wells, 3, 0) || FeasibleInterwell(wells, 3.1, 0.05) {
		t.Error("Unexpected feasibility verdict")
	}
}

func TestInterwellConstraint(t *testing.T) {
	c, err := NewInterwell(4, 1e-3)
	if err != nil {
		t.Fatalf("NewInterwell failed: %v", err)
	}

	wells := fiveWells()
	if c.Satisfied(wells) {
		t.Fatal("Expected the five wells to start too close")
	}

	for i := 0; i < 10000 && !c.Satisfied(wells); i++ {
		if err := c.Snap(wells); err != nil {
			t.Fatalf("Snap failed: %v", err)
		}
	}
	if d := MinimumDistance(wells); d < 4-1e-3 {
		t.Errorf("Expected every pair at least %v apart, got %v", 4-1e-3, d)
	}

	t.Run("invalid parameters", func(t *testing.T) {
		if _, err := NewInterwell(-1, 0); !errors.Is(err, ErrInvalidDistance) {
			t.Errorf("Expected ErrInvalidDistance, got %v", err)
		}
		if _, err := NewInterwell(1, math.NaN()); !errors.Is(err, ErrInvalidTolerance) {
			t.Errorf("Expected ErrInvalidTolerance, got %v", err)
		}
	})
}

func TestSweep(t *testing.T) {
	wells := []well.Well{
		well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}),
		well.New(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{3, 0, 0}),
		well.New(mgl64.Vec3{0, 50, 0}, mgl64.Vec3{1, 50, 0}),
	}

	var seen []Pair
	err := Sweep(wells, 1, AllPairs(len(wells)), func(p Pair, r Result) {
		seen = append(seen, p)
		if p == (Pair{0, 1}) && r.Status != Projected {
			t.Errorf("Expected the first pair to be projected, got %v", r.Status)
		}
		if p != (Pair{0, 1}) && r.Status != Feasible {
			t.Errorf("Expected pair %v to be feasible, got %v", p, r.Status)
		}
	})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("Expected 3 results, got %d", len(seen))
	}
	if d := wells[0].Distance(wells[1]); d < 1 {
		t.Errorf("Expected the result to be written back, distance %v", d)
	}

	t.Run("errors name the pair", func(t *testing.T) {
		bad := []well.Well{
			well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}),
			well.New(mgl64.Vec3{math.Inf(1), 0, 0}, mgl64.Vec3{1, 1, 0}),
		}
		if err := Sweep(bad, 1, AllPairs(2), nil); !errors.Is(err, ErrNonFinite) {
			t.Errorf("Expected ErrNonFinite, got %v", err)
		}
	})
}
