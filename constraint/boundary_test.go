package constraint

import (
	"errors"
	"testing"

	"github.com/akmonengine/wellspace/grid"
	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

func reservoir(t *testing.T) *grid.CornerPointGrid {
	t.Helper()
	g, err := grid.NewRegularGrid(grid.IJK{I: 4, J: 4, K: 2}, mgl64.Vec3{}, mgl64.Vec3{10, 10, 5})
	if err != nil {
		t.Fatalf("NewRegularGrid failed: %v", err)
	}
	return g
}

func TestBoundary(t *testing.T) {
	g := reservoir(t)
	c, err := NewBoundary(1, g, grid.IJK{I: 2, J: 2, K: 0}, grid.IJK{I: 3, J: 3, K: 1})
	if err != nil {
		t.Fatalf("NewBoundary failed: %v", err)
	}
	if len(c.Cells) != 8 {
		t.Fatalf("Expected 8 admissible cells, got %d", len(c.Cells))
	}

	wells := []well.Well{
		well.New(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2}),
		well.New(mgl64.Vec3{5, 25, 3}, mgl64.Vec3{30, 30, 4}),
	}

	if c.Satisfied(wells) {
		t.Fatal("Expected the heel outside the box")
	}
	if err := c.Snap(wells); err != nil {
		t.Fatalf("Snap failed: %v", err)
	}
	if !wells[1].Heel.ApproxEqualThreshold(mgl64.Vec3{20, 25, 3}, tolerance) {
		t.Errorf("Expected heel (20,25,3), got %v", wells[1].Heel)
	}
	if wells[1].Toe != (mgl64.Vec3{30, 30, 4}) {
		t.Errorf("Expected the toe to stay, got %v", wells[1].Toe)
	}
	if wells[0] != well.New(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2}) {
		t.Errorf("Expected other wells untouched, got %v", wells[0])
	}
	if !c.Satisfied(wells) {
		t.Error("Expected the boundary to hold after Snap")
	}

	t.Run("invalid box", func(t *testing.T) {
		if _, err := NewBoundary(0, g, grid.IJK{I: 3}, grid.IJK{I: 1}); !errors.Is(err, grid.ErrInvalidBox) {
			t.Errorf("Expected ErrInvalidBox, got %v", err)
		}
		if _, err := NewBoundaryIndices(0, g, []int{40}); !errors.Is(err, grid.ErrIndexOutOfRange) {
			t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
		}
	})

	t.Run("well index out of range", func(t *testing.T) {
		if c.Satisfied(wells[:1]) {
			t.Error("Expected a missing well to be unsatisfied")
		}
		if err := c.Snap(wells[:1]); !errors.Is(err, ErrWellIndex) {
			t.Errorf("Expected ErrWellIndex, got %v", err)
		}
	})
}
