package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/wellspace/grid"
	"github.com/go-gl/mathgl/mgl64"
)

func parallelepiped(t *testing.T, origin, a, b, c mgl64.Vec3) grid.Cell {
	t.Helper()
	var corners [8]mgl64.Vec3
	for n := 0; n < 8; n++ {
		p := origin
		if n&1 != 0 {
			p = p.Add(a)
		}
		if n&2 != 0 {
			p = p.Add(b)
		}
		if n&4 != 0 {
			p = p.Add(c)
		}
		corners[n] = p
	}
	cell, err := grid.NewCell(0, grid.IJK{}, corners)
	if err != nil {
		t.Fatalf("NewCell failed: %v", err)
	}
	return cell
}

func unitCube(t *testing.T) grid.Cell {
	return parallelepiped(t, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})
}

// sampledDistance is the smallest distance from point to a lattice of points
// covering every face of cell.
func sampledDistance(cell grid.Cell, point mgl64.Vec3, steps int) float64 {
	best := math.Inf(1)
	for _, face := range cell.Faces {
		u := face.Corners[1].Sub(face.Corners[0])
		v := face.Corners[2].Sub(face.Corners[0])
		for i := 0; i <= steps; i++ {
			for j := 0; j <= steps; j++ {
				p := face.Corners[0].Add(u.Mul(float64(i) / float64(steps))).Add(v.Mul(float64(j) / float64(steps)))
				if d := p.Sub(point).Len(); d < best {
					best = d
				}
			}
		}
	}
	return best
}

func TestToCell(t *testing.T) {
	cube := unitCube(t)

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected mgl64.Vec3
	}{
		{"inside is unchanged", mgl64.Vec3{0.25, 0.5, 0.75}, mgl64.Vec3{0.25, 0.5, 0.75}},
		{"on boundary is unchanged", mgl64.Vec3{1, 0.5, 0.5}, mgl64.Vec3{1, 0.5, 0.5}},
		{"face region", mgl64.Vec3{0.5, 0.5, 3}, mgl64.Vec3{0.5, 0.5, 1}},
		{"edge region", mgl64.Vec3{2, 2, 0.5}, mgl64.Vec3{1, 1, 0.5}},
		{"corner region", mgl64.Vec3{2, -1, 3}, mgl64.Vec3{1, 0, 1}},
		{"below", mgl64.Vec3{0.1, 0.9, -4}, mgl64.Vec3{0.1, 0.9, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCell(tt.point, cube)
			if !got.ApproxEqualThreshold(tt.expected, 1e-12) {
				t.Errorf("ToCell(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestToCellMatchesSampling(t *testing.T) {
	cell := parallelepiped(t,
		mgl64.Vec3{1, -1, 2},
		mgl64.Vec3{2, 0, 0},
		mgl64.Vec3{0.5, 1.5, 0},
		mgl64.Vec3{0.3, 0.2, 1},
	)

	points := []mgl64.Vec3{
		{5, 0, 2.5},
		{-1, -2, 1},
		{2, 3, 5},
		{2, 0, 0},
		{4.5, 1.2, 3.6},
		{0, 0.5, 2.5},
	}

	for _, p := range points {
		got := ToCell(p, cell)
		if !cell.EnvelopsPoint(got) {
			t.Errorf("Projection %v of %v is outside the cell", got, p)
		}

		exact := got.Sub(p).Len()
		sampled := sampledDistance(cell, p, 200)
		if exact > sampled+1e-9 {
			t.Errorf("Point %v: projected distance %v exceeds sampled minimum %v", p, exact, sampled)
		}
		if sampled-exact > 0.03 {
			t.Errorf("Point %v: projected distance %v far below sampled minimum %v", p, exact, sampled)
		}
	}
}

func TestToFace(t *testing.T) {
	cube := unitCube(t)
	top := cube.Faces[0] // z = 0

	t.Run("projection inside the face", func(t *testing.T) {
		got := ToFace(mgl64.Vec3{0.3, 0.6, -2}, top, cube)
		if !got.ApproxEqualThreshold(mgl64.Vec3{0.3, 0.6, 0}, 1e-12) {
			t.Errorf("Expected (0.3,0.6,0), got %v", got)
		}
	})

	t.Run("projection outside falls back to edges", func(t *testing.T) {
		got := ToFace(mgl64.Vec3{3, 0.5, -2}, top, cube)
		if !got.ApproxEqualThreshold(mgl64.Vec3{1, 0.5, 0}, 1e-12) {
			t.Errorf("Expected (1,0.5,0), got %v", got)
		}
	})
}

func TestInDomain(t *testing.T) {
	near := unitCube(t)
	far := parallelepiped(t, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1})

	t.Run("picks the closest cell", func(t *testing.T) {
		got, err := InDomain(mgl64.Vec3{8, 0.5, 0.5}, []grid.Cell{near, far})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !got.ApproxEqualThreshold(mgl64.Vec3{10, 0.5, 0.5}, 1e-12) {
			t.Errorf("Expected (10,0.5,0.5), got %v", got)
		}
	})

	t.Run("point already inside", func(t *testing.T) {
		p := mgl64.Vec3{10.5, 0.5, 0.5}
		got, err := InDomain(p, []grid.Cell{near, far})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != p {
			t.Errorf("Expected %v unchanged, got %v", p, got)
		}
	})

	t.Run("empty cell list", func(t *testing.T) {
		if _, err := InDomain(mgl64.Vec3{}, nil); !errors.Is(err, ErrNoCells) {
			t.Errorf("Expected ErrNoCells, got %v", err)
		}
	})
}

func TestInDomainIndices(t *testing.T) {
	g, err := grid.NewRegularGrid(grid.IJK{I: 4, J: 4, K: 2}, mgl64.Vec3{}, mgl64.Vec3{10, 10, 5})
	if err != nil {
		t.Fatalf("NewRegularGrid failed: %v", err)
	}

	t.Run("projects into an index box", func(t *testing.T) {
		indices, err := grid.BoxIndices(g, grid.IJK{I: 2, J: 2, K: 0}, grid.IJK{I: 3, J: 3, K: 1})
		if err != nil {
			t.Fatalf("BoxIndices failed: %v", err)
		}
		got, err := InDomainIndices(mgl64.Vec3{5, 25, 3}, g, indices)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !got.ApproxEqualThreshold(mgl64.Vec3{20, 25, 3}, 1e-9) {
			t.Errorf("Expected (20,25,3), got %v", got)
		}
	})

	t.Run("out of range index is a hard error", func(t *testing.T) {
		_, err := InDomainIndices(mgl64.Vec3{}, g, []int{0, 32})
		if !errors.Is(err, grid.ErrIndexOutOfRange) {
			t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
		}
	})
}
