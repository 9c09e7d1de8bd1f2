package snap

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		threshold float64
		expected  float64
	}{
		{"noise is clamped", 3e-13, Threshold, 0},
		{"negative noise is clamped", -9e-12, Threshold, 0},
		{"value at threshold is kept", 1e-11, Threshold, 1e-11},
		{"regular value is kept", 0.25, Threshold, 0.25},
		{"custom threshold", 0.004, 0.01, 0},
		{"zero threshold keeps everything", 1e-300, 0, 1e-300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(tt.x, tt.threshold); got != tt.expected {
				t.Errorf("Value(%v, %v) = %v, expected %v", tt.x, tt.threshold, got, tt.expected)
			}
		})
	}
}

func TestVec3(t *testing.T) {
	got := Vec3(mgl64.Vec3{1e-14, -2, -1e-12}, Threshold)
	expected := mgl64.Vec3{0, -2, 0}
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestMat3(t *testing.T) {
	m := mgl64.Mat3{
		8, 1e-13, 0,
		1e-13, 6, 6,
		0, 6, 6,
	}
	got := Mat3(m, Threshold)
	if got.At(0, 1) != 0 || got.At(1, 0) != 0 {
		t.Errorf("Off diagonal noise not clamped: %v", got)
	}
	if got.At(1, 2) != 6 || got.At(0, 0) != 8 {
		t.Errorf("Regular entries modified: %v", got)
	}
	// The argument is a value, the caller's matrix is left alone.
	if m.At(0, 1) != 1e-13 {
		t.Errorf("Input matrix modified: %v", m)
	}
}

func TestSlice(t *testing.T) {
	xs := []float64{1, -4e-12, 1e-3, 0}
	Slice(xs, Threshold)
	expected := []float64{1, 0, 1e-3, 0}
	for i := range xs {
		if xs[i] != expected[i] {
			t.Errorf("Index %d: expected %v, got %v", i, expected[i], xs[i])
		}
	}
}
