package well

import "github.com/go-gl/mathgl/mgl64"

// AABB is the axis aligned box around a trajectory, used to cull well pairs
// that cannot be closer than the minimum distance.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint reports whether point lies in the box, faces included.
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if point[axis] < a.Min[axis] || point[axis] > a.Max[axis] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the boxes share at least one point.
func (a AABB) Overlaps(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if a.Max[axis] < other.Min[axis] || a.Min[axis] > other.Max[axis] {
			return false
		}
	}
	return true
}

// Inflate grows the box by margin on every side.
func (a AABB) Inflate(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}
