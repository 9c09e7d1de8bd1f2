// Package well holds the heel/toe model of straight well trajectories and the
// arena that owns them during a projection run.
package well

import (
	"github.com/akmonengine/wellspace/segment"
	"github.com/go-gl/mathgl/mgl64"
)

// Well is a straight trajectory from its heel to its toe.
type Well struct {
	Heel mgl64.Vec3
	Toe  mgl64.Vec3
}

// New returns the well from heel to toe.
func New(heel, toe mgl64.Vec3) Well {
	return Well{Heel: heel, Toe: toe}
}

// Length returns the distance between heel and toe.
func (w Well) Length() float64 {
	return w.Toe.Sub(w.Heel).Len()
}

// Direction returns the unit vector from heel to toe, or the zero vector when
// both coincide.
func (w Well) Direction() mgl64.Vec3 {
	d := w.Toe.Sub(w.Heel)
	l := d.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return d.Mul(1 / l)
}

// Midpoint returns the point halfway between heel and toe.
func (w Well) Midpoint() mgl64.Vec3 {
	return w.Heel.Add(w.Toe).Mul(0.5)
}

// Distance returns the shortest distance between the two trajectories.
func (w Well) Distance(other Well) float64 {
	return segment.Distance(w.Heel, w.Toe, other.Heel, other.Toe)
}

// AABB returns the box enclosing the trajectory.
func (w Well) AABB() AABB {
	return AABB{
		Min: mgl64.Vec3{min(w.Heel.X(), w.Toe.X()), min(w.Heel.Y(), w.Toe.Y()), min(w.Heel.Z(), w.Toe.Z())},
		Max: mgl64.Vec3{max(w.Heel.X(), w.Toe.X()), max(w.Heel.Y(), w.Toe.Y()), max(w.Heel.Z(), w.Toe.Z())},
	}
}

// Pair joins the endpoints of two wells in the order the interwell projection
// expects: heel and toe of a, then heel and toe of b.
func Pair(a, b Well) [4]mgl64.Vec3 {
	return [4]mgl64.Vec3{a.Heel, a.Toe, b.Heel, b.Toe}
}

// Split is the inverse of Pair.
func Split(points [4]mgl64.Vec3) (Well, Well) {
	return Well{Heel: points[0], Toe: points[1]}, Well{Heel: points[2], Toe: points[3]}
}
