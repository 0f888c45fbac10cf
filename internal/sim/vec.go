package sim

import "math"

// Vec3 is a point or direction in world space. The simulation is planar:
// agent headings keep Z at zero and agent positions keep Z at a fixed
// altitude, but positions are carried as 3D so the renderer and reports
// see the same coordinates the scene does.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns the unit vector in v's direction, or the zero vector
// when v has zero length.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Planar drops the Z component. Obstacle avoidance works in the ground
// plane regardless of agent altitude.
func (v Vec3) Planar() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}
