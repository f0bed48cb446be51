package ecs

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div divides component-wise; a zero divisor component leaves that axis as is.
func (v Vec3) Div(o Vec3) Vec3 {
	div := func(a, b float64) float64 {
		if b == 0 {
			return a
		}
		return a / b
	}
	return Vec3{div(v.X, o.X), div(v.Y, o.Y), div(v.Z, o.Z)}
}

func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }

// Transform is the entity's local placement. Rotation is Euler angles in
// radians and is carried for collaborators; world composition only applies
// translation and scale.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scaling  Vec3
}

func Identity() Transform {
	return Transform{Scaling: Vec3{1, 1, 1}}
}
