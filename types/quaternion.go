package types

import "math"

// Quaternion implementation adapted from https://github.com/go-gl/mathgl/blob/master/mgl64/quat.go
type Quat struct {
	V Vec3
	W float64
}

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat{
		V: Vec3{},
		W: 1.0,
	}
}

// Create a quaternion from a unit axis vector and an angle.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	sin, cos := math.Sincos(angle * 0.5)
	return Quat{
		V: axis.Mul(sin),
		W: cos,
	}
}

// Rotates a vector by the rotation this quaternion represents.
func (q1 Quat) Rotate(v Vec3) Vec3 {
	cross := q1.V.Cross(v)
	// v + 2q_w * (q_v x v) + 2q_v x (q_v x v)
	return v.Add(cross.Mul(2 * q1.W)).Add(q1.V.Mul(2).Cross(cross))
}

// Multiplies two quaternions. Multiplication is not commutative;
// q1.Mul(q2) rotates by q2 first.
func (q1 Quat) Mul(q2 Quat) Quat {
	return Quat{
		q1.V.Cross(q2.V).Add(q2.V.Mul(q1.W)).Add(q1.V.Mul(q2.W)),
		q1.W*q2.W - q1.V.Dot(q2.V),
	}
}

// Returns the length of the quaternion.
func (q1 Quat) Len() float64 {
	return math.Sqrt(q1.W*q1.W + q1.V.Dot(q1.V))
}

// Normalizes the quaternion, returning its versor (unit quaternion).
func (q1 Quat) Normalize() Quat {
	length := q1.Len()
	if math.Abs(1-length) < Epsilon {
		return q1
	}
	if length == 0 {
		return QuatIdent()
	}
	return Quat{q1.V.Mul(1 / length), q1.W / length}
}

// Returns the row major 3x3 rotation matrix corresponding to the quaternion.
func (q1 Quat) Mat3() Mat3 {
	w, x, y, z := q1.W, q1.V[0], q1.V[1], q1.V[2]
	return Mat3{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*w*z, 2*x*z + 2*w*y,
		2*x*y + 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z - 2*w*x,
		2*x*z - 2*w*y, 2*y*z + 2*w*x, 1 - 2*x*x - 2*y*y,
	}
}
