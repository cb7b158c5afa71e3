package types

import "math"

// Affine is a 3x3 linear map followed by a translation. It covers every
// transform a scene can express (translate, scale, rotate, shear and their
// compositions) without carrying a homogeneous row.
type Affine struct {
	Linear    Mat3
	Translate Vec3
}

// Create identity transform.
func IdentAffine() Affine {
	return Affine{Linear: Ident3()}
}

// Create a translation.
func Translation(x, y, z float64) Affine {
	return Affine{Linear: Ident3(), Translate: Vec3{x, y, z}}
}

// Create a non-uniform scale.
func Scaling(x, y, z float64) Affine {
	return Affine{Linear: Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	}}
}

// Create a rotation around the X axis; angle is in radians.
func RotationX(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{Linear: Mat3{
		1, 0, 0,
		0, cos, -sin,
		0, sin, cos,
	}}
}

// Create a rotation around the Y axis; angle is in radians.
func RotationY(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{Linear: Mat3{
		cos, 0, sin,
		0, 1, 0,
		-sin, 0, cos,
	}}
}

// Create a rotation around the Z axis; angle is in radians.
func RotationZ(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{Linear: Mat3{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	}}
}

// Create a rotation around an arbitrary axis; angle is in radians.
func RotationAxis(axis Vec3, angle float64) Affine {
	return Affine{Linear: QuatFromAxisAngle(axis.Normalize(), angle).Mat3()}
}

// Create a shear transform. Each argument moves one coordinate in
// proportion to another, e.g. xy moves x in proportion to y.
func Shearing(xy, xz, yx, yz, zx, zy float64) Affine {
	return Affine{Linear: Mat3{
		1, xy, xz,
		yx, 1, yz,
		zx, zy, 1,
	}}
}

// Create a world-to-camera transform for an eye at from looking at to.
func ViewTransform(from, to, up Vec3) Affine {
	forward := to.Sub(from).Normalize()
	left := forward.Cross(up.Normalize())
	trueUp := left.Cross(forward)
	orientation := Affine{Linear: Mat3{
		left[0], left[1], left[2],
		trueUp[0], trueUp[1], trueUp[2],
		-forward[0], -forward[1], -forward[2],
	}}
	return orientation.Mul(Translation(-from[0], -from[1], -from[2]))
}

// Compose two transforms. The returned transform applies a2 first and
// then a.
func (a Affine) Mul(a2 Affine) Affine {
	return Affine{
		Linear:    a.Linear.Mul3(a2.Linear),
		Translate: a.Linear.Mul3x1(a2.Translate).Add(a.Translate),
	}
}

// Calculate the inverse transform.
func (a Affine) Inv() (Affine, error) {
	inv, err := a.Linear.Inv()
	if err != nil {
		return Affine{}, err
	}
	return Affine{
		Linear:    inv,
		Translate: inv.Mul3x1(a.Translate).Neg(),
	}, nil
}

// Transform a point.
func (a Affine) Point(p Vec3) Vec3 {
	return a.Linear.Mul3x1(p).Add(a.Translate)
}

// Transform a direction; translation is ignored.
func (a Affine) Vector(v Vec3) Vec3 {
	return a.Linear.Mul3x1(v)
}

// Compare two transforms using Epsilon.
func (a Affine) ApproxEq(a2 Affine) bool {
	return a.Linear.ApproxEq(a2.Linear) && a.Translate.ApproxEq(a2.Translate)
}
