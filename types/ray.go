package types

// A ray with an origin point and a direction. The direction is not required
// to be normalized; transformed rays keep their scaled direction so that
// t-values remain valid in world space.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: dir}
}

// Get the point at distance t along the ray.
func (r Ray) Position(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Apply a transform to the ray.
func (r Ray) Transform(a Affine) Ray {
	return Ray{
		Origin:    a.Point(r.Origin),
		Direction: a.Vector(r.Direction),
	}
}
