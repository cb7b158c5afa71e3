package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

type PrimitiveType uint32

const (
	// Unit sphere centered at the origin.
	SpherePrimitive PrimitiveType = iota
	// The xz plane with its normal pointing towards +y.
	PlanePrimitive
	// Axis-aligned cube spanning [-1, 1] on every axis.
	CubePrimitive
	// Infinite capless cylinder of radius 1 around the y axis.
	CylinderPrimitive
)

var primitiveNames = map[PrimitiveType]string{
	SpherePrimitive:   "sphere",
	PlanePrimitive:    "plane",
	CubePrimitive:     "cube",
	CylinderPrimitive: "cylinder",
}

func (t PrimitiveType) String() string {
	if name, ok := primitiveNames[t]; ok {
		return name
	}
	return "unknown"
}

// Get a primitive type by its name.
func PrimitiveTypeFromName(name string) (PrimitiveType, bool) {
	for t, n := range primitiveNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Defines a geometry primitive in its local frame. Primitives are stateless;
// placement in the world is handled by the Shape that wraps them.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType
}

// Intersect a ray expressed in the primitive's local frame. Returns zero, one
// or two ray parameters; their order is not significant.
func (p Primitive) LocalIntersect(ray types.Ray) []float64 {
	switch p.Type {
	case SpherePrimitive:
		return intersectSphere(ray)
	case PlanePrimitive:
		return intersectPlane(ray)
	case CubePrimitive:
		return intersectCube(ray)
	case CylinderPrimitive:
		return intersectCylinder(ray)
	}
	return nil
}

// Get the outward normal at a local point assumed to lie on the surface.
func (p Primitive) LocalNormalAt(point types.Vec3) types.Vec3 {
	switch p.Type {
	case SpherePrimitive:
		return point
	case PlanePrimitive:
		return types.XYZ(0, 1, 0)
	case CubePrimitive:
		return cubeNormal(point)
	case CylinderPrimitive:
		return types.XYZ(point[0], 0, point[2])
	}
	return types.Vec3{}
}

func intersectSphere(ray types.Ray) []float64 {
	// The sphere is centered at the origin so the origin point doubles as
	// the sphere-to-ray vector.
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(ray.Origin)
	c := ray.Origin.Dot(ray.Origin) - 1
	return solveQuadratic(a, b, c)
}

func intersectPlane(ray types.Ray) []float64 {
	// Parallel rays never hit; coplanar rays are treated the same way.
	if math.Abs(ray.Direction[1]) < types.Epsilon {
		return nil
	}
	return []float64{-ray.Origin[1] / ray.Direction[1]}
}

func intersectCube(ray types.Ray) []float64 {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		near, far := slab(ray.Origin[axis], ray.Direction[axis])
		tMin = math.Max(tMin, near)
		tMax = math.Min(tMax, far)
	}

	if tMin > tMax {
		return nil
	}
	return []float64{tMin, tMax}
}

// Get the entry and exit distance for the [-1, 1] slab along one axis.
func slab(origin, dir float64) (float64, float64) {
	nearNum, farNum := -1-origin, 1-origin

	// A parallel ray is either always inside the slab or never.
	if math.Abs(dir) < types.Epsilon {
		if nearNum > 0 || farNum < 0 {
			return math.Inf(1), math.Inf(-1)
		}
		return math.Inf(-1), math.Inf(1)
	}

	near, far := nearNum/dir, farNum/dir
	if near > far {
		near, far = far, near
	}
	return near, far
}

func cubeNormal(point types.Vec3) types.Vec3 {
	ax, ay, az := math.Abs(point[0]), math.Abs(point[1]), math.Abs(point[2])
	switch {
	case ax >= ay && ax >= az:
		return types.XYZ(math.Copysign(1, point[0]), 0, 0)
	case ay >= az:
		return types.XYZ(0, math.Copysign(1, point[1]), 0)
	default:
		return types.XYZ(0, 0, math.Copysign(1, point[2]))
	}
}

func intersectCylinder(ray types.Ray) []float64 {
	a := ray.Direction[0]*ray.Direction[0] + ray.Direction[2]*ray.Direction[2]

	// Rays parallel to the y axis never touch the tube walls.
	if a < types.Epsilon {
		return nil
	}

	b := 2 * (ray.Origin[0]*ray.Direction[0] + ray.Origin[2]*ray.Direction[2])
	c := ray.Origin[0]*ray.Origin[0] + ray.Origin[2]*ray.Origin[2] - 1
	return solveQuadratic(a, b, c)
}

func solveQuadratic(a, b, c float64) []float64 {
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}

	sqrtDisc := math.Sqrt(disc)
	return []float64{
		(-b - sqrtDisc) / (2 * a),
		(-b + sqrtDisc) / (2 * a),
	}
}
