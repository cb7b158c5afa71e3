package scene

import "github.com/achilleasa/lumen/types"

// A shape places a primitive in the world and assigns it a material. Shapes
// are values; WithTransform and WithMaterial return modified copies.
type Shape struct {
	Primitive Primitive
	Material  Material

	transform    types.Affine
	invTransform types.Affine
}

// Create a new shape with an identity transform and the default material.
func NewShape(primitiveType PrimitiveType) Shape {
	return Shape{
		Primitive:    Primitive{Type: primitiveType},
		Material:     NewMaterial(),
		transform:    types.IdentAffine(),
		invTransform: types.IdentAffine(),
	}
}

func NewSphere() Shape   { return NewShape(SpherePrimitive) }
func NewPlane() Shape    { return NewShape(PlanePrimitive) }
func NewCube() Shape     { return NewShape(CubePrimitive) }
func NewCylinder() Shape { return NewShape(CylinderPrimitive) }

// Return a copy of the shape with the given object-to-world transform.
// Fails with types.ErrSingularMatrix if the transform cannot be inverted.
func (s Shape) WithTransform(xform types.Affine) (Shape, error) {
	inv, err := xform.Inv()
	if err != nil {
		return s, err
	}
	s.transform = xform
	s.invTransform = inv
	return s, nil
}

// Return a copy of the shape with the given material.
func (s Shape) WithMaterial(m Material) Shape {
	s.Material = m
	return s
}

// Get the object-to-world transform.
func (s Shape) Transform() types.Affine {
	return s.transform
}

// Get the world-to-object transform.
func (s Shape) InvTransform() types.Affine {
	return s.invTransform
}

// Intersect a world space ray with the shape. The returned ray parameters
// are valid for the world space ray.
func (s Shape) Intersect(ray types.Ray) []float64 {
	return s.Primitive.LocalIntersect(ray.Transform(s.invTransform))
}

// Get the normalized world space normal at a world point on the surface.
func (s Shape) NormalAt(worldPoint types.Vec3) types.Vec3 {
	localNormal := s.Primitive.LocalNormalAt(s.invTransform.Point(worldPoint))
	return s.invTransform.Linear.Transpose().Mul3x1(localNormal).Normalize()
}
