package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// The default number of reflection/refraction bounces.
const DefaultMaxDepth = 5

// A World owns the shapes and lights of a scene and evaluates the color
// seen along a ray. It must not be modified while it is being rendered;
// all query methods are safe for concurrent use.
type World struct {
	shapes []Shape
	lights []PointLight
}

// Create an empty world.
func NewWorld() *World {
	return &World{
		shapes: make([]Shape, 0),
		lights: make([]PointLight, 0),
	}
}

// Add a light to the world.
func (w *World) AddLight(light PointLight) {
	w.lights = append(w.lights, light)
}

// Add a shape to the world and return its index. Intersections refer to
// shapes by this index.
func (w *World) AddShape(shape Shape) int {
	w.shapes = append(w.shapes, shape)
	return len(w.shapes) - 1
}

// Get the shape with the given index.
func (w *World) Shape(index int) Shape {
	return w.shapes[index]
}

// Get the world shapes.
func (w *World) Shapes() []Shape {
	return w.shapes
}

// Get the world lights.
func (w *World) Lights() []PointLight {
	return w.lights
}

// Intersect a ray with every shape and return the sorted intersections.
func (w *World) Intersect(ray types.Ray) Intersections {
	xs := make([]Intersection, 0, 2*len(w.shapes))
	for index := range w.shapes {
		for _, t := range w.shapes[index].Intersect(ray) {
			xs = append(xs, Intersection{T: t, Object: index})
		}
	}
	return NewIntersections(xs...)
}

// Get the color at a prepared hit. Remaining is the number of
// reflection/refraction bounces still allowed.
func (w *World) ShadeHit(comps Computations, remaining int) types.Color {
	shape := &w.shapes[comps.Object]
	material := shape.Material

	surface := types.Black
	for _, light := range w.lights {
		inShadow := w.IsShadowed(light, comps.OverPoint)
		surface = surface.Add(
			material.Lighting(light, shape.invTransform, comps.OverPoint, comps.Eye, comps.Normal, inShadow),
		)
	}

	reflected := w.ReflectedColor(comps, remaining)
	refracted := w.RefractedColor(comps, remaining)

	if material.Reflective > 0 && material.Transparency > 0 {
		reflectance := Schlick(comps)
		return surface.Add(reflected.Mul(reflectance)).Add(refracted.Mul(1 - reflectance))
	}
	return surface.Add(reflected).Add(refracted)
}

// Get the color contributed by a reflection ray.
func (w *World) ReflectedColor(comps Computations, remaining int) types.Color {
	reflective := w.shapes[comps.Object].Material.Reflective
	if reflective == 0 || remaining <= 0 {
		return types.Black
	}

	ray := types.NewRay(comps.OverPoint, comps.Reflect)
	return w.ColorAt(ray, remaining-1).Mul(reflective)
}

// Get the color contributed by a refraction ray.
func (w *World) RefractedColor(comps Computations, remaining int) types.Color {
	transparency := w.shapes[comps.Object].Material.Transparency
	if transparency == 0 || remaining <= 0 {
		return types.Black
	}

	// Snell's law
	ratio := comps.N1 / comps.N2
	cosI := comps.Eye.Dot(comps.Normal)
	sin2T := ratio * ratio * (1 - cosI*cosI)
	if sin2T > 1 {
		// Total internal reflection.
		return types.Black
	}

	cosT := math.Sqrt(1 - sin2T)
	dir := comps.Normal.Mul(ratio*cosI - cosT).Sub(comps.Eye.Mul(ratio))
	ray := types.NewRay(comps.UnderPoint, dir)
	return w.ColorAt(ray, remaining-1).Mul(transparency)
}

// Get the color seen along a ray; black if nothing is hit.
func (w *World) ColorAt(ray types.Ray, remaining int) types.Color {
	xs := w.Intersect(ray)
	hitIndex := xs.HitIndex()
	if hitIndex < 0 {
		return types.Black
	}
	return w.ShadeHit(w.PrepareComputations(xs, hitIndex, ray), remaining)
}

// Check whether some shape blocks the path from point to the light.
func (w *World) IsShadowed(light PointLight, point types.Vec3) bool {
	toLight := light.Position.Sub(point)
	distance := toLight.Len()

	xs := w.Intersect(types.NewRay(point, toLight.Normalize()))
	hit, ok := xs.Hit()
	return ok && hit.T < distance
}
