package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// Precomputed state for shading an intersection.
type Computations struct {
	T      float64
	Object int

	Point  types.Vec3
	Eye    types.Vec3
	Normal types.Vec3

	// Set if the ray originates inside the object; Normal is flipped to
	// face the eye when this happens.
	Inside bool

	Reflect types.Vec3

	// Point nudged along the normal to either side of the surface. Shadow
	// and reflection rays start at OverPoint, refraction rays at UnderPoint.
	OverPoint  types.Vec3
	UnderPoint types.Vec3

	// Refractive indices of the media the ray leaves and enters.
	N1, N2 float64
}

// Prepare the shading state for xs[hitIndex]. The whole intersection list
// is needed to track which transparent objects contain the hit point.
func (w *World) PrepareComputations(xs Intersections, hitIndex int, ray types.Ray) Computations {
	hit := xs[hitIndex]
	shape := &w.shapes[hit.Object]

	comps := Computations{
		T:      hit.T,
		Object: hit.Object,
		Point:  ray.Position(hit.T),
		Eye:    ray.Direction.Neg(),
	}
	comps.Normal = shape.NormalAt(comps.Point)
	if comps.Normal.Dot(comps.Eye) < 0 {
		comps.Inside = true
		comps.Normal = comps.Normal.Neg()
	}
	comps.Reflect = ray.Direction.Reflect(comps.Normal)
	comps.OverPoint = comps.Point.Add(comps.Normal.Mul(types.Epsilon))
	comps.UnderPoint = comps.Point.Sub(comps.Normal.Mul(types.Epsilon))

	comps.N1, comps.N2 = w.refractiveIndices(xs, hitIndex)
	return comps
}

// Walk the intersections up to the hit maintaining the stack of objects the
// ray is currently inside of.
func (w *World) refractiveIndices(xs Intersections, hitIndex int) (n1, n2 float64) {
	containers := make([]int, 0, 4)
	for i, x := range xs {
		if i == hitIndex {
			n1 = w.topRefractiveIndex(containers)
		}

		if pos := indexOf(containers, x.Object); pos >= 0 {
			containers = append(containers[:pos], containers[pos+1:]...)
		} else {
			containers = append(containers, x.Object)
		}

		if i == hitIndex {
			n2 = w.topRefractiveIndex(containers)
			break
		}
	}
	return n1, n2
}

func (w *World) topRefractiveIndex(containers []int) float64 {
	if len(containers) == 0 {
		return 1.0
	}
	return w.shapes[containers[len(containers)-1]].Material.RefractiveIndex
}

func indexOf(list []int, v int) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// Get the Schlick approximation of the Fresnel reflectance at the hit.
func Schlick(comps Computations) float64 {
	cos := comps.Eye.Dot(comps.Normal)

	if comps.N1 > comps.N2 {
		ratio := comps.N1 / comps.N2
		sin2T := ratio * ratio * (1 - cos*cos)
		if sin2T > 1 {
			// Total internal reflection.
			return 1.0
		}
		cos = math.Sqrt(1 - sin2T)
	}

	r0 := (comps.N1 - comps.N2) / (comps.N1 + comps.N2)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}
