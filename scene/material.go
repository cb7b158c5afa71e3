package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// Defines a Phong surface material with optional reflection and refraction.
// Materials are values; the With* helpers return modified copies.
type Material struct {
	// Solid surface color. Ignored if Pattern is set.
	Color types.Color

	// Procedural color source.
	Pattern *Pattern

	// Phong coefficients.
	Ambient   float64
	Diffuse   float64
	Specular  float64
	Shininess float64

	// Fraction of light mirrored by the surface.
	Reflective float64

	// Fraction of light transmitted through the surface and the index of
	// refraction used to bend it.
	Transparency    float64
	RefractiveIndex float64
}

// Create a material with default settings.
func NewMaterial() Material {
	return Material{
		Color:           types.White,
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200,
		RefractiveIndex: 1.0,
	}
}

func (m Material) WithColor(c types.Color) Material {
	m.Color = c
	m.Pattern = nil
	return m
}

func (m Material) WithPattern(p Pattern) Material {
	m.Pattern = &p
	return m
}

func (m Material) WithAmbient(v float64) Material {
	m.Ambient = v
	return m
}

func (m Material) WithDiffuse(v float64) Material {
	m.Diffuse = v
	return m
}

func (m Material) WithSpecular(v float64) Material {
	m.Specular = v
	return m
}

func (m Material) WithShininess(v float64) Material {
	m.Shininess = v
	return m
}

func (m Material) WithReflective(v float64) Material {
	m.Reflective = v
	return m
}

func (m Material) WithTransparency(v float64) Material {
	m.Transparency = v
	return m
}

func (m Material) WithRefractiveIndex(v float64) Material {
	m.RefractiveIndex = v
	return m
}

// Get the surface color at a world point of a shape with the given inverse
// transform.
func (m Material) ColorAt(shapeInv types.Affine, point types.Vec3) types.Color {
	if m.Pattern != nil {
		return m.Pattern.ColorAtShape(shapeInv, point)
	}
	return m.Color
}

// Calculate the Phong illumination contributed by a single light at a
// surface point. The eye and normal vectors must be normalized.
func (m Material) Lighting(light PointLight, shapeInv types.Affine, point, eye, normal types.Vec3, inShadow bool) types.Color {
	effective := m.ColorAt(shapeInv, point).Blend(light.Intensity)
	ambient := effective.Mul(m.Ambient)
	if inShadow {
		return ambient
	}

	lightDir := light.Position.Sub(point).Normalize()
	lightDotNormal := lightDir.Dot(normal)
	if lightDotNormal < 0 {
		// Light is on the other side of the surface.
		return ambient
	}

	diffuse := effective.Mul(m.Diffuse * lightDotNormal)

	reflectDotEye := lightDir.Neg().Reflect(normal).Dot(eye)
	if reflectDotEye <= 0 {
		return ambient.Add(diffuse)
	}

	specular := light.Intensity.Mul(m.Specular * math.Pow(reflectDotEye, m.Shininess))
	return ambient.Add(diffuse).Add(specular)
}
