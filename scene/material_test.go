package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/lumen/types"
)

func colorNear(a, b types.Color, tolerance float64) bool {
	return math.Abs(a[0]-b[0]) < tolerance &&
		math.Abs(a[1]-b[1]) < tolerance &&
		math.Abs(a[2]-b[2]) < tolerance
}

func TestDefaultMaterial(t *testing.T) {
	m := NewMaterial()
	if m.Color != types.White || m.Ambient != 0.1 || m.Diffuse != 0.9 || m.Specular != 0.9 ||
		m.Shininess != 200 || m.Reflective != 0 || m.Transparency != 0 || m.RefractiveIndex != 1 {
		t.Fatalf("unexpected default material %+v", m)
	}
}

func TestLighting(t *testing.T) {
	type spec struct {
		eye      types.Vec3
		light    PointLight
		inShadow bool
		exp      float64
	}

	s2 := math.Sqrt2 / 2
	white := types.White
	specs := []spec{
		// eye between light and surface
		{types.XYZ(0, 0, -1), NewPointLight(types.XYZ(0, 0, -10), white), false, 1.9},
		// eye offset 45 degrees
		{types.XYZ(0, s2, -s2), NewPointLight(types.XYZ(0, 0, -10), white), false, 1.0},
		// light offset 45 degrees
		{types.XYZ(0, 0, -1), NewPointLight(types.XYZ(0, 10, -10), white), false, 0.7364},
		// eye in the path of the reflection vector
		{types.XYZ(0, -s2, -s2), NewPointLight(types.XYZ(0, 10, -10), white), false, 1.6364},
		// light behind the surface
		{types.XYZ(0, 0, -1), NewPointLight(types.XYZ(0, 0, 10), white), false, 0.1},
		{types.XYZ(0, 0, -1), NewPointLight(types.XYZ(0, 0, -10), white), true, 0.1},
	}

	m := NewMaterial()
	normal := types.XYZ(0, 0, -1)
	for specIndex, spec := range specs {
		out := m.Lighting(spec.light, types.IdentAffine(), types.Vec3{}, spec.eye, normal, spec.inShadow)
		exp := types.RGB(spec.exp, spec.exp, spec.exp)
		if !colorNear(out, exp, 1e-4) {
			t.Fatalf("[spec %d] expected %v; got %v", specIndex, exp, out)
		}
	}
}

func TestLightingWithPattern(t *testing.T) {
	m := NewMaterial().
		WithPattern(NewPattern(StripePattern, types.White, types.Black)).
		WithAmbient(1).
		WithDiffuse(0).
		WithSpecular(0)

	light := NewPointLight(types.XYZ(0, 0, -10), types.White)
	eye := types.XYZ(0, 0, -1)
	normal := types.XYZ(0, 0, -1)

	if out := m.Lighting(light, types.IdentAffine(), types.XYZ(0.9, 0, 0), eye, normal, false); out != types.White {
		t.Fatalf("expected white; got %v", out)
	}
	if out := m.Lighting(light, types.IdentAffine(), types.XYZ(1.1, 0, 0), eye, normal, false); out != types.Black {
		t.Fatalf("expected black; got %v", out)
	}

	if solid := m.WithColor(types.RGB(1, 0, 0)); solid.Pattern != nil {
		t.Fatalf("expected WithColor to clear the pattern")
	}
}

func TestPatternColorAt(t *testing.T) {
	type spec struct {
		patternType PatternType
		point       types.Vec3
		exp         types.Color
	}

	w, b := types.White, types.Black
	specs := []spec{
		// stripes are constant in y and z
		{StripePattern, types.XYZ(0, 0, 0), w},
		{StripePattern, types.XYZ(0, 1, 0), w},
		{StripePattern, types.XYZ(0, 0, 2), w},
		{StripePattern, types.XYZ(0.9, 0, 0), w},
		{StripePattern, types.XYZ(1, 0, 0), b},
		{StripePattern, types.XYZ(-0.1, 0, 0), b},
		{StripePattern, types.XYZ(-1, 0, 0), b},
		{StripePattern, types.XYZ(-1.1, 0, 0), w},
		{RingPattern, types.XYZ(0, 0, 0), w},
		{RingPattern, types.XYZ(1, 0, 0), b},
		{RingPattern, types.XYZ(0, 0, 1), b},
		{RingPattern, types.XYZ(0.708, 0, 0.708), b},
		{CheckerPattern, types.XYZ(0, 0, 0), w},
		{CheckerPattern, types.XYZ(0.99, 0, 0), w},
		{CheckerPattern, types.XYZ(1.01, 0, 0), b},
		{CheckerPattern, types.XYZ(0, 0.99, 0), w},
		{CheckerPattern, types.XYZ(0, 1.01, 0), b},
		{CheckerPattern, types.XYZ(0, 0, 0.99), w},
		{CheckerPattern, types.XYZ(0, 0, 1.01), b},
		{CheckerPattern, types.XYZ(-0.5, 0.5, 0.5), b},
	}

	for specIndex, spec := range specs {
		p := NewPattern(spec.patternType, w, b)
		if out := p.ColorAt(spec.point); out != spec.exp {
			t.Fatalf("[spec %d] expected %s at %v to be %v; got %v", specIndex, spec.patternType, spec.point, spec.exp, out)
		}
	}
}

func TestPatternTransforms(t *testing.T) {
	type spec struct {
		shapeXform   types.Affine
		patternXform types.Affine
		point        types.Vec3
	}

	specs := []spec{
		{types.Scaling(2, 2, 2), types.IdentAffine(), types.XYZ(1.5, 0, 0)},
		{types.IdentAffine(), types.Scaling(2, 2, 2), types.XYZ(1.5, 0, 0)},
		{types.Scaling(2, 2, 2), types.Translation(0.5, 0, 0), types.XYZ(2.5, 0, 0)},
	}

	for specIndex, spec := range specs {
		shapeInv, err := spec.shapeXform.Inv()
		if err != nil {
			t.Fatal(err)
		}
		p, err := NewPattern(StripePattern, types.White, types.Black).WithTransform(spec.patternXform)
		if err != nil {
			t.Fatal(err)
		}
		if out := p.ColorAtShape(shapeInv, spec.point); out != types.White {
			t.Fatalf("[spec %d] expected white; got %v", specIndex, out)
		}
	}

	if _, err := NewPattern(RingPattern, types.White, types.Black).WithTransform(types.Scaling(1, 1, 0)); err != types.ErrSingularMatrix {
		t.Fatalf("expected ErrSingularMatrix; got %v", err)
	}
}

func TestPatternTypeFromName(t *testing.T) {
	for _, patternType := range []PatternType{StripePattern, RingPattern, CheckerPattern} {
		out, ok := PatternTypeFromName(patternType.String())
		if !ok || out != patternType {
			t.Fatalf("expected lookup of %q to return %d; got %d", patternType.String(), patternType, out)
		}
	}
	if _, ok := PatternTypeFromName("gradient"); ok {
		t.Fatal("expected unknown pattern name lookup to fail")
	}
}
