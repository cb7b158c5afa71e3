package reader

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

func TestTransformComposition(t *testing.T) {
	type spec struct {
		xform Transform
		in    types.Vec3
		exp   types.Vec3
	}

	specs := []spec{
		{nil, types.XYZ(1, 2, 3), types.XYZ(1, 2, 3)},
		{
			Transform{{"scale", []float64{2, 2, 2}}, {"translate", []float64{1, 0, 0}}},
			types.XYZ(1, 0, 0),
			types.XYZ(3, 0, 0),
		},
		{
			Transform{{"translate", []float64{1, 0, 0}}, {"scale", []float64{2, 2, 2}}},
			types.XYZ(1, 0, 0),
			types.XYZ(4, 0, 0),
		},
		{
			Transform{{"rotate_x", []float64{math.Pi / 2}}, {"scale", []float64{5, 5, 5}}, {"translate", []float64{10, 5, 7}}},
			types.XYZ(1, 0, 1),
			types.XYZ(15, 0, 7),
		},
		{
			Transform{{"shear", []float64{1, 0, 0, 0, 0, 0}}},
			types.XYZ(2, 3, 4),
			types.XYZ(5, 3, 4),
		},
		{
			Transform{{"rotate_axis", []float64{0, 0, 1, math.Pi / 2}}},
			types.XYZ(0, 1, 0),
			types.XYZ(-1, 0, 0),
		},
	}

	for specIndex, spec := range specs {
		xform, err := spec.xform.Affine()
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", specIndex, err)
		}
		if out := xform.Point(spec.in); !out.ApproxEq(spec.exp) {
			t.Fatalf("[spec %d] expected %v; got %v", specIndex, spec.exp, out)
		}
	}

	if _, err := (Transform{{"scale", []float64{1, 2}}}).Affine(); err == nil {
		t.Fatal("expected an error for a malformed op")
	}
}

func TestBuildScene(t *testing.T) {
	desc := NewDescription()
	desc.Camera.Width, desc.Camera.Height = 11, 11
	desc.Camera.FOV = math.Pi / 2
	desc.MaxDepth = 4
	desc.Lights = append(desc.Lights, LightDescription{Position: types.XYZ(-10, 10, -10), Intensity: types.White})

	outer := NewMaterialDescription("outer")
	outer.Color = types.RGB(0.8, 1.0, 0.6)
	outer.Diffuse = 0.7
	outer.Specular = 0.2
	stripes := NewMaterialDescription("stripes")
	stripes.Pattern = &PatternDescription{
		Type:      "stripes",
		A:         types.White,
		B:         types.Black,
		Transform: Transform{{"scale", []float64{0.5, 1, 1}}},
	}
	desc.Materials = append(desc.Materials, outer, stripes)

	desc.Shapes = append(desc.Shapes,
		ShapeDescription{Type: "sphere", Material: "outer"},
		ShapeDescription{Type: "sphere", Transform: Transform{{"scale", []float64{0.5, 0.5, 0.5}}}},
		ShapeDescription{Type: "cylinder", Material: "stripes", Transform: Transform{{"translate", []float64{0, 0, 50}}}},
	)

	sc, err := desc.Build()
	if err != nil {
		t.Fatal(err)
	}

	if sc.MaxDepth != 4 {
		t.Fatalf("expected max depth 4; got %d", sc.MaxDepth)
	}
	shapes := sc.World.Shapes()
	if len(shapes) != 3 {
		t.Fatalf("expected 3 shapes; got %d", len(shapes))
	}
	if shapes[1].Material != scene.NewMaterial() {
		t.Fatalf("expected shapes without a material to use the default; got %+v", shapes[1].Material)
	}
	if shapes[2].Primitive.Type != scene.CylinderPrimitive || shapes[2].Material.Pattern == nil {
		t.Fatalf("unexpected cylinder shape %+v", shapes[2])
	}
	if c := shapes[2].Material.Pattern.ColorAtShape(types.IdentAffine(), types.XYZ(0.6, 0, 0)); c != types.Black {
		t.Fatalf("expected the pattern transform to be applied; got %v", c)
	}

	// Center pixel of the canonical two-sphere world.
	ray := sc.Camera.RayForPixel(5, 5)
	exp := types.RGB(0.38066, 0.47583, 0.2855)
	out := sc.World.ColorAt(ray, sc.MaxDepth)
	if math.Abs(out[0]-exp[0]) > 1e-4 || math.Abs(out[1]-exp[1]) > 1e-4 || math.Abs(out[2]-exp[2]) > 1e-4 {
		t.Fatalf("expected %v; got %v", exp, out)
	}
}

func TestBuildErrors(t *testing.T) {
	type spec struct {
		shape    ShapeDescription
		material *MaterialDescription
		expErr   string
	}

	badPattern := NewMaterialDescription("bad")
	badPattern.Pattern = &PatternDescription{Type: "gradient"}

	specs := []spec{
		{ShapeDescription{Type: "cone"}, nil, "shape 0: unknown primitive type 'cone'"},
		{ShapeDescription{Type: "cube", Material: "missing"}, nil, "shape 0: undefined material with name 'missing'"},
		{ShapeDescription{Type: "cube"}, badPattern, "material 'bad': unknown pattern type 'gradient'"},
	}

	for specIndex, spec := range specs {
		desc := NewDescription()
		desc.Shapes = append(desc.Shapes, spec.shape)
		if spec.material != nil {
			desc.Materials = append(desc.Materials, spec.material)
		}

		_, err := desc.Build()
		if err == nil || err.Error() != spec.expErr {
			t.Fatalf("[spec %d] expected error %q; got %v", specIndex, spec.expErr, err)
		}
	}

	desc := NewDescription()
	desc.Shapes = append(desc.Shapes, ShapeDescription{Type: "sphere", Transform: Transform{{"scale", []float64{0, 1, 1}}}})
	if _, err := desc.Build(); !errors.Is(err, types.ErrSingularMatrix) {
		t.Fatalf("expected ErrSingularMatrix; got %v", err)
	}
}
