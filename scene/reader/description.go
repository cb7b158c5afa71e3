package reader

import (
	"fmt"
	"math"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// A single transform step. Args are in the order expected by the matching
// types constructor; angles are stored in radians.
type TransformOp struct {
	Op   string
	Args []float64
}

// Transform is an ordered list of ops. Later ops apply after earlier ones.
type Transform []TransformOp

var transformArgCount = map[string]int{
	"translate":   3,
	"scale":       3,
	"rotate_x":    1,
	"rotate_y":    1,
	"rotate_z":    1,
	"rotate_axis": 4,
	"shear":       6,
}

// Validate an op name and its argument count.
func checkTransformOp(op string, argCount int) error {
	expArgs, ok := transformArgCount[op]
	if !ok {
		return fmt.Errorf("unknown transform op '%s'", op)
	}
	if argCount != expArgs {
		return argCountError(op, expArgs, argCount)
	}
	return nil
}

func argCountError(directive string, expArgs, gotArgs int) error {
	noun := "arguments"
	if expArgs == 1 {
		noun = "argument"
	}
	return fmt.Errorf("unsupported syntax for '%s'; expected %d %s; got %d", directive, expArgs, noun, gotArgs)
}

// Compose the op list into a single affine transform.
func (t Transform) Affine() (types.Affine, error) {
	xform := types.IdentAffine()
	for _, op := range t {
		if err := checkTransformOp(op.Op, len(op.Args)); err != nil {
			return xform, err
		}

		a := op.Args
		var step types.Affine
		switch op.Op {
		case "translate":
			step = types.Translation(a[0], a[1], a[2])
		case "scale":
			step = types.Scaling(a[0], a[1], a[2])
		case "rotate_x":
			step = types.RotationX(a[0])
		case "rotate_y":
			step = types.RotationY(a[0])
		case "rotate_z":
			step = types.RotationZ(a[0])
		case "rotate_axis":
			step = types.RotationAxis(types.XYZ(a[0], a[1], a[2]), a[3])
		case "shear":
			step = types.Shearing(a[0], a[1], a[2], a[3], a[4], a[5])
		}
		xform = step.Mul(xform)
	}
	return xform, nil
}

type CameraDescription struct {
	Width, Height uint32
	FOV           float64
	Eye           types.Vec3
	Look          types.Vec3
	Up            types.Vec3
}

type LightDescription struct {
	Position  types.Vec3
	Intensity types.Color
}

type PatternDescription struct {
	Type      string
	A, B      types.Color
	Transform Transform
}

// A named material. Unset fields keep the defaults of scene.NewMaterial.
type MaterialDescription struct {
	Name            string
	Color           types.Color
	Pattern         *PatternDescription
	Ambient         float64
	Diffuse         float64
	Specular        float64
	Shininess       float64
	Reflective      float64
	Transparency    float64
	RefractiveIndex float64
}

type ShapeDescription struct {
	Type      string
	Transform Transform
	Material  string
}

// Description is the parsed, serializable form of a scene. Compiled scene
// bundles store it gob-encoded.
type Description struct {
	Camera CameraDescription
	// Zero limits shading to local lighting.
	MaxDepth  int
	Lights    []LightDescription
	Materials []*MaterialDescription
	Shapes    []ShapeDescription
}

// Create an empty description with the default camera.
func NewDescription() *Description {
	return &Description{
		Camera: CameraDescription{
			Width:  800,
			Height: 400,
			FOV:    math.Pi / 3,
			Eye:    types.XYZ(0, 0, -5),
			Look:   types.XYZ(0, 0, 0),
			Up:     types.XYZ(0, 1, 0),
		},
		MaxDepth: scene.DefaultMaxDepth,
	}
}

// Create a material description populated with the default coefficients.
func NewMaterialDescription(name string) *MaterialDescription {
	def := scene.NewMaterial()
	return &MaterialDescription{
		Name:            name,
		Color:           def.Color,
		Ambient:         def.Ambient,
		Diffuse:         def.Diffuse,
		Specular:        def.Specular,
		Shininess:       def.Shininess,
		Reflective:      def.Reflective,
		Transparency:    def.Transparency,
		RefractiveIndex: def.RefractiveIndex,
	}
}

// Lookup a material by name.
func (d *Description) Material(name string) (*MaterialDescription, bool) {
	for _, mat := range d.Materials {
		if mat.Name == name {
			return mat, true
		}
	}
	return nil, false
}

// Build the runtime scene.
func (d *Description) Build() (*scene.Scene, error) {
	materials := make(map[string]scene.Material, len(d.Materials))
	for _, matDesc := range d.Materials {
		mat, err := matDesc.build()
		if err != nil {
			return nil, fmt.Errorf("material '%s': %w", matDesc.Name, err)
		}
		materials[matDesc.Name] = mat
	}

	world := scene.NewWorld()
	for _, light := range d.Lights {
		world.AddLight(scene.NewPointLight(light.Position, light.Intensity))
	}

	for shapeIndex, shapeDesc := range d.Shapes {
		primType, ok := scene.PrimitiveTypeFromName(shapeDesc.Type)
		if !ok {
			return nil, fmt.Errorf("shape %d: unknown primitive type '%s'", shapeIndex, shapeDesc.Type)
		}

		mat := scene.NewMaterial()
		if shapeDesc.Material != "" {
			if mat, ok = materials[shapeDesc.Material]; !ok {
				return nil, fmt.Errorf("shape %d: undefined material with name '%s'", shapeIndex, shapeDesc.Material)
			}
		}

		xform, err := shapeDesc.Transform.Affine()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", shapeIndex, err)
		}
		shape, err := scene.NewShape(primType).WithMaterial(mat).WithTransform(xform)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", shapeIndex, err)
		}
		world.AddShape(shape)
	}

	camera := scene.NewCamera(d.Camera.Width, d.Camera.Height, d.Camera.FOV)
	if err := camera.SetTransform(types.ViewTransform(d.Camera.Eye, d.Camera.Look, d.Camera.Up)); err != nil {
		return nil, err
	}

	if d.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must not be negative; got %d", d.MaxDepth)
	}

	sc := scene.NewScene(camera, world)
	sc.MaxDepth = d.MaxDepth
	return sc, nil
}

func (m *MaterialDescription) build() (scene.Material, error) {
	mat := scene.NewMaterial().
		WithColor(m.Color).
		WithAmbient(m.Ambient).
		WithDiffuse(m.Diffuse).
		WithSpecular(m.Specular).
		WithShininess(m.Shininess).
		WithReflective(m.Reflective).
		WithTransparency(m.Transparency).
		WithRefractiveIndex(m.RefractiveIndex)

	if m.Pattern == nil {
		return mat, nil
	}

	patternType, ok := scene.PatternTypeFromName(m.Pattern.Type)
	if !ok {
		return mat, fmt.Errorf("unknown pattern type '%s'", m.Pattern.Type)
	}
	xform, err := m.Pattern.Transform.Affine()
	if err != nil {
		return mat, err
	}
	pattern, err := scene.NewPattern(patternType, m.Pattern.A, m.Pattern.B).WithTransform(xform)
	if err != nil {
		return mat, err
	}
	return mat.WithPattern(pattern), nil
}
