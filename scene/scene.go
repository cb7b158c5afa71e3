package scene

import (
	"bytes"
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
)

// A renderable scene: the world plus the camera that views it.
type Scene struct {
	Camera *Camera
	World  *World

	// Reflection/refraction bounce budget for primary rays.
	MaxDepth int
}

// Create a new scene.
func NewScene(camera *Camera, world *World) *Scene {
	return &Scene{
		Camera:   camera,
		World:    world,
		MaxDepth: DefaultMaxDepth,
	}
}

// Generate a table with scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Category", "Count", "Notes"})

	shapesByType := make(map[PrimitiveType]int)
	var reflective, transparent, patterned int
	for _, shape := range sc.World.Shapes() {
		shapesByType[shape.Primitive.Type]++
		if shape.Material.Reflective > 0 {
			reflective++
		}
		if shape.Material.Transparency > 0 {
			transparent++
		}
		if shape.Material.Pattern != nil {
			patterned++
		}
	}

	for _, primType := range []PrimitiveType{SpherePrimitive, PlanePrimitive, CubePrimitive, CylinderPrimitive} {
		table.Append([]string{primType.String(), fmt.Sprint(shapesByType[primType]), ""})
	}
	table.Append([]string{"lights", fmt.Sprint(len(sc.World.Lights())), ""})
	table.Append([]string{"reflective", fmt.Sprint(reflective), "shapes with reflective > 0"})
	table.Append([]string{"transparent", fmt.Sprint(transparent), "shapes with transparency > 0"})
	table.Append([]string{"patterned", fmt.Sprint(patterned), "shapes using a procedural pattern"})

	camNotes := "not defined"
	if sc.Camera != nil {
		camNotes = fmt.Sprintf("%dx%d, fov %.1f deg", sc.Camera.HSize, sc.Camera.VSize, sc.Camera.FOV*180/math.Pi)
	}
	table.SetFooter([]string{"camera", "", camNotes})

	table.Render()
	return buf.String()
}
