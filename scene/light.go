package scene

import "github.com/achilleasa/lumen/types"

// A point light source without falloff.
type PointLight struct {
	Position  types.Vec3
	Intensity types.Color
}

// Create a new point light.
func NewPointLight(position types.Vec3, intensity types.Color) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}
