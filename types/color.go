package types

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Color is a linear RGB triplet. Components are unbounded while shading and
// only clamped when written to an image.
type Color f64.Vec3

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// Define a color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// Add a color.
func (c Color) Add(c2 Color) Color {
	return Color{c[0] + c2[0], c[1] + c2[1], c[2] + c2[2]}
}

// Subtract a color.
func (c Color) Sub(c2 Color) Color {
	return Color{c[0] - c2[0], c[1] - c2[1], c[2] - c2[2]}
}

// Scale color by a scalar.
func (c Color) Mul(s float64) Color {
	return Color{c[0] * s, c[1] * s, c[2] * s}
}

// Component-wise (Hadamard) product.
func (c Color) Blend(c2 Color) Color {
	return Color{c[0] * c2[0], c[1] * c2[1], c[2] * c2[2]}
}

// Compare two colors component-wise using Epsilon.
func (c Color) ApproxEq(c2 Color) bool {
	return ApproxEqual(c[0], c2[0]) && ApproxEqual(c[1], c2[1]) && ApproxEqual(c[2], c2[2])
}

// Clamp components to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c[0]), clamp01(c[1]), clamp01(c[2])}
}

// Convert to 8-bit channels; components are clamped and rounded.
func (c Color) RGB8() (r, g, b uint8) {
	c = c.Clamp()
	return uint8(math.Round(c[0] * 255)), uint8(math.Round(c[1] * 255)), uint8(math.Round(c[2] * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
