package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

type PatternType uint32

const (
	// Alternate colors along x.
	StripePattern PatternType = iota
	// Concentric rings around the y axis.
	RingPattern
	// 3D checkerboard.
	CheckerPattern
)

var patternNames = map[PatternType]string{
	StripePattern:  "stripes",
	RingPattern:    "rings",
	CheckerPattern: "checkers",
}

func (t PatternType) String() string {
	if name, ok := patternNames[t]; ok {
		return name
	}
	return "unknown"
}

// Get a pattern type by its name.
func PatternTypeFromName(name string) (PatternType, bool) {
	for t, n := range patternNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// A procedural two-color pattern evaluated in its own coordinate frame.
type Pattern struct {
	Type PatternType
	A, B types.Color

	// Maps object space points to pattern space.
	invTransform types.Affine
}

// Create a new pattern with an identity transform.
func NewPattern(patternType PatternType, a, b types.Color) Pattern {
	return Pattern{
		Type:         patternType,
		A:            a,
		B:            b,
		invTransform: types.IdentAffine(),
	}
}

// Return a copy of the pattern with the given object-to-pattern transform.
// Fails with types.ErrSingularMatrix if the transform cannot be inverted.
func (p Pattern) WithTransform(xform types.Affine) (Pattern, error) {
	inv, err := xform.Inv()
	if err != nil {
		return p, err
	}
	p.invTransform = inv
	return p, nil
}

// Get the inverse transform of the pattern.
func (p Pattern) InvTransform() types.Affine {
	return p.invTransform
}

// Get the color at a point expressed in pattern space.
func (p Pattern) ColorAt(point types.Vec3) types.Color {
	var v float64
	switch p.Type {
	case StripePattern:
		v = math.Floor(point[0])
	case RingPattern:
		v = math.Floor(point[0]*point[0] + point[2]*point[2])
	case CheckerPattern:
		v = math.Floor(point[0]) + math.Floor(point[1]) + math.Floor(point[2])
	}

	if int64(v)%2 == 0 {
		return p.A
	}
	return p.B
}

// Get the color at a world point on a shape with the given inverse transform.
func (p Pattern) ColorAtShape(shapeInv types.Affine, worldPoint types.Vec3) types.Color {
	objectPoint := shapeInv.Point(worldPoint)
	return p.ColorAt(p.invTransform.Point(objectPoint))
}
