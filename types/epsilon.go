package types

import "math"

// Epsilon is the tolerance used for approximate float comparisons, for
// offsetting hit points off surfaces and for detecting rays parallel to
// planar features.
const Epsilon = 1e-5

// Check whether two floats are equal within Epsilon.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
