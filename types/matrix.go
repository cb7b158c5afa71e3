package types

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f64"
)

var ErrSingularMatrix = errors.New("types: matrix is not invertible")

// Mat3 is a 3x3 matrix in row major order; m[3*r+c] is the element at row r
// and column c.
type Mat3 f64.Mat3

// Create identity matrix.
func Ident3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Multiply two 3x3 matrices.
func (m Mat3) Mul3(m2 Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[3*r+c] = m[3*r]*m2[c] + m[3*r+1]*m2[3+c] + m[3*r+2]*m2[6+c]
		}
	}
	return out
}

// Multiply matrix with a column vector.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Get transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Calculate determinant.
func (m Mat3) Det() float64 {
	// mgl64 is column major; transposition does not change the determinant.
	return mgl64.Mat3(m).Det()
}

// Calculate inverse matrix. Returns ErrSingularMatrix if the determinant
// is zero.
func (m Mat3) Inv() (Mat3, error) {
	if m.Det() == 0 {
		return Mat3{}, ErrSingularMatrix
	}

	// mgl64 treats tiny determinants as zero and returns a zero matrix. Scale
	// each row to unit magnitude before inverting; inv(D*M) = inv(M)*inv(D)
	// so column c of the result is then scaled back by row c's factor.
	var (
		scaled Mat3
		rowMax [3]float64
	)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rowMax[r] = math.Max(rowMax[r], math.Abs(m[3*r+c]))
		}
		if rowMax[r] == 0 {
			return Mat3{}, ErrSingularMatrix
		}
		for c := 0; c < 3; c++ {
			scaled[3*r+c] = m[3*r+c] / rowMax[r]
		}
	}

	// Reading our row major data as column major yields the transpose; the
	// inverse of the transpose is the transpose of the inverse so the
	// result can be reinterpreted back without any shuffling.
	inv := Mat3(mgl64.Mat3(scaled).Inv())
	allZero := true
	for i, v := range inv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Mat3{}, ErrSingularMatrix
		}
		if v != 0 {
			allZero = false
		}
		inv[i] = v / rowMax[i%3]
	}
	if allZero {
		return Mat3{}, ErrSingularMatrix
	}
	return inv, nil
}

// Compare two matrices element-wise using Epsilon.
func (m Mat3) ApproxEq(m2 Mat3) bool {
	for i := range m {
		if !ApproxEqual(m[i], m2[i]) {
			return false
		}
	}
	return true
}
