package recording

import "golang.org/x/image/math/f64"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// This represents the transformation:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{
		A: sx, B: 0, C: 0,
		D: 0, E: sy, F: 0,
	}
}

// TRS creates a translate-scale matrix with identity rotation: the unit
// square is scaled uniformly by s and its origin moved to (x, y).
func TRS(x, y, s float64) Matrix {
	return Matrix{
		A: s, B: 0, C: x,
		D: 0, E: s, F: y,
	}
}

// Ortho returns the view-projection that maps the world rectangle
// [left, right] x [bottom, top] onto device pixels of a target whose
// rows are stored top-down. One world unit maps to one texel when the
// rectangle matches the target size, and world y grows upwards.
func Ortho(left, right, bottom, top float64, width, height int) Matrix {
	sx := float64(width) / (right - left)
	sy := float64(height) / (top - bottom)
	return Matrix{
		A: sx, B: 0, C: -left * sx,
		D: 0, E: -sy, F: top * sy,
	}
}

// Multiply multiplies two matrices (m * other).
// The result applies other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Aff3 converts the matrix into the layout used by golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}
