package math3d

// Cubic basis matrices. Multiplying one by a geometry vector gives the
// polynomial coefficients (a, b, c, d) of a t³ + b t² + c t + d.
var (
	// HermiteBasis expects the geometry (p0, p1, r0, r1).
	HermiteBasis = Mat4{
		2, -3, 0, 1,
		-2, 3, 0, 0,
		1, -2, 1, 0,
		1, -1, 0, 0,
	}

	// BezierBasis expects the geometry (p0, p1, p2, p3).
	BezierBasis = Mat4{
		-1, 3, -3, 1,
		3, -6, 3, 0,
		-3, 3, 0, 0,
		1, 0, 0, 0,
	}
)

// Cubic holds the coefficients of a one-dimensional cubic polynomial.
type Cubic struct {
	A, B, C, D float64
}

// CubicCoefficients solves basis · g for a single coordinate.
func CubicCoefficients(basis Mat4, g [4]float64) Cubic {
	c := basis.MulVec4(Vec4{g[0], g[1], g[2], g[3]})
	return Cubic{c.X, c.Y, c.Z, c.W}
}

// At evaluates the polynomial with Horner's rule.
func (c Cubic) At(t float64) float64 {
	return t*(t*(t*c.A+c.B)+c.C) + c.D
}
