package input

import "math"

// Mat is a 2D affine transform: x' = A*x + B*y + E, y' = C*x + D*y + F.
// Composing and inverting Mats is how §4.5's coordinate-transform chain
// ("must be composable and reversible for hit testing") is implemented.
type Mat struct {
	A, B, C, D, E, F float64
}

// Identity is the no-op transform.
var Identity = Mat{A: 1, D: 1}

// Apply maps a point forward through the transform.
func (m Mat) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.E, m.C*x + m.D*y + m.F
}

// Then composes m followed by n: applying the result equals applying m
// then n (n ∘ m).
func (m Mat) Then(n Mat) Mat {
	return Mat{
		A: n.A*m.A + n.B*m.C,
		B: n.A*m.B + n.B*m.D,
		C: n.C*m.A + n.D*m.C,
		D: n.C*m.B + n.D*m.D,
		E: n.A*m.E + n.B*m.F + n.E,
		F: n.C*m.E + n.D*m.F + n.F,
	}
}

// Inverse returns the transform that undoes m. For a singular m (zero
// determinant, e.g. a zero scale) it returns Identity.
func (m Mat) Inverse() Mat {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity
	}
	ia, ib := m.D/det, -m.B/det
	ic, id := -m.C/det, m.A/det
	ie := -(ia*m.E + ib*m.F)
	iff := -(ic*m.E + id*m.F)
	return Mat{A: ia, B: ib, C: ic, D: id, E: ie, F: iff}
}

func Translate(dx, dy float64) Mat { return Mat{A: 1, D: 1, E: dx, F: dy} }
func Scale(sx, sy float64) Mat     { return Mat{A: sx, D: sy} }

// BufferTransformMat returns the matrix for one of the eight
// wl_output.transform values, for a buffer of the given (pre-transform)
// width/height.
func BufferTransformMat(t int, w, h float64) Mat {
	switch t {
	case 1: // 90 CCW
		return Mat{A: 0, B: -1, C: 1, D: 0, E: h, F: 0}
	case 2: // 180
		return Mat{A: -1, D: -1, E: w, F: h}
	case 3: // 270
		return Mat{A: 0, B: 1, C: -1, D: 0, E: 0, F: w}
	case 4: // flipped
		return Mat{A: -1, D: 1, E: w}
	case 5: // flipped + 90
		return Mat{A: 0, B: 1, C: 1, D: 0}
	case 6: // flipped + 180
		return Mat{A: 1, D: -1, F: h}
	case 7: // flipped + 270
		return Mat{A: 0, B: -1, C: -1, D: 0, E: h, F: w}
	default:
		return Identity
	}
}

// Chain is the full global-to-buffer transform pipeline of §4.5: output
// layout translation, output scale, buffer transform, buffer scale, and
// viewport destination mapping, composed in that order.
type Chain struct {
	OutputLayout    Mat // translation placing the output's origin in global space
	OutputScale     Mat
	BufferTransform Mat
	BufferScale     Mat
	Viewport        Mat // identity when no viewport destination is set
}

// Forward maps surface-local coordinates to global coordinates.
func (c Chain) Forward() Mat {
	return c.Viewport.Then(c.BufferScale).Then(c.BufferTransform).Then(c.OutputScale).Then(c.OutputLayout)
}

// Inverse maps global coordinates to surface-local coordinates: the
// precise inversion order required by §4.5.
func (c Chain) Inverse() Mat {
	return c.Forward().Inverse()
}

// GlobalToLocal is a convenience wrapper for hit testing.
func (c Chain) GlobalToLocal(x, y float64) (float64, float64) {
	return c.Inverse().Apply(x, y)
}

// Round is a small helper for tests/debug formatting.
func Round(v float64) float64 { return math.Round(v*1000) / 1000 }
