package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingularTransform is returned when a matrix has no inverse. A fit
// transform over a non-empty raster and view never produces one.
var ErrSingularTransform = errors.New("geometry: singular transform")

// Matrix represents a 2D affine transformation in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// which maps
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Multiply returns m * other, i.e. other is applied first.
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

// Apply maps a point through the matrix.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyVector maps a vector through the matrix, ignoring translation.
func (m Matrix) ApplyVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// MapRect returns the axis-aligned bounds of r after mapping its corners.
func (m Matrix) MapRect(r Rect) Rect {
	a := m.Apply(r.Min())
	b := m.Apply(r.Max())
	c := m.Apply(Point{X: r.Right, Y: r.Top})
	d := m.Apply(Point{X: r.Left, Y: r.Bottom})
	return Rect{
		Left:   math.Min(math.Min(a.X, b.X), math.Min(c.X, d.X)),
		Top:    math.Min(math.Min(a.Y, b.Y), math.Min(c.Y, d.Y)),
		Right:  math.Max(math.Max(a.X, b.X), math.Max(c.X, d.X)),
		Bottom: math.Max(math.Max(a.Y, b.Y), math.Max(c.Y, d.Y)),
	}
}

// ScaleFactor returns the uniform length scale of the matrix, the square
// root of the absolute determinant.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// WithOrigin returns a matrix that maps image point o where m mapped (0,0).
// It is used to fit a sub-region of a raster instead of its full extent.
func (m Matrix) WithOrigin(o Point) Matrix {
	return m.Multiply(Translate(-o.X, -o.Y))
}

// Invert returns the inverse matrix, or ErrSingularTransform.
func (m Matrix) Invert() (Matrix, error) {
	if m.Determinant() == 0 || math.IsNaN(m.Determinant()) {
		return Matrix{}, ErrSingularTransform
	}
	a := mat.NewDense(3, 3, []float64{
		m.A, m.B, m.C,
		m.D, m.E, m.F,
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		// A Condition error still carries a usable inverse unless the
		// matrix is exactly singular.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Matrix{}, ErrSingularTransform
		}
	}
	return Matrix{
		A: inv.At(0, 0), B: inv.At(0, 1), C: inv.At(0, 2),
		D: inv.At(1, 0), E: inv.At(1, 1), F: inv.At(1, 2),
	}, nil
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
