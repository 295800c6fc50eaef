// Package geometry provides the coordinate types and affine math shared by
// the editing engine. Everything here is a value type; nothing holds state
// beyond its inputs.
package geometry

import "math"

// Epsilon is the tolerance used when comparing derived coordinates.
const Epsilon = 1e-9

// Point is a 2D point with floating-point coordinates.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Near reports whether two points are within eps of each other on both axes.
func (p Point) Near(other Point, eps float64) bool {
	return math.Abs(p.X-other.X) <= eps && math.Abs(p.Y-other.Y) <= eps
}

// Size is a width/height pair.
type Size struct {
	W float64
	H float64
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle described by its four bounds.
// A well-formed Rect has Left <= Right and Top <= Bottom.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// R builds a Rect from its bounds, normalising swapped edges.
func R(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}.Canon()
}

// RectFromSize returns the rectangle spanning (0,0)-(s.W,s.H).
func RectFromSize(s Size) Rect {
	return Rect{Right: s.W, Bottom: s.H}
}

// RectSpan returns the rectangle spanned by two arbitrary corner points.
func RectSpan(a, b Point) Rect {
	return R(a.X, a.Y, b.X, b.Y)
}

// Canon returns the rectangle with swapped edges put back in order.
func (r Rect) Canon() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.Width(), H: r.Height()} }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.Left, Y: r.Top} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.Right, Y: r.Bottom} }

// Center returns the centre point.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// ContainsRect reports whether other lies entirely inside r within eps.
func (r Rect) ContainsRect(other Rect, eps float64) bool {
	return other.Left >= r.Left-eps && other.Top >= r.Top-eps &&
		other.Right <= r.Right+eps && other.Bottom <= r.Bottom+eps
}

// Translate returns r shifted by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Left: r.Left + d.X, Top: r.Top + d.Y, Right: r.Right + d.X, Bottom: r.Bottom + d.Y}
}

// Intersect returns the overlap of r and other. The result is empty when
// they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		Left:   math.Max(r.Left, other.Left),
		Top:    math.Max(r.Top, other.Top),
		Right:  math.Min(r.Right, other.Right),
		Bottom: math.Min(r.Bottom, other.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// ClampTo moves r inside bounds, shrinking it only where it is larger than
// bounds on that axis.
func (r Rect) ClampTo(bounds Rect) Rect {
	r = r.Canon()
	if r.Width() > bounds.Width() {
		r.Left, r.Right = bounds.Left, bounds.Right
	} else if r.Left < bounds.Left {
		r.Right += bounds.Left - r.Left
		r.Left = bounds.Left
	} else if r.Right > bounds.Right {
		r.Left -= r.Right - bounds.Right
		r.Right = bounds.Right
	}
	if r.Height() > bounds.Height() {
		r.Top, r.Bottom = bounds.Top, bounds.Bottom
	} else if r.Top < bounds.Top {
		r.Bottom += bounds.Top - r.Top
		r.Top = bounds.Top
	} else if r.Bottom > bounds.Bottom {
		r.Top -= r.Bottom - bounds.Bottom
		r.Bottom = bounds.Bottom
	}
	return r
}

// Near reports whether every bound of r is within eps of other's.
func (r Rect) Near(other Rect, eps float64) bool {
	return math.Abs(r.Left-other.Left) <= eps && math.Abs(r.Top-other.Top) <= eps &&
		math.Abs(r.Right-other.Right) <= eps && math.Abs(r.Bottom-other.Bottom) <= eps
}

// FitAspect returns the largest rectangle with width/height == ratio that
// fits inside bounds, centred on it. A non-positive ratio returns bounds.
func FitAspect(bounds Rect, ratio float64) Rect {
	if ratio <= 0 || bounds.Empty() {
		return bounds
	}
	w, h := bounds.Width(), bounds.Height()
	if w/h > ratio {
		w = h * ratio
	} else {
		h = w / ratio
	}
	c := bounds.Center()
	return Rect{Left: c.X - w/2, Top: c.Y - h/2, Right: c.X + w/2, Bottom: c.Y + h/2}
}
