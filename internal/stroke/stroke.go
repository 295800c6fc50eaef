// Package stroke holds committed stroke values and the capture state
// machines that produce them from pointer gestures.
package stroke

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/retouch/internal/geometry"
)

// Kind identifies the shape of a stroke.
type Kind int

const (
	Pen Kind = iota
	Circle
	Square
)

// Kinds lists every stroke kind in display order.
var Kinds = []Kind{Pen, Circle, Square}

func (k Kind) String() string {
	switch k {
	case Pen:
		return "pen"
	case Circle:
		return "circle"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a name such as "pen" or "rect" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pen", "line", "freehand":
		return Pen, nil
	case "circle":
		return Circle, nil
	case "square", "rect", "rectangle":
		return Square, nil
	}
	return Pen, fmt.Errorf("unknown stroke kind %q", s)
}

// Style is the paint applied to a stroke.
type Style struct {
	Color   color.RGBA
	Width   float64
	Opacity float64
}

// DefaultStyle returns the style used when nothing is configured.
func DefaultStyle() Style {
	return Style{Color: color.RGBA{R: 255, A: 255}, Width: 4, Opacity: 1}
}

// Normalize clamps the style into its valid range.
func (s Style) Normalize() Style {
	if s.Width <= 0 {
		s.Width = 1
	}
	if s.Opacity < 0 {
		s.Opacity = 0
	}
	if s.Opacity > 1 {
		s.Opacity = 1
	}
	return s
}

// Paint returns the stroke colour with opacity folded into alpha, as a
// non-premultiplied colour.
func (s Style) Paint() color.NRGBA {
	a := float64(s.Color.A) * s.Opacity
	if a < 0 {
		a = 0
	}
	if a > 255 {
		a = 255
	}
	c := color.NRGBAModel.Convert(s.Color).(color.NRGBA)
	c.A = uint8(a + 0.5)
	return c
}

// Stroke is a finished stroke. Values are never modified after creation;
// the point slice is private and handed out as a copy.
type Stroke struct {
	ID        string
	Kind      Kind
	Center    geometry.Point
	Radius    float64
	Min       geometry.Point
	Max       geometry.Point
	Style     Style
	CreatedAt time.Time

	points []geometry.Point
}

// NewPen builds a freehand stroke from a polyline.
func NewPen(points []geometry.Point, style Style) Stroke {
	pts := make([]geometry.Point, len(points))
	copy(pts, points)
	return Stroke{ID: uuid.NewString(), Kind: Pen, points: pts, Style: style, CreatedAt: time.Now()}
}

// NewCircle builds a circle stroke.
func NewCircle(center geometry.Point, radius float64, style Style) Stroke {
	return Stroke{ID: uuid.NewString(), Kind: Circle, Center: center, Radius: radius, Style: style, CreatedAt: time.Now()}
}

// NewSquare builds a rectangle stroke from two corners in any order.
func NewSquare(a, b geometry.Point, style Style) Stroke {
	r := geometry.RectSpan(a, b)
	return Stroke{ID: uuid.NewString(), Kind: Square, Min: r.Min(), Max: r.Max(), Style: style, CreatedAt: time.Now()}
}

// Points returns a copy of the freehand polyline.
func (s Stroke) Points() []geometry.Point {
	out := make([]geometry.Point, len(s.points))
	copy(out, s.points)
	return out
}

// Len returns the number of polyline points.
func (s Stroke) Len() int { return len(s.points) }

// Bounds returns the area the stroke geometry covers, excluding line width.
func (s Stroke) Bounds() geometry.Rect {
	switch s.Kind {
	case Circle:
		return geometry.Rect{
			Left: s.Center.X - s.Radius, Top: s.Center.Y - s.Radius,
			Right: s.Center.X + s.Radius, Bottom: s.Center.Y + s.Radius,
		}
	case Square:
		return geometry.RectSpan(s.Min, s.Max)
	}
	if len(s.points) == 0 {
		return geometry.Rect{}
	}
	r := geometry.Rect{Left: s.points[0].X, Top: s.points[0].Y, Right: s.points[0].X, Bottom: s.points[0].Y}
	for _, p := range s.points[1:] {
		r.Left = min(r.Left, p.X)
		r.Top = min(r.Top, p.Y)
		r.Right = max(r.Right, p.X)
		r.Bottom = max(r.Bottom, p.Y)
	}
	return r
}

// Transform returns a copy of s with its geometry mapped through m. Lengths
// (radius and line width) are scaled by the matrix scale factor. The ID and
// creation time are preserved.
func (s Stroke) Transform(m geometry.Matrix) Stroke {
	out := s
	f := m.ScaleFactor()
	out.Style.Width = s.Style.Width * f
	switch s.Kind {
	case Pen:
		out.points = make([]geometry.Point, len(s.points))
		for i, p := range s.points {
			out.points[i] = m.Apply(p)
		}
	case Circle:
		out.Center = m.Apply(s.Center)
		out.Radius = s.Radius * f
	case Square:
		r := m.MapRect(geometry.RectSpan(s.Min, s.Max))
		out.Min, out.Max = r.Min(), r.Max()
	}
	return out
}
