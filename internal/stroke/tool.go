package stroke

import "github.com/example/retouch/internal/geometry"

// Tool captures one pointer gesture at a time and turns it into a Stroke.
// Points passed to Begin and Update are in view space. Update, Finish and
// Preview are no-ops while no gesture is being captured.
type Tool interface {
	Kind() Kind
	Begin(p geometry.Point, style Style)
	Update(p geometry.Point)
	// Finish ends the gesture and returns the stroke mapped through inverse
	// (view to image space). ok is false when nothing was captured.
	Finish(inverse geometry.Matrix) (s Stroke, ok bool)
	Cancel()
	// Preview returns the in-progress stroke in view space.
	Preview() (s Stroke, ok bool)
	Capturing() bool
}

// New returns the capture tool for kind. Unknown kinds fall back to Pen.
func New(kind Kind) Tool {
	switch kind {
	case Circle:
		return &circleTool{}
	case Square:
		return &squareTool{}
	default:
		return &penTool{}
	}
}

type gesture struct {
	capturing bool
	anchor    geometry.Point
	style     Style
}

func (g *gesture) begin(p geometry.Point, style Style) {
	g.capturing = true
	g.anchor = p
	g.style = style.Normalize()
}

func (g *gesture) Capturing() bool { return g.capturing }

type penTool struct {
	gesture
	points []geometry.Point
}

func (t *penTool) Kind() Kind { return Pen }

func (t *penTool) Begin(p geometry.Point, style Style) {
	t.begin(p, style)
	t.points = []geometry.Point{p}
}

func (t *penTool) Update(p geometry.Point) {
	if !t.capturing || p == t.points[len(t.points)-1] {
		return
	}
	t.points = append(t.points, p)
}

func (t *penTool) Finish(inverse geometry.Matrix) (Stroke, bool) {
	if !t.capturing {
		return Stroke{}, false
	}
	s := NewPen(t.points, t.style).Transform(inverse)
	t.Cancel()
	return s, true
}

func (t *penTool) Cancel() {
	t.capturing = false
	t.points = nil
}

func (t *penTool) Preview() (Stroke, bool) {
	if !t.capturing {
		return Stroke{}, false
	}
	return NewPen(t.points, t.style), true
}

type circleTool struct {
	gesture
	radius float64
}

func (t *circleTool) Kind() Kind { return Circle }

func (t *circleTool) Begin(p geometry.Point, style Style) {
	t.begin(p, style)
	t.radius = 0
}

func (t *circleTool) Update(p geometry.Point) {
	if !t.capturing {
		return
	}
	t.radius = t.anchor.Distance(p)
}

func (t *circleTool) Finish(inverse geometry.Matrix) (Stroke, bool) {
	if !t.capturing {
		return Stroke{}, false
	}
	s := NewCircle(t.anchor, t.radius, t.style).Transform(inverse)
	t.Cancel()
	return s, true
}

func (t *circleTool) Cancel() {
	t.capturing = false
	t.radius = 0
}

func (t *circleTool) Preview() (Stroke, bool) {
	if !t.capturing {
		return Stroke{}, false
	}
	return NewCircle(t.anchor, t.radius, t.style), true
}

type squareTool struct {
	gesture
	corner geometry.Point
}

func (t *squareTool) Kind() Kind { return Square }

func (t *squareTool) Begin(p geometry.Point, style Style) {
	t.begin(p, style)
	t.corner = p
}

func (t *squareTool) Update(p geometry.Point) {
	if !t.capturing {
		return
	}
	t.corner = p
}

func (t *squareTool) Finish(inverse geometry.Matrix) (Stroke, bool) {
	if !t.capturing {
		return Stroke{}, false
	}
	s := NewSquare(t.anchor, t.corner, t.style).Transform(inverse)
	t.Cancel()
	return s, true
}

func (t *squareTool) Cancel() {
	t.capturing = false
	t.corner = t.anchor
}

func (t *squareTool) Preview() (Stroke, bool) {
	if !t.capturing {
		return Stroke{}, false
	}
	return NewSquare(t.anchor, t.corner, t.style), true
}
