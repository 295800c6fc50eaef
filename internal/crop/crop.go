// Package crop implements the interactive crop rectangle: seeding per mode,
// corner and body hit testing, and bounds-clamped move and resize with an
// optional fixed aspect ratio. All coordinates are view space until Apply.
package crop

import (
	"fmt"
	"math"
	"strings"

	"github.com/example/retouch/internal/geometry"
)

const (
	// DefaultHitRadius is the distance in view pixels within which a press
	// grabs a corner handle.
	DefaultHitRadius = 24.0
	// DefaultMinSize is the smallest width or height a resize may produce.
	DefaultMinSize = 48.0

	ratioEpsilon = 1e-6
)

// Mode selects the shape constraint of the crop rectangle.
type Mode int

const (
	Freeform Mode = iota
	Square
	Portrait
	Landscape
)

// Modes lists every crop mode in cycling order.
var Modes = []Mode{Freeform, Square, Portrait, Landscape}

func (m Mode) String() string {
	switch m {
	case Freeform:
		return "freeform"
	case Square:
		return "square"
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Ratio returns width/height for constrained modes and 0 for Freeform.
func (m Mode) Ratio() float64 {
	switch m {
	case Square:
		return 1
	case Portrait:
		return 9.0 / 16.0
	case Landscape:
		return 16.0 / 9.0
	default:
		return 0
	}
}

// Next returns the mode after m in cycling order.
func (m Mode) Next() Mode {
	return Modes[(int(m)+1)%len(Modes)]
}

// ParseMode converts a mode name, or a ratio such as "16:9", to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free", "freeform":
		return Freeform, nil
	case "square", "1:1":
		return Square, nil
	case "portrait", "9:16":
		return Portrait, nil
	case "landscape", "16:9":
		return Landscape, nil
	}
	return Freeform, fmt.Errorf("unknown crop mode %q", s)
}

// State is the manipulator's interaction state.
type State int

const (
	Inactive State = iota
	ActiveIdle
	DraggingMove
	DraggingResize
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case ActiveIdle:
		return "idle"
	case DraggingMove:
		return "move"
	case DraggingResize:
		return "resize"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Handle identifies a corner of the crop rectangle.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
)

// Corners lists the corner handles in the order HandleRects returns them.
var Corners = []Handle{HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft}

func (h Handle) corner(r geometry.Rect) geometry.Point {
	switch h {
	case HandleTopLeft:
		return geometry.Pt(r.Left, r.Top)
	case HandleTopRight:
		return geometry.Pt(r.Right, r.Top)
	case HandleBottomRight:
		return geometry.Pt(r.Right, r.Bottom)
	case HandleBottomLeft:
		return geometry.Pt(r.Left, r.Bottom)
	}
	return r.Center()
}

// opposite returns the handle diagonally across from h.
func (h Handle) opposite() Handle {
	switch h {
	case HandleTopLeft:
		return HandleBottomRight
	case HandleTopRight:
		return HandleBottomLeft
	case HandleBottomRight:
		return HandleTopLeft
	case HandleBottomLeft:
		return HandleTopRight
	}
	return HandleNone
}

// direction returns the sign of growth on each axis when h moves away from
// its opposite corner.
func (h Handle) direction() (sx, sy float64) {
	switch h {
	case HandleTopLeft:
		return -1, -1
	case HandleTopRight:
		return 1, -1
	case HandleBottomRight:
		return 1, 1
	case HandleBottomLeft:
		return -1, 1
	}
	return 0, 0
}

// Option configures a Manipulator.
type Option func(*Manipulator)

// WithHitRadius sets the corner grab radius in view pixels.
func WithHitRadius(r float64) Option {
	return func(m *Manipulator) {
		if r > 0 {
			m.hitRadius = r
		}
	}
}

// WithMinSize sets the minimum crop width and height in view pixels.
func WithMinSize(s float64) Option {
	return func(m *Manipulator) {
		if s > 0 {
			m.minSize = s
		}
	}
}

// Manipulator owns the active crop rectangle. The zero value is not usable;
// create one with New.
type Manipulator struct {
	mode   Mode
	state  State
	handle Handle
	rect   geometry.Rect
	bounds geometry.Rect

	start     geometry.Point
	startRect geometry.Rect

	hitRadius float64
	minSize   float64
}

// New returns an inactive manipulator.
func New(opts ...Option) *Manipulator {
	m := &Manipulator{hitRadius: DefaultHitRadius, minSize: DefaultMinSize}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Enter activates the manipulator in mode over the visible image bounds
// and seeds the default rectangle for that mode. It returns false when the
// bounds are empty.
func (m *Manipulator) Enter(mode Mode, bounds geometry.Rect) bool {
	m.clear()
	bounds = bounds.Canon()
	if bounds.Empty() {
		return false
	}
	m.mode = mode
	m.bounds = bounds
	m.rect = seed(mode, bounds)
	m.state = ActiveIdle
	return true
}

func seed(mode Mode, bounds geometry.Rect) geometry.Rect {
	r := bounds
	if ratio := mode.Ratio(); ratio > 0 {
		r = geometry.FitAspect(bounds, ratio)
	}
	return r.ClampTo(bounds)
}

// Active reports whether a crop rectangle exists.
func (m *Manipulator) Active() bool { return m.state != Inactive }

// State returns the interaction state.
func (m *Manipulator) State() State { return m.state }

// Mode returns the current mode.
func (m *Manipulator) Mode() Mode { return m.mode }

// Handle returns the corner being dragged, or HandleNone.
func (m *Manipulator) Handle() Handle { return m.handle }

// Bounds returns the image bounds the rectangle is clamped to.
func (m *Manipulator) Bounds() geometry.Rect { return m.bounds }

// Rect returns the current view-space rectangle.
func (m *Manipulator) Rect() (geometry.Rect, bool) {
	if m.state == Inactive {
		return geometry.Rect{}, false
	}
	return m.rect, true
}

// HandleRects returns the square hit areas around each corner in Corners
// order, sized by the hit radius.
func (m *Manipulator) HandleRects() []geometry.Rect {
	if m.state == Inactive {
		return nil
	}
	out := make([]geometry.Rect, 0, len(Corners))
	hs := m.hitRadius / 2
	for _, h := range Corners {
		c := h.corner(m.rect)
		out = append(out, geometry.Rect{Left: c.X - hs, Top: c.Y - hs, Right: c.X + hs, Bottom: c.Y + hs})
	}
	return out
}

// HitTest returns the corner within the hit radius closest to p, or
// HandleNone.
func (m *Manipulator) HitTest(p geometry.Point) Handle {
	best, bestDist := HandleNone, math.Inf(1)
	for _, h := range Corners {
		d := p.Distance(h.corner(m.rect))
		if d <= m.hitRadius && d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

// Press starts a drag at p. A corner hit starts a resize, a hit inside the
// rectangle starts a move and anything else is ignored.
func (m *Manipulator) Press(p geometry.Point) bool {
	if m.state == Inactive {
		return false
	}
	h := m.HitTest(p)
	switch {
	case h != HandleNone:
		m.state = DraggingResize
		m.handle = h
	case m.rect.Contains(p):
		m.state = DraggingMove
		m.handle = HandleNone
	default:
		return false
	}
	m.start = p
	m.startRect = m.rect
	return true
}

// Drag updates the rectangle for the pointer at p. Geometry is always
// derived from the rectangle at press time plus the total delta.
func (m *Manipulator) Drag(p geometry.Point) bool {
	d := p.Sub(m.start)
	switch m.state {
	case DraggingMove:
		m.rect = m.moved(d)
	case DraggingResize:
		m.rect = m.resized(d)
	default:
		return false
	}
	return true
}

// Release ends a drag.
func (m *Manipulator) Release() {
	if m.state == DraggingMove || m.state == DraggingResize {
		m.state = ActiveIdle
		m.handle = HandleNone
	}
}

// Apply maps the rectangle through inverse into image space and deactivates
// the manipulator.
func (m *Manipulator) Apply(inverse geometry.Matrix) (geometry.Rect, bool) {
	if m.state == Inactive {
		return geometry.Rect{}, false
	}
	r := inverse.MapRect(m.rect)
	m.clear()
	return r, true
}

// Cancel deactivates the manipulator without producing a result.
func (m *Manipulator) Cancel() {
	m.clear()
}

// SetBounds rescales the rectangle from the old bounds into new ones, as
// happens when the viewport is resized, and ends any drag in progress.
func (m *Manipulator) SetBounds(bounds geometry.Rect) {
	bounds = bounds.Canon()
	if m.state == Inactive {
		return
	}
	if bounds.Empty() {
		m.clear()
		return
	}
	old := m.bounds
	m.bounds = bounds
	m.Release()
	if old.Empty() {
		m.rect = seed(m.mode, bounds)
		return
	}
	sx := bounds.Width() / old.Width()
	sy := bounds.Height() / old.Height()
	t := geometry.Translate(bounds.Left, bounds.Top).
		Multiply(geometry.Scale(sx, sy)).
		Multiply(geometry.Translate(-old.Left, -old.Top))
	r := t.MapRect(m.rect).ClampTo(bounds)
	if ratio := m.mode.Ratio(); ratio > 0 && math.Abs(r.Width()/r.Height()-ratio) > ratioEpsilon {
		r = geometry.FitAspect(r, ratio)
	}
	m.rect = r
}

func (m *Manipulator) clear() {
	m.state = Inactive
	m.handle = HandleNone
	m.rect = geometry.Rect{}
	m.startRect = geometry.Rect{}
}

// moved translates the press-time rectangle by d, clipping each axis so no
// edge leaves the bounds.
func (m *Manipulator) moved(d geometry.Point) geometry.Rect {
	r, b := m.startRect, m.bounds
	d.X = clampDelta(d.X, b.Left-r.Left, b.Right-r.Right)
	d.Y = clampDelta(d.Y, b.Top-r.Top, b.Bottom-r.Bottom)
	return r.Translate(d).ClampTo(b)
}

func clampDelta(d, lo, hi float64) float64 {
	if lo > hi {
		return lo
	}
	return math.Max(lo, math.Min(hi, d))
}

// resized moves the dragged corner by d while the opposite corner stays
// fixed, then applies the size floor, the aspect ratio and the bounds.
func (m *Manipulator) resized(d geometry.Point) geometry.Rect {
	b := m.bounds
	anchor := m.handle.opposite().corner(m.startRect)
	moving := m.handle.corner(m.startRect).Add(d)
	sx, sy := m.handle.direction()

	w := math.Max(sx*(moving.X-anchor.X), 0)
	h := math.Max(sy*(moving.Y-anchor.Y), 0)

	var maxW, maxH float64
	if sx > 0 {
		maxW = b.Right - anchor.X
	} else {
		maxW = anchor.X - b.Left
	}
	if sy > 0 {
		maxH = b.Bottom - anchor.Y
	} else {
		maxH = anchor.Y - b.Top
	}
	minW := math.Min(m.minSize, b.Width())
	minH := math.Min(m.minSize, b.Height())

	w = math.Max(w, minW)
	h = math.Max(h, minH)
	if ratio := m.mode.Ratio(); ratio > 0 {
		if w/h > ratio {
			w = h * ratio
		} else {
			h = w / ratio
		}
		if k := math.Max(minW/w, minH/h); k > 1 {
			w, h = w*k, h*k
		}
		if k := math.Min(maxW/w, maxH/h); k < 1 {
			w, h = w*k, h*k
		}
	} else {
		w = math.Min(w, maxW)
		h = math.Min(h, maxH)
	}

	far := geometry.Pt(anchor.X+sx*w, anchor.Y+sy*h)
	return geometry.RectSpan(anchor, far)
}
