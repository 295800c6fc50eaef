package stroke

import (
	"image/color"
	"math"
	"testing"

	"github.com/example/retouch/internal/geometry"
)

func fitInverse(t *testing.T, raster, view geometry.Size) geometry.Matrix {
	t.Helper()
	inv, err := geometry.FitTransform(raster, view).Invert()
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	return inv
}

func TestPenAppendsAndMapsToImageSpace(t *testing.T) {
	inv := fitInverse(t, geometry.Sz(500, 1000), geometry.Sz(1000, 1000))
	tool := New(Pen)
	tool.Begin(geometry.Pt(250, 0), DefaultStyle())
	tool.Update(geometry.Pt(260, 10))
	tool.Update(geometry.Pt(270, 20))
	s, ok := tool.Finish(inv)
	if !ok {
		t.Fatal("expected a finished stroke")
	}
	if tool.Capturing() {
		t.Fatal("tool still capturing after finish")
	}
	pts := s.Points()
	if len(pts) != 3 {
		t.Fatalf("got %d points, want 3", len(pts))
	}
	want := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 10), geometry.Pt(20, 20)}
	for i := range want {
		if !pts[i].Near(want[i], 1e-9) {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
	if s.ID == "" {
		t.Error("stroke has no id")
	}
}

func TestPointsReturnsCopy(t *testing.T) {
	s := NewPen([]geometry.Point{geometry.Pt(1, 2)}, DefaultStyle())
	pts := s.Points()
	pts[0] = geometry.Pt(99, 99)
	if got := s.Points()[0]; got != geometry.Pt(1, 2) {
		t.Fatalf("stroke mutated through Points: %v", got)
	}
}

func TestCircleRecomputesFromAnchor(t *testing.T) {
	tool := New(Circle)
	tool.Begin(geometry.Pt(100, 100), DefaultStyle())
	tool.Update(geometry.Pt(200, 100))
	tool.Update(geometry.Pt(100, 130))
	p, ok := tool.Preview()
	if !ok || p.Radius != 30 {
		t.Fatalf("preview radius = %v (ok=%v), want 30", p.Radius, ok)
	}
	s, ok := tool.Finish(geometry.Scale(2, 2))
	if !ok {
		t.Fatal("expected stroke")
	}
	if s.Center != geometry.Pt(200, 200) || s.Radius != 60 {
		t.Fatalf("got center %v radius %v", s.Center, s.Radius)
	}
}

func TestSquareSpansAnchorAndCurrent(t *testing.T) {
	tool := New(Square)
	tool.Begin(geometry.Pt(50, 60), DefaultStyle())
	tool.Update(geometry.Pt(10, 10))
	tool.Update(geometry.Pt(20, 30))
	s, ok := tool.Finish(geometry.Identity())
	if !ok {
		t.Fatal("expected stroke")
	}
	if s.Min != geometry.Pt(20, 30) || s.Max != geometry.Pt(50, 60) {
		t.Fatalf("got %v-%v", s.Min, s.Max)
	}
}

func TestCancelDiscards(t *testing.T) {
	for _, k := range Kinds {
		tool := New(k)
		tool.Begin(geometry.Pt(1, 1), DefaultStyle())
		tool.Update(geometry.Pt(5, 5))
		tool.Cancel()
		if tool.Capturing() {
			t.Errorf("%v: still capturing after cancel", k)
		}
		if _, ok := tool.Finish(geometry.Identity()); ok {
			t.Errorf("%v: finish after cancel produced a stroke", k)
		}
	}
}

func TestIdleEventsAreIgnored(t *testing.T) {
	for _, k := range Kinds {
		tool := New(k)
		tool.Update(geometry.Pt(3, 3))
		if _, ok := tool.Preview(); ok {
			t.Errorf("%v: preview while idle", k)
		}
		if _, ok := tool.Finish(geometry.Identity()); ok {
			t.Errorf("%v: finish while idle", k)
		}
	}
}

func TestStyleSnapshot(t *testing.T) {
	style := Style{Color: color.RGBA{G: 255, A: 255}, Width: 3, Opacity: 0.5}
	tool := New(Pen)
	tool.Begin(geometry.Pt(0, 0), style)
	style.Width = 40
	s, _ := tool.Finish(geometry.Identity())
	if s.Style.Width != 3 || s.Style.Opacity != 0.5 {
		t.Fatalf("style = %+v", s.Style)
	}
}

func TestTransformScalesWidth(t *testing.T) {
	s := NewSquare(geometry.Pt(0, 0), geometry.Pt(10, 10), Style{Width: 4, Opacity: 1})
	got := s.Transform(geometry.Scale(0.5, 0.5))
	if math.Abs(got.Style.Width-2) > 1e-9 {
		t.Fatalf("width = %v, want 2", got.Style.Width)
	}
	if got.ID != s.ID {
		t.Fatal("transform changed the id")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"pen": Pen, "Circle": Circle, "rect": Square, "square": Square} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("spray"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPaintFoldsOpacity(t *testing.T) {
	c := Style{Color: color.RGBA{R: 255, A: 255}, Opacity: 0.5}.Paint()
	if c.R != 255 || c.A != 128 {
		t.Fatalf("paint = %+v", c)
	}
}
