package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestFitTransformLetterboxesNarrowRaster(t *testing.T) {
	m := FitTransform(Sz(500, 1000), Sz(1000, 1000))
	if m.A != 1 || m.E != 1 {
		t.Fatalf("scale = %v/%v, want 1", m.A, m.E)
	}
	if m.C != 250 || m.F != 0 {
		t.Fatalf("offset = (%v,%v), want (250,0)", m.C, m.F)
	}
	p, err := ToImageSpace(m, Pt(250, 0))
	if err != nil {
		t.Fatalf("ToImageSpace: %v", err)
	}
	if !p.Near(Pt(0, 0), Epsilon) {
		t.Fatalf("view (250,0) mapped to %v, want (0,0)", p)
	}
}

func TestFitTransformWideRaster(t *testing.T) {
	m := FitTransform(Sz(2000, 500), Sz(1000, 1000))
	if m.A != 0.5 {
		t.Fatalf("scale = %v, want 0.5", m.A)
	}
	if m.C != 0 || m.F != 375 {
		t.Fatalf("offset = (%v,%v), want (0,375)", m.C, m.F)
	}
	bounds := ImageBoundsInView(m, Sz(2000, 500))
	if !bounds.Near(R(0, 375, 1000, 625), Epsilon) {
		t.Fatalf("bounds = %+v", bounds)
	}
}

func TestFitTransformEmptyIsSingular(t *testing.T) {
	m := FitTransform(Sz(0, 10), Sz(100, 100))
	if _, err := m.Invert(); !errors.Is(err, ErrSingularTransform) {
		t.Fatalf("expected ErrSingularTransform, got %v", err)
	}
	if _, err := ToImageSpace(m, Pt(1, 1)); !errors.Is(err, ErrSingularTransform) {
		t.Fatalf("expected ErrSingularTransform from ToImageSpace, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		raster, view Size
	}{
		{Sz(500, 1000), Sz(1000, 1000)},
		{Sz(4000, 3000), Sz(800, 600)},
		{Sz(123, 457), Sz(1920, 1080)},
		{Sz(1, 1), Sz(7, 3)},
	}
	points := []Point{Pt(0, 0), Pt(10.5, 20.25), Pt(99, 1), Pt(-5, 400)}
	for _, c := range cases {
		m := FitTransform(c.raster, c.view)
		for _, p := range points {
			img, err := ToImageSpace(m, p)
			if err != nil {
				t.Fatalf("ToImageSpace(%v): %v", p, err)
			}
			back := ToViewSpace(m, img)
			if !back.Near(p, 1e-6) {
				t.Errorf("%v in %v/%v round-tripped to %v", p, c.raster, c.view, back)
			}
		}
	}
}

func TestFitTransformFillsOneAxis(t *testing.T) {
	raster, view := Sz(640, 480), Sz(1000, 1000)
	b := ImageBoundsInView(FitTransform(raster, view), raster)
	if math.Abs(b.Width()-view.W) > Epsilon && math.Abs(b.Height()-view.H) > Epsilon {
		t.Fatalf("neither axis fills view: %+v", b)
	}
	if math.Abs(b.Left-(view.W-b.Right)) > Epsilon || math.Abs(b.Top-(view.H-b.Bottom)) > Epsilon {
		t.Fatalf("image is not centred: %+v", b)
	}
}

func TestWithOrigin(t *testing.T) {
	region := R(100, 50, 300, 250)
	m := FitTransform(region.Size(), Sz(400, 400)).WithOrigin(region.Min())
	if p := m.Apply(region.Min()); !p.Near(Pt(0, 0), Epsilon) {
		t.Fatalf("region origin mapped to %v", p)
	}
	if p := m.Apply(region.Max()); !p.Near(Pt(400, 400), Epsilon) {
		t.Fatalf("region max mapped to %v", p)
	}
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if p := inv.Apply(Pt(200, 200)); !p.Near(region.Center(), 1e-9) {
		t.Fatalf("view centre mapped to %v, want %v", p, region.Center())
	}
}

func TestMultiplyOrder(t *testing.T) {
	m := Translate(10, 0).Multiply(Scale(2, 2))
	if p := m.Apply(Pt(1, 1)); !p.Near(Pt(12, 2), Epsilon) {
		t.Fatalf("got %v", p)
	}
	if !nearMatrix(Identity().Multiply(m).Multiply(Identity()), m) {
		t.Fatal("identity changed the product")
	}
}

func nearMatrix(m, o Matrix) bool {
	return math.Abs(m.A-o.A) < Epsilon && math.Abs(m.B-o.B) < Epsilon && math.Abs(m.C-o.C) < Epsilon &&
		math.Abs(m.D-o.D) < Epsilon && math.Abs(m.E-o.E) < Epsilon && math.Abs(m.F-o.F) < Epsilon
}

func TestInvertComposesToIdentity(t *testing.T) {
	m := Matrix{A: 2, B: 0.5, C: 3, D: -1, E: 4, F: 7}
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if !nearMatrix(m.Multiply(inv), Identity()) {
		t.Fatalf("m*inv = %+v", m.Multiply(inv))
	}
}

func TestFitAspect(t *testing.T) {
	got := FitAspect(R(0, 0, 400, 300), 1)
	if !got.Near(R(50, 0, 350, 300), Epsilon) {
		t.Fatalf("square in 400x300 = %+v", got)
	}
	got = FitAspect(R(0, 0, 400, 300), 16.0/9.0)
	if math.Abs(got.Width()/got.Height()-16.0/9.0) > 1e-9 || math.Abs(got.Width()-400) > Epsilon {
		t.Fatalf("16:9 in 400x300 = %+v", got)
	}
	if got := FitAspect(R(0, 0, 10, 10), 0); got != R(0, 0, 10, 10) {
		t.Fatalf("zero ratio changed bounds: %+v", got)
	}
}

func TestClampTo(t *testing.T) {
	bounds := R(0, 0, 100, 100)
	if got := R(-10, 20, 30, 60).ClampTo(bounds); got != R(0, 20, 40, 60) {
		t.Errorf("left overflow: %+v", got)
	}
	if got := R(80, 90, 120, 130).ClampTo(bounds); got != R(60, 60, 100, 100) {
		t.Errorf("bottom-right overflow: %+v", got)
	}
	if got := R(-50, 10, 200, 20).ClampTo(bounds); got != R(0, 10, 100, 20) {
		t.Errorf("oversized width: %+v", got)
	}
}

func TestIntersect(t *testing.T) {
	a := R(0, 0, 50, 50)
	if got := a.Intersect(R(25, 25, 100, 100)); got != R(25, 25, 50, 50) {
		t.Errorf("overlap = %+v", got)
	}
	if got := a.Intersect(R(60, 60, 70, 70)); !got.Empty() {
		t.Errorf("disjoint = %+v, want empty", got)
	}
}
