package crop

import (
	"math"
	"math/rand"
	"testing"

	"github.com/example/retouch/internal/geometry"
)

const eps = 1e-6

func checkInvariants(t *testing.T, m *Manipulator) {
	t.Helper()
	r, ok := m.Rect()
	if !ok {
		t.Fatal("manipulator inactive")
	}
	if !m.Bounds().ContainsRect(r, eps) {
		t.Fatalf("rect %+v escapes bounds %+v", r, m.Bounds())
	}
	if ratio := m.Mode().Ratio(); ratio > 0 {
		if got := r.Width() / r.Height(); math.Abs(got-ratio) > eps {
			t.Fatalf("%v ratio = %v, want %v (rect %+v)", m.Mode(), got, ratio, r)
		}
	}
}

func TestSquareSeedCentred(t *testing.T) {
	bounds := geometry.R(-200, -150, 200, 150)
	m := New()
	if !m.Enter(Square, bounds) {
		t.Fatal("Enter failed")
	}
	r, _ := m.Rect()
	if math.Abs(r.Width()-300) > eps || math.Abs(r.Height()-300) > eps {
		t.Fatalf("side = %vx%v, want 300", r.Width(), r.Height())
	}
	if !r.Center().Near(geometry.Pt(0, 0), eps) {
		t.Fatalf("centre = %v", r.Center())
	}
}

func TestSeedPerMode(t *testing.T) {
	bounds := geometry.R(0, 0, 400, 300)
	cases := map[Mode]geometry.Rect{
		Freeform:  bounds,
		Square:    geometry.R(50, 0, 350, 300),
		Portrait:  geometry.R(200-84.375, 0, 200+84.375, 300),
		Landscape: geometry.R(0, 37.5, 400, 262.5),
	}
	for mode, want := range cases {
		m := New()
		m.Enter(mode, bounds)
		r, _ := m.Rect()
		if !r.Near(want, eps) {
			t.Errorf("%v seed = %+v, want %+v", mode, r, want)
		}
		checkInvariants(t, m)
	}
}

func TestEnterEmptyBounds(t *testing.T) {
	m := New()
	if m.Enter(Freeform, geometry.Rect{}) {
		t.Fatal("Enter accepted empty bounds")
	}
	if m.Active() {
		t.Fatal("manipulator active with empty bounds")
	}
}

func TestMoveClampsPerAxis(t *testing.T) {
	m := New()
	m.Enter(Square, geometry.R(0, 0, 400, 300))
	if !m.Press(geometry.Pt(200, 150)) {
		t.Fatal("press inside rect ignored")
	}
	if m.State() != DraggingMove {
		t.Fatalf("state = %v, want move", m.State())
	}
	m.Drag(geometry.Pt(300, 200))
	r, _ := m.Rect()
	if !r.Near(geometry.R(100, 0, 400, 300), eps) {
		t.Fatalf("moved rect = %+v", r)
	}
	m.Release()
	if m.State() != ActiveIdle {
		t.Fatalf("state after release = %v", m.State())
	}
}

func TestPressOutsideIgnored(t *testing.T) {
	m := New()
	m.Enter(Square, geometry.R(0, 0, 400, 300))
	if m.Press(geometry.Pt(5, 150)) {
		t.Fatal("press outside rect accepted")
	}
	if m.State() != ActiveIdle {
		t.Fatalf("state = %v", m.State())
	}
	if m.Drag(geometry.Pt(50, 50)) {
		t.Fatal("drag without press accepted")
	}
}

func TestResizeFreeformCorner(t *testing.T) {
	m := New()
	m.Enter(Freeform, geometry.R(0, 0, 400, 300))
	if !m.Press(geometry.Pt(395, 295)) || m.Handle() != HandleBottomRight {
		t.Fatalf("expected bottom-right grab, got %v", m.Handle())
	}
	m.Drag(geometry.Pt(300, 200))
	r, _ := m.Rect()
	if !r.Near(geometry.R(0, 0, 305, 205), eps) {
		t.Fatalf("resized = %+v", r)
	}
	m.Drag(geometry.Pt(900, 900))
	r, _ = m.Rect()
	if !r.Near(geometry.R(0, 0, 400, 300), eps) {
		t.Fatalf("resize past bounds = %+v", r)
	}
}

func TestResizeEnforcesMinimum(t *testing.T) {
	m := New()
	m.Enter(Freeform, geometry.R(0, 0, 400, 300))
	m.Press(geometry.Pt(400, 300))
	m.Drag(geometry.Pt(-100, -100))
	r, _ := m.Rect()
	if !r.Near(geometry.R(0, 0, DefaultMinSize, DefaultMinSize), eps) {
		t.Fatalf("collapsed rect = %+v", r)
	}
}

func TestMinimumShrinksToSmallBounds(t *testing.T) {
	m := New()
	m.Enter(Landscape, geometry.R(0, 0, 40, 30))
	m.Press(geometry.Pt(40, 30))
	m.Drag(geometry.Pt(0, 0))
	checkInvariants(t, m)
}

func TestClosestCornerWins(t *testing.T) {
	m := New(WithHitRadius(100), WithMinSize(10))
	m.Enter(Freeform, geometry.R(0, 0, 60, 60))
	if h := m.HitTest(geometry.Pt(20, 25)); h != HandleTopLeft {
		t.Fatalf("hit = %v, want top-left", h)
	}
	if h := m.HitTest(geometry.Pt(50, 45)); h != HandleBottomRight {
		t.Fatalf("hit = %v, want bottom-right", h)
	}
}

func TestAspectHeldUnderRandomDrags(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bounds := geometry.R(20, 40, 820, 640)
	for _, mode := range Modes {
		m := New()
		m.Enter(mode, bounds)
		for i := 0; i < 500; i++ {
			r, _ := m.Rect()
			var start geometry.Point
			if rng.Intn(2) == 0 {
				start = r.Center()
			} else {
				start = Corners[rng.Intn(len(Corners))].corner(r)
			}
			if !m.Press(start) {
				t.Fatalf("%v: press at %v ignored", mode, start)
			}
			for j := 0; j < 4; j++ {
				m.Drag(geometry.Pt(start.X+rng.Float64()*1200-600, start.Y+rng.Float64()*1200-600))
				checkInvariants(t, m)
			}
			m.Release()
		}
	}
}

func TestApplyMapsToImageSpace(t *testing.T) {
	fit := geometry.FitTransform(geometry.Sz(500, 1000), geometry.Sz(1000, 1000))
	inv, err := fit.Invert()
	if err != nil {
		t.Fatal(err)
	}
	m := New()
	m.Enter(Freeform, geometry.ImageBoundsInView(fit, geometry.Sz(500, 1000)))
	r, ok := m.Apply(inv)
	if !ok {
		t.Fatal("Apply returned nothing")
	}
	if !r.Near(geometry.R(0, 0, 500, 1000), eps) {
		t.Fatalf("image rect = %+v", r)
	}
	if m.Active() {
		t.Fatal("still active after apply")
	}
	if _, ok := m.Apply(inv); ok {
		t.Fatal("second Apply produced a rect")
	}
}

func TestCancelClears(t *testing.T) {
	m := New()
	m.Enter(Portrait, geometry.R(0, 0, 100, 100))
	m.Cancel()
	if _, ok := m.Rect(); ok {
		t.Fatal("rect survived cancel")
	}
}

func TestSetBoundsRescales(t *testing.T) {
	m := New()
	m.Enter(Landscape, geometry.R(0, 0, 400, 300))
	m.SetBounds(geometry.R(100, 100, 300, 250))
	r, _ := m.Rect()
	if !r.Near(geometry.R(100, 118.75, 300, 231.25), eps) {
		t.Fatalf("rescaled = %+v", r)
	}
	checkInvariants(t, m)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"free": Freeform, "1:1": Square, "Portrait": Portrait, "16:9": Landscape} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if Landscape.Next() != Freeform {
		t.Errorf("Landscape.Next() = %v", Landscape.Next())
	}
}
