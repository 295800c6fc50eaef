package adjust

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestIdentityMatrix(t *testing.T) {
	m := Identity().Matrix()
	want := [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
	for i := range want {
		if math.Abs(m[i]-want[i]) > 1e-12 {
			t.Fatalf("identity matrix[%d] = %v, want %v", i, m[i], want[i])
		}
	}
	if !Identity().IsIdentity() {
		t.Fatal("Identity is not identity")
	}
}

func TestCompositionOrder(t *testing.T) {
	// Zero saturation then zero contrast gives mid grey; brightness then
	// shifts it. If brightness ran before contrast the shift would vanish.
	m := Params{Brightness: 0.2, Contrast: 0, Saturation: 0}.Matrix()
	r := m[0]*255 + m[1]*0 + m[2]*0 + m[3]*255 + m[4]
	want := 127.5 + 0.2*255
	if math.Abs(r-want) > 1e-9 {
		t.Fatalf("red = %v, want %v", r, want)
	}
}

func TestClamp(t *testing.T) {
	p := Params{Brightness: 3, Contrast: -1, Saturation: math.NaN()}.Clamp()
	if p.Brightness != 1 || p.Contrast != 0 || p.Saturation != 0 {
		t.Fatalf("clamped = %+v", p)
	}
}

func TestApplyBrightness(t *testing.T) {
	src := solid(10, 100, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	out, err := Apply(context.Background(), src, Params{Brightness: 0.1, Contrast: 1, Saturation: 1})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := out.RGBAAt(5, 99)
	if got.R != 126 || got.G != 126 || got.B != 126 || got.A != 255 {
		t.Fatalf("pixel = %+v", got)
	}
	if src.RGBAAt(5, 99).R != 100 {
		t.Fatal("source raster modified")
	}
}

func TestApplyDesaturates(t *testing.T) {
	src := solid(4, 4, color.RGBA{R: 255, A: 255})
	out, err := Apply(context.Background(), src, Params{Contrast: 1, Saturation: 0})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := out.RGBAAt(0, 0)
	if got.R != got.G || got.G != got.B {
		t.Fatalf("not grey: %+v", got)
	}
	if got.R != 54 {
		t.Fatalf("luma = %d, want 54", got.R)
	}
}

func TestApplyKeepsTransparentPixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	out, err := Apply(context.Background(), src, Params{Brightness: 1, Contrast: 1, Saturation: 1})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.RGBAAt(1, 1) != (color.RGBA{}) {
		t.Fatalf("transparent pixel changed: %+v", out.RGBAAt(1, 1))
	}
}

func TestApplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Apply(ctx, solid(8, 8, color.RGBA{A: 255}), Params{Brightness: 0.5, Contrast: 1, Saturation: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
