package clipboard

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 8))
	src.Set(5, 5, color.NRGBA{R: 255, A: 255})

	data, err := encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("pixel = %v", c)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := decode(nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("decode(nil) = %v, want ErrNoImage", err)
	}
	if _, err := decode([]byte("not a png")); err == nil {
		t.Fatal("decode accepted garbage")
	}
}
