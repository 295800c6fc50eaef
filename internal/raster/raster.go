// Package raster wraps decoded images in shared, read-only handles and
// composes strokes and crops onto them for export and display.
package raster

import (
	"errors"
	"image"
	"math"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/geometry"
)

// ErrEmpty is returned for images without pixels.
var ErrEmpty = errors.New("raster: empty image")

// Handle is an immutable raster shared between image states. Pixels must
// not be written through Image; new rasters are made with New or Adopt.
type Handle struct {
	id  uuid.UUID
	img *image.RGBA
}

// New copies img into a zero-origin RGBA raster.
func New(img image.Image) (*Handle, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmpty
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return &Handle{id: uuid.New(), img: dst}, nil
}

// Adopt takes ownership of img without copying. The caller must not
// modify it afterwards.
func Adopt(img *image.RGBA) (*Handle, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmpty
	}
	if img.Bounds().Min != (image.Point{}) {
		return New(img)
	}
	return &Handle{id: uuid.New(), img: img}, nil
}

// ID identifies the pixel data. Handles sharing pixels share an ID.
func (h *Handle) ID() uuid.UUID { return h.id }

// Image returns the pixels for reading.
func (h *Handle) Image() *image.RGBA { return h.img }

// Bounds returns the zero-origin pixel bounds.
func (h *Handle) Bounds() image.Rectangle { return h.img.Bounds() }

// Size returns the raster dimensions.
func (h *Handle) Size() geometry.Size {
	b := h.img.Bounds()
	return geometry.Sz(float64(b.Dx()), float64(b.Dy()))
}

// Clone returns a writable copy of the pixels.
func (h *Handle) Clone() *image.RGBA {
	out := image.NewRGBA(h.img.Bounds())
	copy(out.Pix, h.img.Pix)
	return out
}

// PixelRect rounds r outward to whole pixels and clips it to bounds.
func PixelRect(r geometry.Rect, bounds image.Rectangle) image.Rectangle {
	r = r.Canon()
	out := image.Rect(int(math.Floor(r.Left)), int(math.Floor(r.Top)), int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom)))
	return out.Intersect(bounds)
}
