package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/stroke"
)

// DrawStrokes renders strokes, mapped through m, over a copy of dst and
// returns the result. dst itself is left untouched, and so is every pixel
// the strokes do not cover.
func DrawStrokes(ctx context.Context, dst image.Image, strokes []stroke.Stroke, m geometry.Matrix) (*image.RGBA, error) {
	out := toRGBA(dst)
	if len(strokes) == 0 {
		return out, nil
	}
	b := out.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	defer dc.Close()
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for i, s := range strokes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !m.IsIdentity() {
			s = s.Transform(m)
		}
		if err := drawStroke(dc, s); err != nil {
			return nil, fmt.Errorf("stroke %d (%s): %w", i, s.Kind, err)
		}
	}
	layer := dc.Image()
	xdraw.Draw(out, b, layer, layer.Bounds().Min, xdraw.Over)
	return out, nil
}

func drawStroke(dc *gg.Context, s stroke.Stroke) error {
	c := s.Style.Paint()
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
	dc.SetLineWidth(s.Style.Width)
	switch s.Kind {
	case stroke.Pen:
		pts := s.Points()
		switch len(pts) {
		case 0:
			return nil
		case 1:
			dc.DrawCircle(pts[0].X, pts[0].Y, s.Style.Width/2)
			return dc.Fill()
		}
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
	case stroke.Circle:
		if s.Radius <= 0 {
			return nil
		}
		dc.DrawCircle(s.Center.X, s.Center.Y, s.Radius)
	case stroke.Square:
		r := geometry.RectSpan(s.Min, s.Max)
		dc.DrawRectangle(r.Left, r.Top, r.Width(), r.Height())
	}
	return dc.Stroke()
}

// Crop copies the part of img inside r into a new zero-origin raster. r is
// clipped to the image first.
func Crop(img *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if !r.Empty() {
		xdraw.Copy(out, image.Point{}, img, r, xdraw.Src, nil)
	}
	return out
}

// Flatten composes base, the strokes (in base coordinates) and the crop
// region into one raster for export. An empty region means the whole image.
func Flatten(ctx context.Context, base *Handle, strokes []stroke.Stroke, region geometry.Rect) (*image.RGBA, error) {
	if base == nil {
		return nil, ErrEmpty
	}
	out, err := DrawStrokes(ctx, base.Image(), strokes, geometry.Identity())
	if err != nil {
		return nil, err
	}
	if region.Empty() {
		return out, nil
	}
	pr := PixelRect(region, out.Bounds())
	if pr == out.Bounds() {
		return out, nil
	}
	return Crop(out, pr), nil
}

// Scale draws the sr part of src into dr of dst with bilinear filtering,
// as used for on-screen display.
func Scale(dst *image.RGBA, dr image.Rectangle, src image.Image, sr image.Rectangle) {
	xdraw.ApproxBiLinear.Scale(dst, dr, src, sr, xdraw.Over, nil)
}

// Checker fills r of dst with a two-colour checkerboard of cell size n,
// the usual backdrop for transparent pixels.
func Checker(dst *image.RGBA, r image.Rectangle, n int, light, dark color.Color) {
	if n <= 0 {
		n = 8
	}
	l := image.NewUniform(light)
	d := image.NewUniform(dark)
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y += n {
		for x := r.Min.X; x < r.Max.X; x += n {
			cell := image.Rect(x, y, x+n, y+n).Intersect(r)
			src := l
			if ((x-r.Min.X)/n+(y-r.Min.Y)/n)%2 == 1 {
				src = d
			}
			xdraw.Draw(dst, cell, src, image.Point{}, xdraw.Src)
		}
	}
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(out, out.Bounds(), img, b.Min, xdraw.Src)
	return out
}
