package adjust

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps tiny images on a single goroutine.
const minBandRows = 32

// Apply returns a new raster with p baked into every pixel of src. Rows are
// processed in parallel bands; a cancelled context abandons the work and
// returns the context error.
func Apply(ctx context.Context, src *image.RGBA, p Params) (*image.RGBA, error) {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	if p.IsIdentity() {
		copy(dst.Pix, src.Pix)
		return dst, nil
	}
	m := p.Matrix()

	h := b.Dy()
	workers := runtime.GOMAXPROCS(0)
	band := (h + workers - 1) / workers
	if band < minBandRows {
		band = minBandRows
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := b.Min.Y; y0 < b.Max.Y; y0 += band {
		y1 := min(y0+band, b.Max.Y)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				applyRow(dst, src, y, &m)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

func applyRow(dst, src *image.RGBA, y int, m *[20]float64) {
	b := src.Bounds()
	si := src.PixOffset(b.Min.X, y)
	di := dst.PixOffset(b.Min.X, y)
	for x := b.Min.X; x < b.Max.X; x, si, di = x+1, si+4, di+4 {
		a := float64(src.Pix[si+3])
		if a == 0 {
			continue
		}
		// Un-premultiply, transform, re-premultiply.
		r := float64(src.Pix[si+0]) * 255 / a
		g := float64(src.Pix[si+1]) * 255 / a
		bl := float64(src.Pix[si+2]) * 255 / a

		nr := clamp255(m[0]*r + m[1]*g + m[2]*bl + m[3]*a + m[4])
		ng := clamp255(m[5]*r + m[6]*g + m[7]*bl + m[8]*a + m[9])
		nb := clamp255(m[10]*r + m[11]*g + m[12]*bl + m[13]*a + m[14])

		f := a / 255
		dst.Pix[di+0] = uint8(nr*f + 0.5)
		dst.Pix[di+1] = uint8(ng*f + 0.5)
		dst.Pix[di+2] = uint8(nb*f + 0.5)
		dst.Pix[di+3] = src.Pix[si+3]
	}
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
