// Package adjust holds colour adjustment parameters and bakes them onto
// rasters through a single composed colour matrix.
package adjust

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	MinBrightness = -1.0
	MaxBrightness = 1.0
	MaxContrast   = 4.0
	MaxSaturation = 4.0

	// Rec. 709 luminance weights.
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Params are the adjustment parameters of an image state.
//
// Brightness is an offset in [-1,1] of full scale. Contrast scales around
// mid grey and Saturation scales away from luminance; both are 1 at rest.
type Params struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// Identity returns parameters that leave pixels unchanged.
func Identity() Params {
	return Params{Contrast: 1, Saturation: 1}
}

// IsIdentity reports whether p leaves pixels unchanged.
func (p Params) IsIdentity() bool {
	return p == Identity()
}

// Clamp returns p with every field inside its valid range.
func (p Params) Clamp() Params {
	p.Brightness = clamp(p.Brightness, MinBrightness, MaxBrightness)
	p.Contrast = clamp(p.Contrast, 0, MaxContrast)
	p.Saturation = clamp(p.Saturation, 0, MaxSaturation)
	return p
}

func (p Params) String() string {
	return fmt.Sprintf("brightness=%.2f contrast=%.2f saturation=%.2f", p.Brightness, p.Contrast, p.Saturation)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Matrix returns the 4x5 colour matrix for p in row-major order, operating
// on straight-alpha channel values in [0,255]. Saturation is applied first,
// then contrast, then brightness. The alpha row is always identity.
func (p Params) Matrix() [20]float64 {
	s := p.Saturation
	inv := 1 - s
	sat := mat.NewDense(5, 5, []float64{
		lumR*inv + s, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + s, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + s, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	})
	c := p.Contrast
	off := 127.5 * (1 - c)
	con := mat.NewDense(5, 5, []float64{
		c, 0, 0, 0, off,
		0, c, 0, 0, off,
		0, 0, c, 0, off,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	})
	b := p.Brightness * 255
	bri := mat.NewDense(5, 5, []float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	})

	var out mat.Dense
	out.Product(bri, con, sat)

	var m [20]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 5; col++ {
			m[row*5+col] = out.At(row, col)
		}
	}
	return m
}
