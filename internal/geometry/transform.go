package geometry

// FitTransform computes the "contain" transform that maps a raster of the
// given size into a view of the given size. The raster's long axis (relative
// to the view) fills the view and the other axis is centred with a letterbox
// offset. An empty raster or view yields the zero matrix, which is singular.
func FitTransform(raster, view Size) Matrix {
	if raster.Empty() || view.Empty() {
		return Matrix{}
	}
	var scale, dx, dy float64
	if raster.W/view.W > raster.H/view.H {
		scale = view.W / raster.W
		dy = (view.H - raster.H*scale) / 2
	} else {
		scale = view.H / raster.H
		dx = (view.W - raster.W*scale) / 2
	}
	return Matrix{A: scale, C: dx, E: scale, F: dy}
}

// ToImageSpace maps a view-space point back to image space through the
// inverse of m.
func ToImageSpace(m Matrix, p Point) (Point, error) {
	inv, err := m.Invert()
	if err != nil {
		return Point{}, err
	}
	return inv.Apply(p), nil
}

// ToViewSpace maps an image-space point into view space.
func ToViewSpace(m Matrix, p Point) Point {
	return m.Apply(p)
}

// ImageBoundsInView forward-maps the full raster extent into view space.
func ImageBoundsInView(m Matrix, raster Size) Rect {
	return m.MapRect(RectFromSize(raster))
}
