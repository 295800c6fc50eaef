package appstate

import (
	"context"
	"image"
	"log"
	"math"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/raster"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/stroke"
	"github.com/example/retouch/internal/theme"
)

// paintState is an immutable snapshot of everything a frame shows. It is
// built on the event goroutine and rendered on the paint goroutine.
type paintState struct {
	width, height int
	theme         *theme.Theme

	state       *history.ImageState
	preview     adjust.Params
	imageBounds geometry.Rect

	tool       session.Tool
	strokeKind stroke.Kind
	style      stroke.Style
	cropMode   crop.Mode

	cropRect    geometry.Rect
	cropActive  bool
	cropHandles []geometry.Rect

	strokePreview stroke.Stroke
	previewing    bool

	canUndo, canRedo bool
	hoverTool        int
	hoverShortcut    int
	message          string
}

func snapshot(sess *session.Session, th *theme.Theme, width, height int) paintState {
	st := paintState{
		width:         width,
		height:        height,
		theme:         th,
		state:         sess.Current(),
		preview:       sess.PreviewAdjustments(),
		imageBounds:   sess.ImageBounds(),
		tool:          sess.Tool(),
		strokeKind:    sess.StrokeKind(),
		style:         sess.Style(),
		cropMode:      sess.CropMode(),
		canUndo:       sess.CanUndo(),
		canRedo:       sess.CanRedo(),
		hoverTool:     -1,
		hoverShortcut: -1,
	}
	st.cropRect, st.cropActive = sess.CropRect()
	if st.cropActive {
		st.cropHandles = sess.CropHandles()
	}
	st.strokePreview, st.previewing = sess.StrokePreview()
	return st
}

type renderKey struct {
	state   string
	preview adjust.Params
}

// renderer caches the flattened image shown for a state. It is owned by
// the paint goroutine.
type renderer struct {
	key renderKey
	img *image.RGBA
}

// display returns the visible region of st with preview adjustments
// applied in place of the committed ones.
func (r *renderer) display(ctx context.Context, st *history.ImageState, preview adjust.Params) (*image.RGBA, error) {
	k := renderKey{state: st.ID(), preview: preview}
	if r.img != nil && r.key == k {
		return r.img, nil
	}
	var (
		img *image.RGBA
		err error
	)
	if preview == st.Adjustments() {
		img, err = st.Flatten(ctx)
	} else {
		img, err = previewFlatten(ctx, st, preview)
	}
	if err != nil {
		return nil, err
	}
	r.key, r.img = k, img
	return img, nil
}

func previewFlatten(ctx context.Context, st *history.ImageState, p adjust.Params) (*image.RGBA, error) {
	adjusted, err := adjust.Apply(ctx, st.Source().Image(), p)
	if err != nil {
		return nil, err
	}
	h, err := raster.Adopt(adjusted)
	if err != nil {
		return nil, err
	}
	region, ok := st.PendingCrop()
	if !ok {
		region = geometry.Rect{}
	}
	return raster.Flatten(ctx, h, st.Strokes(), region)
}

// pixelRect rounds a view-space rectangle to whole pixels.
func pixelRect(r geometry.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.Left)), int(math.Round(r.Top)),
		int(math.Round(r.Right)), int(math.Round(r.Bottom)),
	)
}

// composeCanvas renders the session view: the image fitted into the
// canvas, the in-progress stroke and the crop overlay.
func composeCanvas(ctx context.Context, r *renderer, st *paintState, size image.Point) (*image.RGBA, error) {
	th := st.theme
	canvas := image.NewRGBA(image.Rectangle{Max: size})
	fill(canvas, canvas.Bounds(), th.Background)
	if st.state == nil {
		return canvas, nil
	}

	img, err := r.display(ctx, st.state, st.preview)
	if err != nil {
		return nil, err
	}
	ib := pixelRect(st.imageBounds).Intersect(canvas.Bounds())
	raster.Checker(canvas, ib, checkerCell, th.CheckerLight, th.CheckerDark)
	raster.Scale(canvas, pixelRect(st.imageBounds), img, img.Bounds())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if st.previewing {
		canvas, err = raster.DrawStrokes(ctx, canvas, []stroke.Stroke{st.strokePreview}, geometry.Identity())
		if err != nil {
			return nil, err
		}
	}
	if st.cropActive {
		drawCropOverlay(canvas, th, ib, st.cropRect, st.cropHandles)
	}
	return canvas, nil
}

// drawCropOverlay shades the image outside the crop rectangle and draws
// its border and corner handles.
func drawCropOverlay(dst *image.RGBA, th *theme.Theme, bounds image.Rectangle, rect geometry.Rect, handles []geometry.Rect) {
	cr := pixelRect(rect)
	shade := image.NewUniform(th.CropShade)
	for _, r := range []image.Rectangle{
		image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, cr.Min.Y),
		image.Rect(bounds.Min.X, cr.Max.Y, bounds.Max.X, bounds.Max.Y),
		image.Rect(bounds.Min.X, cr.Min.Y, cr.Min.X, cr.Max.Y),
		image.Rect(cr.Max.X, cr.Min.Y, bounds.Max.X, cr.Max.Y),
	} {
		r = r.Intersect(bounds)
		if !r.Empty() {
			xdraw.Draw(dst, r, shade, image.Point{}, xdraw.Over)
		}
	}
	drawDashedRect(dst, cr, 4, th.CropBorder, th.Background)
	for _, h := range handles {
		hr := pixelRect(h)
		fill(dst, hr, th.CropHandle)
		drawRect(dst, hr, th.CropBorder, 1)
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, r *renderer, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	th := st.theme
	fill(dst, dst.Bounds(), th.Background)

	cr := canvasRect(st.width, st.height)
	if !cr.Empty() {
		canvas, err := composeCanvas(ctx, r, &st, cr.Size())
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("render: %v", err)
			}
			return
		}
		xdraw.Draw(dst, cr, canvas, image.Point{}, xdraw.Src)
	}
	if ctx.Err() != nil {
		return
	}

	drawTitle(dst, th, &st)
	drawToolbar(dst, th, &st)
	drawStatus(dst, th, &st)
	if st.message != "" {
		drawMessage(dst, th, st.message, st.width, st.height)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
