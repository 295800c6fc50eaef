package history

import (
	"context"
	"image"
	"time"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/raster"
	"github.com/example/retouch/internal/stroke"
)

// ImageState is one consistent edit state. Values are never modified once
// built; every transition returns a new state that shares unchanged parts
// (rasters, earlier strokes) with its predecessor.
type ImageState struct {
	id          string
	source      *raster.Handle
	base        *raster.Handle
	strokes     []stroke.Stroke
	crop        geometry.Rect
	hasCrop     bool
	adjustments adjust.Params
	createdAt   time.Time
}

// NewImageState returns the initial state for a freshly loaded raster.
func NewImageState(src *raster.Handle) *ImageState {
	return &ImageState{
		id:          newID(PrefixState),
		source:      src,
		base:        src,
		adjustments: adjust.Identity(),
		createdAt:   time.Now(),
	}
}

func (s *ImageState) derive() *ImageState {
	n := *s
	n.id = newID(PrefixState)
	n.createdAt = time.Now()
	return &n
}

// ID returns the state identifier.
func (s *ImageState) ID() string { return s.id }

// Source returns the raster as loaded.
func (s *ImageState) Source() *raster.Handle { return s.source }

// Base returns the source raster with the adjustments baked in.
func (s *ImageState) Base() *raster.Handle { return s.base }

// Strokes returns a copy of the strokes in source coordinates.
func (s *ImageState) Strokes() []stroke.Stroke {
	out := make([]stroke.Stroke, len(s.strokes))
	copy(out, s.strokes)
	return out
}

// StrokeCount returns the number of strokes.
func (s *ImageState) StrokeCount() int { return len(s.strokes) }

// PendingCrop returns the crop region in source coordinates, if any.
func (s *ImageState) PendingCrop() (geometry.Rect, bool) { return s.crop, s.hasCrop }

// Adjustments returns the baked adjustment parameters.
func (s *ImageState) Adjustments() adjust.Params { return s.adjustments }

// CreatedAt returns when the state was derived.
func (s *ImageState) CreatedAt() time.Time { return s.createdAt }

// Region returns the visible part of the source raster: the pending crop
// or the full bounds.
func (s *ImageState) Region() geometry.Rect {
	if s.hasCrop {
		return s.crop
	}
	return geometry.RectFromSize(s.source.Size())
}

// Size returns the size of the visible region.
func (s *ImageState) Size() geometry.Size { return s.Region().Size() }

// WithStroke returns a state with st appended.
func (s *ImageState) WithStroke(st stroke.Stroke) *ImageState {
	n := s.derive()
	n.strokes = make([]stroke.Stroke, len(s.strokes), len(s.strokes)+1)
	copy(n.strokes, s.strokes)
	n.strokes = append(n.strokes, st)
	return n
}

// WithCrop returns a state whose region is r intersected with the current
// region. ok is false when the intersection is empty.
func (s *ImageState) WithCrop(r geometry.Rect) (n *ImageState, ok bool) {
	r = r.Canon().Intersect(s.Region())
	if r.Empty() {
		return nil, false
	}
	n = s.derive()
	n.crop, n.hasCrop = r, true
	return n, true
}

// WithoutCrop returns a state showing the full raster again.
func (s *ImageState) WithoutCrop() *ImageState {
	n := s.derive()
	n.crop, n.hasCrop = geometry.Rect{}, false
	return n
}

// WithAdjustments returns a state with p recorded and base as the baked
// raster. A nil base means p is identity and the source is used.
func (s *ImageState) WithAdjustments(p adjust.Params, base *raster.Handle) *ImageState {
	n := s.derive()
	n.adjustments = p
	n.base = base
	if base == nil {
		n.base = s.source
	}
	return n
}

// Cleared returns a state with every edit removed: no strokes, no crop and
// identity adjustments over the original source.
func (s *ImageState) Cleared() *ImageState {
	return NewImageState(s.source)
}

// Edited reports whether the state differs from a freshly loaded one.
func (s *ImageState) Edited() bool {
	return len(s.strokes) > 0 || s.hasCrop || !s.adjustments.IsIdentity()
}

// Flatten renders the state into a single raster for export.
func (s *ImageState) Flatten(ctx context.Context) (*image.RGBA, error) {
	var region geometry.Rect
	if s.hasCrop {
		region = s.crop
	}
	return raster.Flatten(ctx, s.base, s.strokes, region)
}
