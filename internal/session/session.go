// Package session ties pointer input, the stroke and crop tools, colour
// adjustments and the history timeline into one edit session.
//
// A Session is driven from a single goroutine. The states it publishes are
// immutable and may be handed to other goroutines for rendering or export.
package session

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/raster"
	"github.com/example/retouch/internal/stroke"
)

// Tool is the active editing tool.
type Tool int

const (
	Draw Tool = iota
	Crop
	Adjust
)

func (t Tool) String() string {
	switch t {
	case Draw:
		return "draw"
	case Crop:
		return "crop"
	case Adjust:
		return "adjust"
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool converts a tool name to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw", "pen":
		return Draw, nil
	case "crop":
		return Crop, nil
	case "adjust":
		return Adjust, nil
	}
	return Draw, fmt.Errorf("unknown tool %q", s)
}

// Phase is the stage of a pointer gesture.
type Phase int

const (
	Press Phase = iota
	Move
	Release
	Cancel
)

func (p Phase) String() string {
	switch p {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Cancel:
		return "cancel"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// PointerEvent is one pointer update in view coordinates.
type PointerEvent struct {
	Phase        Phase
	Pos          geometry.Point
	PointerCount int
}

// Session is an edit session over one image.
type Session struct {
	history *history.Manager
	view    geometry.Size

	tool       Tool
	strokeKind stroke.Kind
	strokeTool stroke.Tool
	style      stroke.Style
	crop       *crop.Manipulator
	cropMode   crop.Mode
	preview    adjust.Params

	cropOpts    []crop.Option
	historyOpts []history.Option

	onStroke  func(stroke.Stroke)
	onCrop    func(geometry.Rect)
	onAdjust  func(adjust.Params)
	onHistory func(canUndo, canRedo bool)
	onState   func(*history.ImageState)
}

// New returns a session with no image loaded.
func New(opts ...Option) *Session {
	s := &Session{
		style:   stroke.DefaultStyle(),
		preview: adjust.Identity(),
	}
	for _, o := range opts {
		o(s)
	}
	s.history = history.NewManager(s.historyOpts...)
	s.crop = crop.New(s.cropOpts...)
	s.strokeTool = stroke.New(s.strokeKind)
	return s
}

// Load replaces the image, discarding all history. The load itself is
// recorded as the baseline action.
func (s *Session) Load(img image.Image) error {
	h, err := raster.New(img)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s.strokeTool.Cancel()
	s.crop.Cancel()
	s.history.Clear()
	st := history.NewImageState(h)
	s.preview = st.Adjustments()
	Logger().Debug("image loaded", "state", st.ID(), "width", st.Size().W, "height", st.Size().H)
	s.record(history.NewAction(history.ImageLoad, nil, st))
	if s.tool == Crop {
		s.crop.Enter(s.cropMode, s.ImageBounds())
	}
	return nil
}

// Resize sets the viewport size.
func (s *Session) Resize(w, h float64) {
	s.view = geometry.Sz(w, h)
	switch {
	case s.crop.Active():
		s.crop.SetBounds(s.ImageBounds())
	case s.tool == Crop && s.ready():
		s.crop.Enter(s.cropMode, s.ImageBounds())
	}
}

// ViewSize returns the viewport size.
func (s *Session) ViewSize() geometry.Size { return s.view }

// Current returns the current image state, or nil before Load.
func (s *Session) Current() *history.ImageState {
	cur, _ := s.history.Current()
	return cur
}

// Transform returns the image-to-view transform for the current state. It
// is the zero matrix before Load or while the view is empty.
func (s *Session) Transform() geometry.Matrix {
	cur := s.Current()
	if cur == nil {
		return geometry.Matrix{}
	}
	region := cur.Region()
	return geometry.FitTransform(region.Size(), s.view).WithOrigin(region.Min())
}

// ImageBounds returns the visible image region in view space.
func (s *Session) ImageBounds() geometry.Rect {
	cur := s.Current()
	if cur == nil {
		return geometry.Rect{}
	}
	return s.Transform().MapRect(cur.Region())
}

func (s *Session) ready() bool {
	return s.Current() != nil && !s.view.Empty()
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// StrokeKind returns the kind used by the draw tool.
func (s *Session) StrokeKind() stroke.Kind { return s.strokeKind }

// Style returns the paint style for new strokes.
func (s *Session) Style() stroke.Style { return s.style }

// SetStyle changes the paint style for strokes begun from now on.
func (s *Session) SetStyle(st stroke.Style) { s.style = st.Normalize() }

// CropMode returns the mode the crop tool uses.
func (s *Session) CropMode() crop.Mode { return s.cropMode }

// CropRect returns the crop rectangle in view space while cropping.
func (s *Session) CropRect() (geometry.Rect, bool) { return s.crop.Rect() }

// CropHandles returns the corner hit areas of the crop rectangle.
func (s *Session) CropHandles() []geometry.Rect { return s.crop.HandleRects() }

// StrokePreview returns the stroke being captured, in view space.
func (s *Session) StrokePreview() (stroke.Stroke, bool) { return s.strokeTool.Preview() }

// PreviewAdjustments returns the unapplied adjustment parameters.
func (s *Session) PreviewAdjustments() adjust.Params { return s.preview }

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Timeline returns a copy of the recorded actions.
func (s *Session) Timeline() []history.Action { return s.history.Actions() }

// SetStrokeKind selects the stroke kind and switches to the draw tool.
func (s *Session) SetStrokeKind(k stroke.Kind) {
	s.SelectTool(Draw)
	if k == s.strokeKind {
		return
	}
	s.strokeTool.Cancel()
	s.strokeKind = k
	s.strokeTool = stroke.New(k)
}

// SelectTool switches tools. Uncommitted crop and adjustment work of the
// previous tool is discarded, never committed, and any stroke in progress
// is cancelled.
func (s *Session) SelectTool(t Tool) {
	if t == s.tool {
		return
	}
	s.strokeTool.Cancel()
	switch s.tool {
	case Crop:
		s.crop.Cancel()
	case Adjust:
		s.DiscardAdjustments()
	}
	Logger().Debug("tool selected", "from", s.tool, "to", t)
	s.tool = t
	if t == Crop {
		s.crop.Enter(s.cropMode, s.ImageBounds())
	}
}

// HandlePointer routes a pointer event to the active tool. It reports
// whether the event changed anything worth redrawing.
func (s *Session) HandlePointer(ev PointerEvent) bool {
	if !s.ready() {
		return false
	}
	switch s.tool {
	case Draw:
		return s.drawPointer(ev)
	case Crop:
		return s.cropPointer(ev)
	}
	return false
}

func (s *Session) drawPointer(ev PointerEvent) bool {
	t := s.strokeTool
	if ev.PointerCount > 1 {
		if t.Capturing() {
			Logger().Warn("stroke cancelled by additional pointer", "kind", s.strokeKind, "pointers", ev.PointerCount)
			t.Cancel()
			return true
		}
		return false
	}
	switch ev.Phase {
	case Press:
		t.Begin(ev.Pos, s.style)
		return true
	case Move:
		if !t.Capturing() {
			return false
		}
		t.Update(ev.Pos)
		return true
	case Release:
		if !t.Capturing() {
			return false
		}
		t.Update(ev.Pos)
		inv, err := s.Transform().Invert()
		if err != nil {
			Logger().Error("dropping stroke", "err", err)
			t.Cancel()
			return true
		}
		st, ok := t.Finish(inv)
		if ok {
			s.commitStroke(st)
		}
		return true
	case Cancel:
		if !t.Capturing() {
			return false
		}
		t.Cancel()
		return true
	}
	return false
}

func (s *Session) commitStroke(st stroke.Stroke) {
	cur := s.Current()
	s.record(history.NewAction(history.Stroke, cur, cur.WithStroke(st)))
	Logger().Debug("stroke committed", "id", st.ID, "kind", st.Kind)
	if s.onStroke != nil {
		s.onStroke(st)
	}
}

func (s *Session) cropPointer(ev PointerEvent) bool {
	if !s.crop.Active() {
		return false
	}
	if ev.PointerCount > 1 {
		dragging := s.crop.State() != crop.ActiveIdle
		s.crop.Release()
		return dragging
	}
	switch ev.Phase {
	case Press:
		return s.crop.Press(ev.Pos)
	case Move:
		return s.crop.Drag(ev.Pos)
	case Release:
		changed := s.crop.Drag(ev.Pos)
		s.crop.Release()
		return changed
	case Cancel:
		s.crop.Release()
		return true
	}
	return false
}

// BeginCrop switches to the crop tool in mode and seeds its rectangle.
func (s *Session) BeginCrop(mode crop.Mode) bool {
	s.strokeTool.Cancel()
	if s.tool == Adjust {
		s.DiscardAdjustments()
	}
	s.tool = Crop
	s.cropMode = mode
	if !s.ready() {
		s.crop.Cancel()
		return false
	}
	return s.crop.Enter(mode, s.ImageBounds())
}

// ApplyCrop commits the crop rectangle. The new region is the rectangle in
// image space intersected with the current region.
func (s *Session) ApplyCrop() bool {
	if !s.crop.Active() || s.Current() == nil {
		return false
	}
	inv, err := s.Transform().Invert()
	if err != nil {
		Logger().Error("dropping crop", "err", err)
		s.crop.Cancel()
		return false
	}
	r, ok := s.crop.Apply(inv)
	if !ok {
		return false
	}
	cur := s.Current()
	next, ok := cur.WithCrop(r)
	if !ok {
		Logger().Warn("crop outside image ignored", "rect", r)
		return false
	}
	s.record(history.NewAction(history.CropApply, cur, next))
	region := next.Region()
	Logger().Debug("crop committed", "region", region)
	if s.onCrop != nil {
		s.onCrop(region)
	}
	return true
}

// CancelCrop discards the crop rectangle without recording anything.
func (s *Session) CancelCrop() {
	s.crop.Cancel()
}

// RevertCrop records the removal of the current crop region.
func (s *Session) RevertCrop() bool {
	cur := s.Current()
	if cur == nil {
		return false
	}
	if _, has := cur.PendingCrop(); !has {
		return false
	}
	s.crop.Cancel()
	s.record(history.NewAction(history.CropCancel, cur, cur.WithoutCrop()))
	return true
}

// SetAdjustments updates the preview parameters. Nothing is recorded.
func (s *Session) SetAdjustments(p adjust.Params) {
	s.preview = p.Clamp()
}

// DiscardAdjustments resets the preview to the committed parameters.
func (s *Session) DiscardAdjustments() {
	if cur := s.Current(); cur != nil {
		s.preview = cur.Adjustments()
		return
	}
	s.preview = adjust.Identity()
}

// ApplyAdjustments bakes the preview parameters into a new base raster and
// records the result. It returns false when the parameters are unchanged.
func (s *Session) ApplyAdjustments(ctx context.Context) (bool, error) {
	cur := s.Current()
	if cur == nil {
		return false, nil
	}
	p := s.preview
	if p == cur.Adjustments() {
		return false, nil
	}
	var base *raster.Handle
	if !p.IsIdentity() {
		img, err := adjust.Apply(ctx, cur.Source().Image(), p)
		if err != nil {
			return false, fmt.Errorf("apply adjustments: %w", err)
		}
		if base, err = raster.Adopt(img); err != nil {
			return false, fmt.Errorf("apply adjustments: %w", err)
		}
	}
	kind := history.AdjustApply
	if p.IsIdentity() {
		kind = history.AdjustReset
	}
	s.record(history.NewAction(kind, cur, cur.WithAdjustments(p, base)))
	Logger().Debug("adjustments committed", "params", p)
	if s.onAdjust != nil {
		s.onAdjust(p)
	}
	return true, nil
}

// ResetAdjustments records a return to identity adjustments.
func (s *Session) ResetAdjustments() bool {
	cur := s.Current()
	if cur == nil || cur.Adjustments().IsIdentity() {
		s.preview = adjust.Identity()
		return false
	}
	s.preview = adjust.Identity()
	s.record(history.NewAction(history.AdjustReset, cur, cur.WithAdjustments(adjust.Identity(), nil)))
	Logger().Debug("adjustments reset")
	if s.onAdjust != nil {
		s.onAdjust(adjust.Identity())
	}
	return true
}

// ClearAll records the removal of every edit.
func (s *Session) ClearAll() bool {
	cur := s.Current()
	if cur == nil || !cur.Edited() {
		return false
	}
	s.strokeTool.Cancel()
	s.crop.Cancel()
	next := cur.Cleared()
	s.preview = next.Adjustments()
	s.record(history.NewAction(history.ClearAll, cur, next))
	return true
}

// Undo steps back one action.
func (s *Session) Undo() bool {
	st, ok := s.history.Undo()
	if !ok {
		return false
	}
	Logger().Debug("undo", "index", s.history.Index())
	s.restored(st)
	return true
}

// Redo steps forward one action.
func (s *Session) Redo() bool {
	st, ok := s.history.Redo()
	if !ok {
		return false
	}
	Logger().Debug("redo", "index", s.history.Index())
	s.restored(st)
	return true
}

func (s *Session) restored(st *history.ImageState) {
	s.strokeTool.Cancel()
	s.preview = st.Adjustments()
	if s.crop.Active() {
		s.crop.Enter(s.cropMode, s.ImageBounds())
	}
	s.publish(st)
}

// Flatten renders the current state for export.
func (s *Session) Flatten(ctx context.Context) (*image.RGBA, error) {
	cur := s.Current()
	if cur == nil {
		return nil, raster.ErrEmpty
	}
	return cur.Flatten(ctx)
}

func (s *Session) record(a history.Action) {
	s.history.Record(a)
	s.publish(a.Next)
}

func (s *Session) publish(st *history.ImageState) {
	if s.onState != nil {
		s.onState(st)
	}
	if s.onHistory != nil {
		s.onHistory(s.history.CanUndo(), s.history.CanRedo())
	}
}
