package session

import (
	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/stroke"
)

// Option configures a Session.
type Option func(*Session)

// WithStyle sets the initial paint style.
func WithStyle(st stroke.Style) Option { return func(s *Session) { s.style = st.Normalize() } }

// WithStrokeKind sets the initial stroke kind.
func WithStrokeKind(k stroke.Kind) Option { return func(s *Session) { s.strokeKind = k } }

// WithCropMode sets the mode used when the crop tool is selected.
func WithCropMode(m crop.Mode) Option { return func(s *Session) { s.cropMode = m } }

// WithCropOptions configures the crop manipulator.
func WithCropOptions(opts ...crop.Option) Option {
	return func(s *Session) { s.cropOpts = append(s.cropOpts, opts...) }
}

// WithHistoryOptions configures the history manager.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(s *Session) { s.historyOpts = append(s.historyOpts, opts...) }
}

// WithStrokeCommitted registers a callback for each recorded stroke. The
// stroke is in image space.
func WithStrokeCommitted(fn func(stroke.Stroke)) Option {
	return func(s *Session) { s.onStroke = fn }
}

// WithCropCommitted registers a callback for each applied crop, receiving
// the new visible region in image space.
func WithCropCommitted(fn func(geometry.Rect)) Option {
	return func(s *Session) { s.onCrop = fn }
}

// WithAdjustCommitted registers a callback for each applied adjustment.
func WithAdjustCommitted(fn func(adjust.Params)) Option {
	return func(s *Session) { s.onAdjust = fn }
}

// WithHistoryChanged registers a callback invoked whenever undo or redo
// availability may have changed.
func WithHistoryChanged(fn func(canUndo, canRedo bool)) Option {
	return func(s *Session) { s.onHistory = fn }
}

// WithStateChanged registers a callback invoked with every new current
// state.
func WithStateChanged(fn func(*history.ImageState)) Option {
	return func(s *Session) { s.onState = fn }
}
