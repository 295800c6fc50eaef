package session

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record and reports itself disabled so callers
// skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by edit sessions. By default
// nothing is logged; pass nil to restore that.
//
// Levels:
//   - [slog.LevelDebug]: gestures, commits, undo and redo
//   - [slog.LevelWarn]: gestures dropped by a second pointer
//   - [slog.LevelError]: a view transform that cannot be inverted
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current session logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
