package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/theme"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

// AppState holds the window host configuration.
type AppState struct {
	Session  *session.Session
	Output   string
	Theme    *theme.Theme
	Notifier *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the path the edited image is saved to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the notifier used after save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState hosting sess.
func New(sess *session.Session, opts ...Option) *AppState {
	a := &AppState{Session: sess, Output: "output.png"}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// initialSize picks a window size that shows the image at its natural
// size when it fits.
func (a *AppState) initialSize() (int, int) {
	width, height := defaultWidth, defaultHeight
	if cur := a.Session.Current(); cur != nil {
		sz := cur.Size()
		width = int(sz.W) + toolbarWidth
		height = int(sz.H) + titleHeight + statusHeight
	}
	width = min(max(width, 480), 1600)
	height = min(max(height, 360), 1200)
	return width, height
}

func (a *AppState) Main(s screen.Screen) {
	fitToolbar()
	sess := a.Session
	ctl := newController(sess, a.Output, a.Notifier)

	width, height := a.initialSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "Retouch"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	resize := func() {
		cr := canvasRect(width, height)
		sess.Resize(float64(cr.Dx()), float64(cr.Dy()))
	}
	resize()

	var r renderer
	frames := newPainter(func(ctx context.Context, st paintState) {
		drawFrame(ctx, s, w, &r, st)
	})
	defer frames.stop()

	hoverTool, hoverShortcut := -1, -1
	var dragging bool

	run := func(action string) {
		ctl.dispatch(context.Background(), action)
		w.Send(paint.Event{})
	}

	// toView maps window coordinates into the session's view space.
	toView := func(x, y float32) geometry.Point {
		cr := canvasRect(width, height)
		return geometry.Pt(float64(x)-float64(cr.Min.X), float64(y)-float64(cr.Min.Y))
	}

	for {
		if ctl.quit {
			return
		}
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			resize()
			w.Send(paint.Event{})
		case paint.Event:
			st := snapshot(sess, a.Theme, width, height)
			st.hoverTool = hoverTool
			st.hoverShortcut = hoverShortcut
			st.message = ctl.currentMessage()
			frames.submit(st)
		case mouse.Event:
			p := image.Point{int(e.X), int(e.Y)}
			if !dragging {
				if action, idx := hitButton(layoutStatus(width, height, sess.Tool()), p); idx >= 0 || int(e.Y) >= height-statusHeight {
					hoverShortcut = idx
					if idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						run(action)
						continue
					}
					if e.Direction == mouse.DirNone {
						w.Send(paint.Event{})
					}
					continue
				}
				if action, idx := hitButton(layoutToolbar(), p); idx >= 0 || int(e.X) < toolbarWidth {
					hoverTool = idx
					if idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
						run(action)
						continue
					}
					if e.Direction == mouse.DirNone {
						w.Send(paint.Event{})
					}
					continue
				}
				if hoverTool >= 0 || hoverShortcut >= 0 {
					hoverTool, hoverShortcut = -1, -1
					w.Send(paint.Event{})
				}
			}

			ev := session.PointerEvent{Pos: toView(e.X, e.Y), PointerCount: 1}
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				ev.Phase = session.Press
				dragging = true
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				if !dragging {
					continue
				}
				ev.Phase = session.Release
				dragging = false
			case e.Direction == mouse.DirPress && dragging:
				// A second button during a drag acts as a second pointer.
				ev.Phase = session.Move
				ev.PointerCount = 2
				dragging = false
			case e.Direction == mouse.DirNone && dragging:
				ev.Phase = session.Move
			default:
				continue
			}
			if sess.HandlePointer(ev) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if action, ok := lookupKey(e); ok {
				if dragging && action == actionCancel {
					dragging = false
				}
				run(action)
			}
		}
	}
}
