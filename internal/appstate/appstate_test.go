package appstate

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/stroke"
	"github.com/example/retouch/internal/theme"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 50, 100))
	for i := range img.Pix {
		img.Pix[i] = 0x80
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	s := session.New()
	if err := s.Load(img); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Resize(100, 100)
	return s
}

func TestLookupKey(t *testing.T) {
	cases := []struct {
		ev   key.Event
		want string
	}{
		{key.Event{Rune: 'p', Code: key.CodeP}, actionPen},
		{key.Event{Rune: 'R', Code: key.CodeR, Modifiers: key.ModShift}, actionCrop},
		{key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{key.Event{Rune: 0x1a, Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{key.Event{Rune: 'Z', Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift}, actionRedo},
		{key.Event{Rune: 'y', Code: key.CodeY, Modifiers: key.ModControl}, actionRedo},
		{key.Event{Rune: -1, Code: key.CodeEscape}, actionCancel},
		{key.Event{Rune: '\r', Code: key.CodeReturnEnter}, actionApply},
		{key.Event{Rune: ']', Code: key.CodeRightSquareBracket}, actionBrightnessUp},
		{key.Event{Rune: -1, Code: key.CodeDeleteBackspace}, actionRevertCrop},
	}
	for _, c := range cases {
		got, ok := lookupKey(c.ev)
		if !ok || got != c.want {
			t.Errorf("lookupKey(%+v) = %q, %v; want %q", c.ev, got, ok, c.want)
		}
	}
	if got, ok := lookupKey(key.Event{Rune: 'k', Code: key.CodeK}); ok {
		t.Errorf("unbound key resolved to %q", got)
	}
	if got, ok := lookupKey(key.Event{Rune: 's', Code: key.CodeS}); ok {
		t.Errorf("plain s resolved to %q, want only ctrl+s", got)
	}
}

func TestControllerTools(t *testing.T) {
	s := newTestSession(t)
	c := newController(s, "out.png", nil)
	ctx := context.Background()

	c.dispatch(ctx, actionSquare)
	if s.Tool() != session.Draw || s.StrokeKind() != stroke.Square {
		t.Fatalf("tool %v kind %v after square", s.Tool(), s.StrokeKind())
	}

	c.dispatch(ctx, actionCrop)
	if s.Tool() != session.Crop {
		t.Fatalf("tool = %v, want crop", s.Tool())
	}
	first := s.CropMode()
	c.dispatch(ctx, actionCrop)
	if s.CropMode() != first.Next() {
		t.Fatalf("crop mode = %v, want %v", s.CropMode(), first.Next())
	}

	c.dispatch(ctx, actionCancel)
	if s.Tool() != session.Draw {
		t.Fatalf("tool = %v after cancel, want draw", s.Tool())
	}
	if s.CanUndo() {
		t.Fatal("cancel recorded history")
	}
	if c.dispatch(ctx, "bogus") {
		t.Fatal("unknown action accepted")
	}
}

func TestControllerCropApply(t *testing.T) {
	s := newTestSession(t)
	c := newController(s, "out.png", nil)
	ctx := context.Background()

	c.dispatch(ctx, actionCrop)
	c.dispatch(ctx, actionApply)
	if !s.CanUndo() {
		t.Fatal("apply did not record a crop")
	}
	if s.Tool() != session.Draw {
		t.Fatalf("tool = %v after apply, want draw", s.Tool())
	}
	c.dispatch(ctx, actionRevertCrop)
	if _, has := s.Current().PendingCrop(); has {
		t.Fatal("crop still pending after revert")
	}
	c.dispatch(ctx, actionUndo)
	if _, has := s.Current().PendingCrop(); !has {
		t.Fatal("undo did not restore crop")
	}
}

func TestControllerAdjustSteps(t *testing.T) {
	s := newTestSession(t)
	c := newController(s, "out.png", nil)
	ctx := context.Background()

	c.dispatch(ctx, actionBrightnessUp)
	c.dispatch(ctx, actionBrightnessUp)
	c.dispatch(ctx, actionContrastDown)
	if s.Tool() != session.Adjust {
		t.Fatalf("tool = %v, want adjust", s.Tool())
	}
	p := s.PreviewAdjustments()
	if !near(p.Brightness, 0.1) || !near(p.Contrast, 0.9) || p.Saturation != 1 {
		t.Fatalf("preview = %v", p)
	}
	if s.CanUndo() {
		t.Fatal("preview recorded history")
	}
	c.dispatch(ctx, actionApply)
	if !s.CanUndo() || s.Current().Adjustments() != p {
		t.Fatalf("adjustments not committed: %v", s.Current().Adjustments())
	}
	c.dispatch(ctx, actionReset)
	if !s.Current().Adjustments().IsIdentity() {
		t.Fatal("reset did not restore identity")
	}
}

func TestControllerSaveAndCopy(t *testing.T) {
	s := newTestSession(t)
	c := newController(s, "edited.png", nil)
	now := time.Unix(100, 0)
	c.now = func() time.Time { return now }

	var savedPath string
	var saved, copied image.Image
	c.writeFile = func(path string, img image.Image) error {
		savedPath, saved = path, img
		return nil
	}
	c.copyImage = func(img image.Image) error {
		copied = img
		return nil
	}

	c.dispatch(context.Background(), actionSave)
	if savedPath != "edited.png" || saved == nil {
		t.Fatalf("save wrote %q %v", savedPath, saved)
	}
	if saved.Bounds() != image.Rect(0, 0, 50, 100) {
		t.Fatalf("saved bounds = %v", saved.Bounds())
	}
	if c.currentMessage() != "saved edited.png" {
		t.Fatalf("message = %q", c.currentMessage())
	}

	c.dispatch(context.Background(), actionCopy)
	if copied == nil {
		t.Fatal("copy did not reach clipboard")
	}

	now = now.Add(messageTTL)
	if msg := c.currentMessage(); msg != "" {
		t.Fatalf("stale message %q", msg)
	}

	c.copyImage = func(image.Image) error { return errors.New("no clipboard") }
	c.dispatch(context.Background(), actionCopy)
	now = now.Add(time.Millisecond)
	if c.currentMessage() != "copy failed" {
		t.Fatalf("message = %q", c.currentMessage())
	}
}

func TestControllerPaste(t *testing.T) {
	s := newTestSession(t)
	s.HandlePointer(session.PointerEvent{Phase: session.Press, Pos: geometry.Pt(30, 30), PointerCount: 1})
	s.HandlePointer(session.PointerEvent{Phase: session.Release, Pos: geometry.Pt(40, 40), PointerCount: 1})
	if !s.CanUndo() {
		t.Fatal("stroke not recorded")
	}

	c := newController(s, "out.png", nil)
	c.readImage = func() (*image.RGBA, error) { return image.NewRGBA(image.Rect(0, 0, 20, 10)), nil }
	c.dispatch(context.Background(), actionPaste)
	if s.CanUndo() {
		t.Fatal("paste kept old history")
	}
	if sz := s.Current().Size(); sz != geometry.Sz(20, 10) {
		t.Fatalf("size = %v", sz)
	}

	c.readImage = func() (*image.RGBA, error) { return nil, errors.New("empty") }
	c.dispatch(context.Background(), actionPaste)
	if c.message != "nothing to paste" {
		t.Fatalf("message = %q", c.message)
	}
}

func TestComposeCanvas(t *testing.T) {
	s := newTestSession(t)
	th := theme.Default()
	st := snapshot(s, th, 200, 200)

	var r renderer
	canvas, err := composeCanvas(context.Background(), &r, &st, image.Pt(100, 100))
	if err != nil {
		t.Fatalf("composeCanvas: %v", err)
	}
	// 50x100 image letterboxed at x 25..75.
	if c := canvas.RGBAAt(50, 50); c != (color.RGBA{0x80, 0x80, 0x80, 0xff}) {
		t.Fatalf("image pixel = %v", c)
	}
	if c := canvas.RGBAAt(10, 50); c != th.Background {
		t.Fatalf("letterbox pixel = %v, want %v", c, th.Background)
	}
	if r.img == nil {
		t.Fatal("display image not cached")
	}
	cached := r.img
	if _, err := composeCanvas(context.Background(), &r, &st, image.Pt(100, 100)); err != nil {
		t.Fatal(err)
	}
	if r.img != cached {
		t.Fatal("unchanged state re-rendered")
	}

	s.SelectTool(session.Crop)
	st = snapshot(s, th, 200, 200)
	if !st.cropActive || len(st.cropHandles) != 4 {
		t.Fatalf("crop snapshot active=%v handles=%d", st.cropActive, len(st.cropHandles))
	}
	if _, err := composeCanvas(context.Background(), &r, &st, image.Pt(100, 100)); err != nil {
		t.Fatal(err)
	}
}

func TestComposeCanvasCancelled(t *testing.T) {
	s := newTestSession(t)
	p := s.PreviewAdjustments()
	p.Brightness = 0.5
	s.SelectTool(session.Adjust)
	s.SetAdjustments(p)
	st := snapshot(s, theme.Default(), 200, 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r renderer
	if _, err := composeCanvas(ctx, &r, &st, image.Pt(100, 100)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLayout(t *testing.T) {
	buttons := layoutToolbar()
	action, idx := hitButton(buttons, image.Pt(4, titleHeight+buttonHeight+4))
	if idx != 1 || action != actionCircle {
		t.Fatalf("hit = %q %d, want circle", action, idx)
	}
	if _, idx := hitButton(buttons, image.Pt(toolbarWidth+10, titleHeight+4)); idx != -1 {
		t.Fatalf("hit outside toolbar = %d", idx)
	}

	status := layoutStatus(800, 600, session.Crop)
	if status[0].action != actionApply {
		t.Fatalf("first crop shortcut = %q", status[0].action)
	}
	for _, sc := range status {
		if sc.rect.Min.Y < 600-statusHeight || sc.rect.Max.Y > 600 {
			t.Fatalf("shortcut %q outside status bar: %v", sc.label, sc.rect)
		}
	}

	if cr := canvasRect(800, 600); cr != image.Rect(toolbarWidth, titleHeight, 800, 600-statusHeight) {
		t.Fatalf("canvas = %v", cr)
	}
	if cr := canvasRect(10, 10); !cr.Empty() {
		t.Fatalf("tiny window canvas = %v", cr)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
