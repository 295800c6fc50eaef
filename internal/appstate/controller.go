package appstate

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/stroke"
)

const (
	brightnessStep = 0.05
	factorStep     = 0.1
	messageTTL     = 2 * time.Second
)

// controller turns named actions into session calls. It runs on the
// window's event goroutine only.
type controller struct {
	sess     *session.Session
	output   string
	notifier *notify.Notifier

	writeFile func(path string, img image.Image) error
	copyImage func(img image.Image) error
	readImage func() (*image.RGBA, error)
	now       func() time.Time

	message      string
	messageUntil time.Time
	quit         bool
}

func newController(sess *session.Session, output string, n *notify.Notifier) *controller {
	return &controller{
		sess:      sess,
		output:    output,
		notifier:  n,
		writeFile: writePNG,
		copyImage: func(img image.Image) error { return clipboard.WriteImage(img) },
		readImage: clipboard.ReadImage,
		now:       time.Now,
	}
}

// dispatch runs action and reports whether it was recognised.
func (c *controller) dispatch(ctx context.Context, action string) bool {
	s := c.sess
	switch action {
	case actionPen:
		s.SetStrokeKind(stroke.Pen)
	case actionCircle:
		s.SetStrokeKind(stroke.Circle)
	case actionSquare:
		s.SetStrokeKind(stroke.Square)
	case actionCrop:
		c.crop()
	case actionAdjust:
		s.SelectTool(session.Adjust)
	case actionApply:
		c.apply(ctx)
	case actionCancel:
		c.cancel()
	case actionUndo:
		if !s.Undo() {
			c.say("nothing to undo")
		}
	case actionRedo:
		if !s.Redo() {
			c.say("nothing to redo")
		}
	case actionSave:
		c.save(ctx)
	case actionCopy:
		c.copy(ctx)
	case actionPaste:
		c.paste()
	case actionRevertCrop:
		if s.RevertCrop() {
			c.say("crop reverted")
		}
	case actionClear:
		if s.ClearAll() {
			c.say("cleared all edits")
		}
	case actionReset:
		if s.ResetAdjustments() {
			c.say("adjustments reset")
		}
	case actionQuit:
		c.quit = true
	case actionBrightnessDown, actionBrightnessUp,
		actionContrastDown, actionContrastUp,
		actionSaturationDown, actionSaturationUp:
		c.step(action)
	default:
		return false
	}
	return true
}

// crop enters the crop tool, or cycles the aspect mode when it is
// already active.
func (c *controller) crop() {
	s := c.sess
	mode := s.CropMode()
	if s.Tool() == session.Crop {
		mode = mode.Next()
	}
	if s.BeginCrop(mode) {
		c.say("crop: " + mode.String())
	}
}

func (c *controller) apply(ctx context.Context) {
	s := c.sess
	switch s.Tool() {
	case session.Crop:
		if s.ApplyCrop() {
			s.SelectTool(session.Draw)
			c.say("cropped")
		}
	case session.Adjust:
		ok, err := s.ApplyAdjustments(ctx)
		if err != nil {
			log.Printf("adjust: %v", err)
			c.say("adjust failed")
			return
		}
		if ok {
			c.say("adjustments applied")
		}
	}
}

func (c *controller) cancel() {
	s := c.sess
	switch s.Tool() {
	case session.Crop:
		s.CancelCrop()
		s.SelectTool(session.Draw)
	case session.Adjust:
		s.DiscardAdjustments()
		s.SelectTool(session.Draw)
	default:
		s.HandlePointer(session.PointerEvent{Phase: session.Cancel, PointerCount: 1})
	}
}

func (c *controller) step(action string) {
	s := c.sess
	if s.Tool() != session.Adjust {
		s.SelectTool(session.Adjust)
	}
	p := s.PreviewAdjustments()
	switch action {
	case actionBrightnessDown:
		p.Brightness -= brightnessStep
	case actionBrightnessUp:
		p.Brightness += brightnessStep
	case actionContrastDown:
		p.Contrast -= factorStep
	case actionContrastUp:
		p.Contrast += factorStep
	case actionSaturationDown:
		p.Saturation -= factorStep
	case actionSaturationUp:
		p.Saturation += factorStep
	}
	s.SetAdjustments(p)
	c.say(s.PreviewAdjustments().String())
}

func (c *controller) save(ctx context.Context) {
	img, err := c.sess.Flatten(ctx)
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	if err := c.writeFile(c.output, img); err != nil {
		log.Printf("save: %v", err)
		c.say("save failed")
		return
	}
	c.say(fmt.Sprintf("saved %s", c.output))
	log.Print(c.message)
	c.notifier.Save(c.output)
}

func (c *controller) copy(ctx context.Context) {
	img, err := c.sess.Flatten(ctx)
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if err := c.copyImage(img); err != nil {
		log.Printf("copy: %v", err)
		c.say("copy failed")
		return
	}
	c.say("image copied to clipboard")
	log.Print(c.message)
	c.notifier.Copy("image", img)
}

func (c *controller) paste() {
	img, err := c.readImage()
	if err != nil {
		log.Printf("paste: %v", err)
		c.say("nothing to paste")
		return
	}
	if err := c.sess.Load(img); err != nil {
		log.Printf("paste: %v", err)
		return
	}
	c.say("pasted image")
}

func (c *controller) say(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageTTL)
}

// currentMessage returns the status message while it is still fresh.
func (c *controller) currentMessage() string {
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return ""
	}
	return c.message
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("save: closing file: %v", cerr)
		}
		return err
	}
	return out.Close()
}
