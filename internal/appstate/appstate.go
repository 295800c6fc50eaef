// Package appstate hosts an edit session in a desktop window.
package appstate

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	xdraw "golang.org/x/image/draw"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/stroke"
	"github.com/example/retouch/internal/theme"
)

const (
	titleHeight  = 24
	statusHeight = 24
	buttonHeight = 24
	handleSize   = 8
	checkerCell  = 8
)

var toolbarWidth = 72

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element. Action names the
// controller action a click triggers.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	Action() string
}

// ToolButton is a toolbar entry bound to a controller action.
type ToolButton struct {
	label  string
	action string
	rect   image.Rectangle
	// active reports whether the button shows as pressed.
	active func(st *paintState) bool
}

var _ Button = (*ToolButton)(nil)

func (tb *ToolButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	c := th.ButtonBackground
	switch state {
	case StateHover:
		c = blend(th.ButtonBackground, th.ButtonActive)
	case StatePressed:
		c = th.ButtonActive
	}
	fill(dst, tb.rect, c)
	drawRect(dst, tb.rect, th.ButtonBorder, 1)
	label(dst, tb.label, tb.rect.Min.X+4, tb.rect.Min.Y+16, th.ButtonText)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) Action() string { return tb.action }

// Shortcut is a clickable hint in the status bar.
type Shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

var _ Button = (*Shortcut)(nil)

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	col := th.ButtonBackground
	if state != StateDefault {
		col = th.ButtonActive
	}
	fill(dst, s.rect, col)
	drawRect(dst, s.rect, th.ButtonBorder, 1)
	label(dst, s.label, s.rect.Min.X+2, s.rect.Min.Y+14, th.ButtonText)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

func (s *Shortcut) Action() string { return s.action }

func toolIs(t session.Tool) func(*paintState) bool {
	return func(st *paintState) bool { return st.tool == t }
}

func strokeIs(k stroke.Kind) func(*paintState) bool {
	return func(st *paintState) bool { return st.tool == session.Draw && st.strokeKind == k }
}

func toolbarButtons() []*ToolButton {
	return []*ToolButton{
		{label: "P:Pen", action: actionPen, active: strokeIs(stroke.Pen)},
		{label: "O:Circle", action: actionCircle, active: strokeIs(stroke.Circle)},
		{label: "X:Square", action: actionSquare, active: strokeIs(stroke.Square)},
		{label: "R:Crop", action: actionCrop, active: toolIs(session.Crop)},
		{label: "J:Adjust", action: actionAdjust, active: toolIs(session.Adjust)},
		{label: "Undo", action: actionUndo},
		{label: "Redo", action: actionRedo},
	}
}

// fitToolbar widens the toolbar so every label fits.
func fitToolbar() {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString("Retouch").Ceil() + 8
	for _, b := range toolbarButtons() {
		if w := d.MeasureString(b.label).Ceil() + 8; w > max {
			max = w
		}
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}
}

// layoutToolbar positions the toolbar buttons below the title bar.
func layoutToolbar() []*ToolButton {
	buttons := toolbarButtons()
	y := titleHeight
	for _, b := range buttons {
		b.rect = image.Rect(0, y, toolbarWidth, y+buttonHeight)
		y += buttonHeight
	}
	return buttons
}

func statusShortcuts(tool session.Tool) []*Shortcut {
	var out []*Shortcut
	switch tool {
	case session.Crop:
		out = append(out,
			&Shortcut{label: "Enter:crop", action: actionApply},
			&Shortcut{label: "R:aspect", action: actionCrop},
			&Shortcut{label: "Esc:cancel", action: actionCancel},
		)
	case session.Adjust:
		out = append(out,
			&Shortcut{label: "Enter:apply", action: actionApply},
			&Shortcut{label: "0:reset", action: actionReset},
			&Shortcut{label: "Esc:cancel", action: actionCancel},
		)
	}
	return append(out,
		&Shortcut{label: "^Z:undo", action: actionUndo},
		&Shortcut{label: "^Y:redo", action: actionRedo},
		&Shortcut{label: "^C:copy", action: actionCopy},
		&Shortcut{label: "^V:paste", action: actionPaste},
		&Shortcut{label: "^S:save", action: actionSave},
		&Shortcut{label: "Bksp:uncrop", action: actionRevertCrop},
		&Shortcut{label: "Del:clear", action: actionClear},
		&Shortcut{label: "Q:quit", action: actionQuit},
	)
}

// layoutStatus positions the status bar shortcuts for a window of the
// given size.
func layoutStatus(width, height int, tool session.Tool) []*Shortcut {
	shortcuts := statusShortcuts(tool)
	x := toolbarWidth + 4
	y := height - statusHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for _, sc := range shortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = sc.rect.Max.X + 8
	}
	return shortcuts
}

// canvasRect is the window area the session view occupies.
func canvasRect(width, height int) image.Rectangle {
	if width <= toolbarWidth || height <= titleHeight+statusHeight {
		return image.Rectangle{}
	}
	return image.Rect(toolbarWidth, titleHeight, width, height-statusHeight)
}

// hitButton returns the action of the button under p.
func hitButton[B Button](buttons []B, p image.Point) (string, int) {
	for i, b := range buttons {
		if p.In(b.Rect()) {
			return b.Action(), i
		}
	}
	return "", -1
}

func drawTitle(dst *image.RGBA, th *theme.Theme, st *paintState) {
	r := image.Rect(0, 0, dst.Bounds().Dx(), titleHeight)
	fill(dst, r, th.ToolbarBackground)
	label(dst, "Retouch", 4, 16, th.Foreground)
	if st.state == nil {
		return
	}
	sz := st.state.Size()
	info := fmt.Sprintf("%.0fx%.0f  strokes %d  tool %s", sz.W, sz.H, st.state.StrokeCount(), st.tool)
	if st.tool == session.Crop {
		info += " (" + st.cropMode.String() + ")"
	}
	label(dst, info, toolbarWidth+4, 16, th.Foreground)
}

func drawToolbar(dst *image.RGBA, th *theme.Theme, st *paintState) {
	fill(dst, image.Rect(0, titleHeight, toolbarWidth, dst.Bounds().Dy()-statusHeight), th.ToolbarBackground)
	buttons := layoutToolbar()
	y := titleHeight
	for i, b := range buttons {
		state := StateDefault
		switch {
		case b.active != nil && b.active(st):
			state = StatePressed
		case i == st.hoverTool:
			state = StateHover
		}
		if (b.action == actionUndo && !st.canUndo) || (b.action == actionRedo && !st.canRedo) {
			state = StateDefault
		}
		b.Draw(dst, th, state)
		y = b.rect.Max.Y
	}

	// current paint swatch
	y += 6
	sw := image.Rect(4, y, toolbarWidth-4, y+16)
	fill(dst, sw, st.style.Paint())
	drawRect(dst, sw, th.ButtonBorder, 1)
	y += 30
	label(dst, fmt.Sprintf("w %.0f", st.style.Width), 4, y, th.Foreground)
	y += 16
	label(dst, fmt.Sprintf("a %.0f%%", st.style.Opacity*100), 4, y, th.Foreground)

	if st.tool == session.Adjust {
		y += 24
		for _, l := range adjustLines(st.preview) {
			label(dst, l, 4, y, th.Foreground)
			y += 16
		}
	}
}

func adjustLines(p adjust.Params) []string {
	return []string{
		fmt.Sprintf("bri %+.2f", p.Brightness),
		fmt.Sprintf("con %.2f", p.Contrast),
		fmt.Sprintf("sat %.2f", p.Saturation),
	}
}

func drawStatus(dst *image.RGBA, th *theme.Theme, st *paintState) {
	r := image.Rect(0, st.height-statusHeight, st.width, st.height)
	fill(dst, r, th.ToolbarBackground)
	for i, sc := range layoutStatus(st.width, st.height, st.tool) {
		state := StateDefault
		if i == st.hoverShortcut {
			state = StateHover
		}
		sc.Draw(dst, th, state)
	}
}

func drawMessage(dst *image.RGBA, th *theme.Theme, msg string, width, height int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := color.NRGBA{R: th.Background.R, G: th.Background.G, B: th.Background.B, A: 230}
	xdraw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, xdraw.Over)
	drawRect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func label(dst *image.RGBA, s string, x, y int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: uint8((int(a.A) + int(b.A)) / 2),
	}
}

// drawRect outlines rect with a border of thick pixels drawn inwards.
func drawRect(dst *image.RGBA, rect image.Rectangle, c color.Color, thick int) {
	if rect.Empty() {
		return
	}
	u := image.NewUniform(c)
	for _, r := range []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick),
		image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y),
		image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y),
	} {
		xdraw.Draw(dst, r.Intersect(rect), u, image.Point{}, xdraw.Src)
	}
}

// drawDashedRect outlines rect alternating c1 and c2 every dash pixels.
func drawDashedRect(dst *image.RGBA, rect image.Rectangle, dash int, c1, c2 color.Color) {
	if rect.Empty() || dash <= 0 {
		return
	}
	set := func(x, y, i int) {
		if (i/dash)%2 == 0 {
			dst.Set(x, y, c1)
		} else {
			dst.Set(x, y, c2)
		}
	}
	i := 0
	for x := rect.Min.X; x < rect.Max.X; x++ {
		set(x, rect.Min.Y, i)
		set(x, rect.Max.Y-1, i)
		i++
	}
	i = 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		set(rect.Min.X, y, i)
		set(rect.Max.X-1, y, i)
		i++
	}
}
