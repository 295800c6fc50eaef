package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geometry"
	"github.com/example/retouch/internal/session"
	"github.com/example/retouch/internal/stroke"
	"github.com/example/retouch/internal/theme"
)

// applyCmd replays an edit script through a session without opening a
// window and writes the flattened result.
type applyCmd struct {
	file          string
	script        string
	output        string
	fromClipboard bool
	toClipboard   bool
	style         styleFlags
	*root
	fs *flag.FlagSet
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	cmd := &applyCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "image to edit")
	fs.BoolVar(&cmd.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.StringVar(&cmd.script, "script", "", "edit script to replay, - for stdin")
	fs.StringVar(&cmd.output, "output", "", "path of the flattened result")
	fs.BoolVar(&cmd.toClipboard, "to-clipboard", false, "copy the flattened result to the clipboard")
	cmd.style.register(fs, r.config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.script == "" || (cmd.file == "" && !cmd.fromClipboard) {
		return nil, &UsageError{of: cmd}
	}
	if cmd.output == "" && !cmd.toClipboard {
		if cmd.fromClipboard {
			return nil, fmt.Errorf("output file is required when reading from the clipboard")
		}
		cmd.output = cmd.file
	}
	return cmd, nil
}

func (a *applyCmd) Run() error {
	ops, err := a.readScript()
	if err != nil {
		return err
	}
	img, err := loadInput(a.file, a.fromClipboard)
	if err != nil {
		return err
	}
	sess, err := a.style.session()
	if err != nil {
		return err
	}
	if err := sess.Load(img); err != nil {
		return err
	}
	size := sess.Current().Size()
	sess.Resize(size.W, size.H)

	ctx := context.Background()
	if err := runScript(ctx, sess, ops); err != nil {
		return err
	}
	out, err := sess.Flatten(ctx)
	if err != nil {
		return err
	}
	if a.output != "" {
		if err := writePNG(a.output, out); err != nil {
			return err
		}
		a.root.notifySave(a.output)
	}
	if a.toClipboard {
		if err := writeClipboardFn(out); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		if a.root != nil && a.root.notifier != nil {
			a.root.notifier.Copy("edited image", out)
		}
	}
	return nil
}

func (a *applyCmd) readScript() ([]scriptOp, error) {
	if a.script == "-" {
		return parseScript(os.Stdin)
	}
	f, err := os.Open(a.script)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return parseScript(f)
}

// scriptOp is one parsed script line.
type scriptOp struct {
	line int
	name string
	run  func(ctx context.Context, s *session.Session) error
}

// ScriptError reports a script line that failed to parse or run.
type ScriptError struct {
	Line int
	Op   string
	Err  error
}

func (e *ScriptError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

func parseScript(r io.Reader) ([]scriptOp, error) {
	var ops []scriptOp
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		name := strings.ToLower(fields[0])
		run, err := compileOp(name, fields[1:])
		if err != nil {
			return nil, &ScriptError{Line: lineNum, Op: name, Err: err}
		}
		ops = append(ops, scriptOp{line: lineNum, name: name, run: run})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ops, nil
}

func runScript(ctx context.Context, s *session.Session, ops []scriptOp) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := op.run(ctx, s); err != nil {
			return &ScriptError{Line: op.line, Op: op.name, Err: err}
		}
	}
	return nil
}

type opFunc = func(ctx context.Context, s *session.Session) error

func compileOp(name string, args []string) (opFunc, error) {
	switch name {
	case "view":
		v, err := floats(args, 2, 2)
		if err != nil {
			return nil, err
		}
		if v[0] <= 0 || v[1] <= 0 {
			return nil, fmt.Errorf("view size must be positive")
		}
		return func(_ context.Context, s *session.Session) error {
			s.Resize(v[0], v[1])
			return nil
		}, nil
	case "color":
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		c, err := theme.ParseColor(args[0])
		if err != nil {
			return nil, err
		}
		return styleOp(func(st *stroke.Style) { st.Color = c }), nil
	case "width":
		v, err := floats(args, 1, 1)
		if err != nil {
			return nil, err
		}
		if v[0] <= 0 {
			return nil, fmt.Errorf("width must be positive")
		}
		return styleOp(func(st *stroke.Style) { st.Width = v[0] }), nil
	case "opacity":
		v, err := floats(args, 1, 1)
		if err != nil {
			return nil, err
		}
		if v[0] < 0 || v[0] > 1 {
			return nil, fmt.Errorf("opacity must be between 0 and 1")
		}
		return styleOp(func(st *stroke.Style) { st.Opacity = v[0] }), nil
	case "tool":
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		t, err := session.ParseTool(args[0])
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, s *session.Session) error {
			s.SelectTool(t)
			return nil
		}, nil
	case "stroke":
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		k, err := stroke.ParseKind(args[0])
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, s *session.Session) error {
			s.SetStrokeKind(k)
			return nil
		}, nil
	case "press", "move":
		v, err := floats(args, 2, 3)
		if err != nil {
			return nil, err
		}
		count := 1
		if len(v) == 3 {
			count = int(v[2])
			if count < 1 || float64(count) != v[2] {
				return nil, fmt.Errorf("pointer count must be a positive integer")
			}
		}
		phase := session.Press
		if name == "move" {
			phase = session.Move
		}
		return pointerOp(phase, geometry.Pt(v[0], v[1]), count), nil
	case "release":
		v, err := floats(args, 2, 2)
		if err != nil {
			return nil, err
		}
		return pointerOp(session.Release, geometry.Pt(v[0], v[1]), 1), nil
	case "cancel":
		if err := arity(args, 0, 0); err != nil {
			return nil, err
		}
		return pointerOp(session.Cancel, geometry.Point{}, 1), nil
	case "crop":
		if err := arity(args, 0, 1); err != nil {
			return nil, err
		}
		var spec string
		if len(args) == 1 {
			spec = args[0]
		}
		mode, err := crop.ParseMode(spec)
		if err != nil {
			return nil, err
		}
		return func(_ context.Context, s *session.Session) error {
			if !s.BeginCrop(mode) {
				return fmt.Errorf("no image to crop")
			}
			return nil
		}, nil
	case "apply-crop":
		return simpleOp(args, func(s *session.Session) error {
			if !s.ApplyCrop() {
				return fmt.Errorf("no crop to apply")
			}
			return nil
		})
	case "cancel-crop":
		return simpleOp(args, func(s *session.Session) error {
			s.CancelCrop()
			return nil
		})
	case "revert-crop":
		return simpleOp(args, func(s *session.Session) error {
			s.RevertCrop()
			return nil
		})
	case "adjust":
		v, err := floats(args, 3, 3)
		if err != nil {
			return nil, err
		}
		p := adjust.Params{Brightness: v[0], Contrast: v[1], Saturation: v[2]}
		return func(_ context.Context, s *session.Session) error {
			s.SelectTool(session.Adjust)
			s.SetAdjustments(p)
			return nil
		}, nil
	case "apply-adjust":
		if err := arity(args, 0, 0); err != nil {
			return nil, err
		}
		return func(ctx context.Context, s *session.Session) error {
			_, err := s.ApplyAdjustments(ctx)
			return err
		}, nil
	case "reset-adjust":
		return simpleOp(args, func(s *session.Session) error {
			s.ResetAdjustments()
			return nil
		})
	case "undo":
		return simpleOp(args, func(s *session.Session) error {
			if !s.Undo() {
				return fmt.Errorf("nothing to undo")
			}
			return nil
		})
	case "redo":
		return simpleOp(args, func(s *session.Session) error {
			if !s.Redo() {
				return fmt.Errorf("nothing to redo")
			}
			return nil
		})
	case "clear":
		return simpleOp(args, func(s *session.Session) error {
			s.ClearAll()
			return nil
		})
	}
	return nil, fmt.Errorf("unknown command")
}

func simpleOp(args []string, fn func(*session.Session) error) (opFunc, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return func(_ context.Context, s *session.Session) error { return fn(s) }, nil
}

func styleOp(edit func(*stroke.Style)) opFunc {
	return func(_ context.Context, s *session.Session) error {
		st := s.Style()
		edit(&st)
		s.SetStyle(st)
		return nil
	}
}

func pointerOp(phase session.Phase, p geometry.Point, count int) opFunc {
	return func(_ context.Context, s *session.Session) error {
		s.HandlePointer(session.PointerEvent{Phase: phase, Pos: p, PointerCount: count})
		return nil
	}
}

func arity(args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("expected %d arguments, got %d", lo, len(args))
		}
		return fmt.Errorf("expected %d to %d arguments, got %d", lo, hi, len(args))
	}
	return nil
}

func floats(args []string, lo, hi int) ([]float64, error) {
	if err := arity(args, lo, hi); err != nil {
		return nil, err
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
