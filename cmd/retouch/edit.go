package main

import (
	"flag"
	"time"

	"github.com/example/retouch/internal/appstate"
)

// editCmd opens an image in the interactive editor window.
type editCmd struct {
	file          string
	output        string
	fromClipboard bool
	style         styleFlags
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	cmd := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "image to edit")
	fs.BoolVar(&cmd.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.StringVar(&cmd.output, "output", "", "path the edited image is saved to (default: timestamped file in save_dir)")
	cmd.style.register(fs, r.config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		if cmd.file != "" {
			return nil, &UsageError{of: cmd}
		}
		cmd.file = fs.Arg(0)
	}
	if cmd.file == "" && !cmd.fromClipboard {
		return nil, &UsageError{of: cmd}
	}
	if cmd.output == "" {
		cmd.output = defaultOutput(r.config.SaveDir, time.Now())
	}
	return cmd, nil
}

func (e *editCmd) Run() error {
	img, err := loadInput(e.file, e.fromClipboard)
	if err != nil {
		return err
	}
	sess, err := e.style.session()
	if err != nil {
		return err
	}
	if err := sess.Load(img); err != nil {
		return err
	}
	appstate.New(sess,
		appstate.WithOutput(e.output),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithNotifier(e.root.notifier),
	).Run()
	return nil
}
