package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/retouch/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	c := &configCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *configCmd) Run() error {
	switch sub := c.fs.Arg(0); sub {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.root.config.String())
		return err
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", sub)
	}
}

func (c *configCmd) runSave() error {
	path := config.NewLoader(version, configPathOverride).GetConfigPath()
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("failed to determine config path")
	}
	if err := config.Save(c.root.config, path); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Configuration saved to %s\n", path)
	return nil
}
