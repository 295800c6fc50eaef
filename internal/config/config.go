package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/retouch/internal/theme"
)

const (
	DefaultColor    = "red"
	DefaultWidth    = 4.0
	DefaultOpacity  = 1.0
	DefaultStroke   = "pen"
	DefaultCropMode = "freeform"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Crop holds crop manipulator settings in view pixels. Zero means the
// built-in default.
type Crop struct {
	HandleRadius float64
	MinSize      float64
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	Color    string
	Width    float64
	Opacity  float64
	Stroke   string
	CropMode string
	Crop     Crop
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:    "", // Default to empty to allow fallback to Env/Default
		Color:    DefaultColor,
		Width:    DefaultWidth,
		Opacity:  DefaultOpacity,
		Stroke:   DefaultStroke,
		CropMode: DefaultCropMode,
		Themes:   make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "color = %s\n", c.Color)
	fmt.Fprintf(&sb, "width = %g\n", c.Width)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Opacity)
	fmt.Fprintf(&sb, "stroke = %s\n", c.Stroke)
	fmt.Fprintf(&sb, "crop_mode = %s\n", c.CropMode)
	sb.WriteString("\n")

	sb.WriteString("[crop]\n")
	fmt.Fprintf(&sb, "handle_radius = %g\n", c.Crop.HandleRadius)
	fmt.Fprintf(&sb, "min_size = %g\n", c.Crop.MinSize)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Encode(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

// ResolveTheme returns the named theme from the config's inline themes,
// then from the theme loader, falling back to the default theme.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if c.Theme == "" {
		return theme.Default(), nil
	}
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	return l.Load(c.Theme)
}
