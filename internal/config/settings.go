package config

import (
	"fmt"

	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/stroke"
	"github.com/example/retouch/internal/theme"
)

// Style returns the configured paint style.
func (c *Config) Style() (stroke.Style, error) {
	col, err := theme.ParseColor(c.Color)
	if err != nil {
		return stroke.Style{}, fmt.Errorf("color: %w", err)
	}
	return stroke.Style{Color: col, Width: c.Width, Opacity: c.Opacity}.Normalize(), nil
}

// StrokeKind returns the configured default stroke kind.
func (c *Config) StrokeKind() (stroke.Kind, error) {
	if c.Stroke == "" {
		return stroke.Pen, nil
	}
	return stroke.ParseKind(c.Stroke)
}

// CropModeValue returns the configured default crop mode.
func (c *Config) CropModeValue() (crop.Mode, error) {
	if c.CropMode == "" {
		return crop.Freeform, nil
	}
	return crop.ParseMode(c.CropMode)
}

// CropOptions returns manipulator options for non-zero crop settings.
func (c *Config) CropOptions() []crop.Option {
	var opts []crop.Option
	if c.Crop.HandleRadius > 0 {
		opts = append(opts, crop.WithHitRadius(c.Crop.HandleRadius))
	}
	if c.Crop.MinSize > 0 {
		opts = append(opts, crop.WithMinSize(c.Crop.MinSize))
	}
	return opts
}
