package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/example/retouch/internal/theme"
)

// EnvPrefix prefixes every environment override, e.g. RETOUCH_WIDTH.
const EnvPrefix = "RETOUCH"

// envColor accepts any colour theme.ParseColor understands.
type envColor struct {
	value string
	set   bool
}

func (c *envColor) Decode(s string) error {
	if _, err := theme.ParseColor(s); err != nil {
		return err
	}
	c.value, c.set = s, true
	return nil
}

// env mirrors the overridable settings. Nil pointers are unset variables.
type env struct {
	Theme      *string  `envconfig:"THEME"`
	SaveDir    *string  `envconfig:"SAVE_DIR"`
	Color      envColor `envconfig:"COLOR"`
	Width      *float64 `envconfig:"WIDTH"`
	Opacity    *float64 `envconfig:"OPACITY"`
	Stroke     *string  `envconfig:"STROKE"`
	CropMode   *string  `envconfig:"CROP_MODE"`
	NotifySave *bool    `envconfig:"NOTIFY_SAVE"`
	NotifyCopy *bool    `envconfig:"NOTIFY_COPY"`
}

// ApplyEnv overrides cfg with any RETOUCH_* variables that are set.
func ApplyEnv(cfg *Config) error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if e.Width != nil && *e.Width < 0 {
		return fmt.Errorf("environment: %s_WIDTH must not be negative", EnvPrefix)
	}
	if e.Opacity != nil && (*e.Opacity < 0 || *e.Opacity > 1) {
		return fmt.Errorf("environment: %s_OPACITY must be between 0 and 1", EnvPrefix)
	}

	setString(&cfg.Theme, e.Theme)
	setString(&cfg.SaveDir, e.SaveDir)
	setString(&cfg.Stroke, e.Stroke)
	setString(&cfg.CropMode, e.CropMode)
	if e.Color.set {
		cfg.Color = e.Color.value
	}
	if e.Width != nil {
		cfg.Width = *e.Width
	}
	if e.Opacity != nil {
		cfg.Opacity = *e.Opacity
	}
	if e.NotifySave != nil {
		cfg.Notify.Save = *e.NotifySave
	}
	if e.NotifyCopy != nil {
		cfg.Notify.Copy = *e.NotifyCopy
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
