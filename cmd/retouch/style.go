package main

import (
	"flag"
	"fmt"

	"github.com/example/retouch/internal/config"
	"github.com/example/retouch/internal/session"
)

// styleFlags are the paint and tool flags shared by edit and apply. Their
// defaults come from the loaded configuration.
type styleFlags struct {
	cfg config.Config
}

func (s *styleFlags) register(fs *flag.FlagSet, base *config.Config) {
	if base == nil {
		base = config.New()
	}
	s.cfg = *base
	fs.StringVar(&s.cfg.Color, "color", s.cfg.Color, "stroke color name or #RRGGBB[AA]")
	fs.Float64Var(&s.cfg.Width, "width", s.cfg.Width, "stroke width in image pixels")
	fs.Float64Var(&s.cfg.Opacity, "opacity", s.cfg.Opacity, "stroke opacity between 0 and 1")
	fs.StringVar(&s.cfg.Stroke, "stroke", s.cfg.Stroke, "stroke kind: pen, circle or square")
	fs.StringVar(&s.cfg.CropMode, "crop-mode", s.cfg.CropMode, "crop aspect: freeform, square, portrait or landscape")
}

// session builds an empty edit session from the flag values.
func (s *styleFlags) session(opts ...session.Option) (*session.Session, error) {
	if s.cfg.Opacity < 0 || s.cfg.Opacity > 1 {
		return nil, fmt.Errorf("opacity must be between 0 and 1, got %v", s.cfg.Opacity)
	}
	style, err := s.cfg.Style()
	if err != nil {
		return nil, err
	}
	kind, err := s.cfg.StrokeKind()
	if err != nil {
		return nil, err
	}
	mode, err := s.cfg.CropModeValue()
	if err != nil {
		return nil, err
	}
	base := []session.Option{
		session.WithStyle(style),
		session.WithStrokeKind(kind),
		session.WithCropMode(mode),
		session.WithCropOptions(s.cfg.CropOptions()...),
	}
	return session.New(append(base, opts...)...), nil
}
