package theme

import (
	"image/color"
	"reflect"
	"strings"
)

// Theme defines the color palette for the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Letterbox area around the image
	Foreground color.RGBA // Status line text

	// Toolbar
	ToolbarBackground color.RGBA
	ButtonBackground  color.RGBA
	ButtonActive      color.RGBA // Button of the selected tool
	ButtonText        color.RGBA
	ButtonBorder      color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Crop overlay
	CropBorder color.RGBA
	CropHandle color.RGBA
	CropShade  color.RGBA // Drawn over the image outside the crop rectangle
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{220, 220, 220, 255},
		Foreground:        color.RGBA{0, 0, 0, 255},
		ToolbarBackground: color.RGBA{220, 220, 220, 255},
		ButtonBackground:  color.RGBA{200, 200, 200, 255},
		ButtonActive:      color.RGBA{150, 150, 150, 255},
		ButtonText:        color.RGBA{0, 0, 0, 255},
		ButtonBorder:      color.RGBA{0, 0, 0, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		CropBorder:        color.RGBA{255, 255, 255, 255},
		CropHandle:        color.RGBA{255, 255, 255, 255},
		CropShade:         color.RGBA{0, 0, 0, 128},
	}
}

// ColorFields returns the names of every color field in declaration order.
func ColorFields() []string {
	typ := reflect.TypeOf(Theme{})
	rgba := reflect.TypeOf(color.RGBA{})
	var out []string
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); f.Type == rgba {
			out = append(out, f.Name)
		}
	}
	return out
}

// Color returns the named color field, matching the name case-insensitively.
func (t *Theme) Color(name string) (color.RGBA, bool) {
	f, ok := t.field(name)
	if !ok {
		return color.RGBA{}, false
	}
	return f.Interface().(color.RGBA), true
}

// SetColor sets the named color field. Unknown names are reported with
// false.
func (t *Theme) SetColor(name string, c color.RGBA) bool {
	f, ok := t.field(name)
	if !ok {
		return false
	}
	f.Set(reflect.ValueOf(c))
	return true
}

func (t *Theme) field(name string) (reflect.Value, bool) {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type == reflect.TypeOf(color.RGBA{}) && strings.EqualFold(f.Name, name) {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}
