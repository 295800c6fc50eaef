// Package clipboard exchanges images with the system clipboard as PNG.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrNoImage is returned when the clipboard holds no PNG data.
	ErrNoImage = errors.New("clipboard does not contain image data")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() { initErr = initBackend() })
	return initErr
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encode(img)
	if err != nil {
		return err
	}
	return writePNG(data)
}

// ReadImage returns the clipboard image converted to RGBA at the origin.
func ReadImage() (*image.RGBA, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := readPNG()
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst, nil
}
