package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/retouch/internal/clipboard"
)

var (
	readClipboardFn  = clipboard.ReadImage
	writeClipboardFn = clipboard.WriteImage
)

// loadInput reads the source image from path or, when fromClipboard is
// set, from the clipboard.
func loadInput(path string, fromClipboard bool) (image.Image, error) {
	if fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard image: %w", err)
		}
		return img, nil
	}
	if path == "" {
		return nil, errors.New("no input image: use -file or -from-clipboard")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// defaultOutput names a timestamped file in dir, or the working directory
// when dir is empty.
func defaultOutput(dir string, now time.Time) string {
	return filepath.Join(dir, "retouch-"+now.Format("20060102-150405")+".png")
}
