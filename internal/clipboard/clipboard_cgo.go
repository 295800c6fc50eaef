//go:build (linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo

package clipboard

import (
	"runtime"

	"golang.design/x/clipboard"
)

func initBackend() error {
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" && !hasDisplay() {
		return errNoDisplay
	}
	return clipboard.Init()
}

func writePNG(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func readPNG() ([]byte, error) {
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return data, nil
}
