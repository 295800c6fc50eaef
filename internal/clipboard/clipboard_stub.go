//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) || ((darwin || windows) && cgo))

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard image operations are not supported on this platform")

func initBackend() error { return errUnsupported }

func writePNG([]byte) error { return errUnsupported }

func readPNG() ([]byte, error) { return nil, errUnsupported }
