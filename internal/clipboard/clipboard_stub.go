//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard images are not supported on this platform")

// WriteImage always fails on platforms without a clipboard backend.
func WriteImage(image.Image) error { return errUnsupported }

// ReadImage always fails on platforms without a clipboard backend.
func ReadImage() (image.Image, error) { return nil, errUnsupported }
