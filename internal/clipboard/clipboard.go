// Package clipboard copies edited images to, and pastes source images from,
// the system clipboard. Copies are published as PNG; pastes accept any format
// imageio can decode.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/example/quarkedit/internal/imageio"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned by ReadImage when the clipboard holds no image.
	ErrEmpty = errors.New("clipboard does not contain image data")
)

// pasteTargets lists the MIME types ReadImage asks for, best first.
var pasteTargets = []string{"image/png", "image/webp", "image/jpeg", "image/bmp", "image/tiff", "image/gif"}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("no image to copy")
	}
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, imageio.PNG, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("clipboard: %w", err)
	}
	return img, nil
}
