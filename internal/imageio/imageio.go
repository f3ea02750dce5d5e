// Package imageio decodes user images and encodes exports.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality matches a 0.92 encoder quality.
const DefaultJPEGQuality = 92

var (
	// ErrDecode wraps every failure to read an image.
	ErrDecode = errors.New("decode image")
	// ErrUnsupportedFormat is returned for export formats other than PNG and JPEG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Format is an export encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
)

// ParseFormat accepts png, jpg and jpeg in any case. An empty string is PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// Decode reads any registered image format and returns it as zero-origin RGBA.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, kind, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ToRGBA(img), kind, nil
}

// ToRGBA copies img into a zero-origin RGBA raster. Zero-origin RGBA input
// is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Encode writes img in format. quality applies to JPEG only; values outside
// 1..100 use DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case PNG, "":
		return png.Encode(w, img)
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

// ExportName builds the download name for an export. A blank base becomes
// "export" and any directory or extension on base is dropped.
func ExportName(base string, format Format) string {
	base = strings.TrimSpace(filepath.Base(base))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "export"
	}
	if format == "" {
		format = PNG
	}
	return base + "." + format.Ext()
}
