// Package render produces the displayed raster from the base image, the
// transform and filter parameters, and the layer list.
package render

import (
	"image"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/quarkedit/internal/layer"
)

// Options controls how Render draws layers.
type Options struct {
	// Faces renders text and glyph stickers. Nil falls back to badges for
	// stickers and skips text layers.
	Faces *Faces
	// Logger receives per-layer draw failures. Nil discards them.
	Logger *slog.Logger
	// TextShadow, when set, casts a soft shadow under text layers.
	TextShadow *Shadow
}

// Transform returns the source-to-destination matrix that scales a w×h
// source by p.Scale, rotates it by p.Rotation about its centre and centres
// it on an rw×rh surface.
func Transform(w, h, rw, rh int, p Params) f64.Aff3 {
	cos, sin := trig(p.Rotation)
	s := p.Scale
	hw, hh := float64(w)/2, float64(h)/2
	cx, cy := float64(rw)/2, float64(rh)/2
	return f64.Aff3{
		s * cos, -s * sin, cx - s*(cos*hw-sin*hh),
		s * sin, s * cos, cy - s*(sin*hw+cos*hh),
	}
}

// Render draws src through p onto a fresh surface sized by Bounds, applies
// the filters and then composites layers in order. It returns nil when src
// is nil. The same inputs always yield the same pixels.
func Render(src image.Image, p Params, layers []layer.Layer, opts Options) *image.RGBA {
	if src == nil {
		return nil
	}
	sb := src.Bounds()
	rw, rh := Bounds(sb.Dx(), sb.Dy(), p)
	dst := image.NewRGBA(image.Rect(0, 0, rw, rh))
	if dst.Bounds().Empty() || sb.Empty() {
		return dst
	}

	m := Transform(sb.Dx(), sb.Dy(), rw, rh, p)
	// Transform maps absolute source coordinates, so shift by the origin.
	m[2] -= m[0]*float64(sb.Min.X) + m[1]*float64(sb.Min.Y)
	m[5] -= m[3]*float64(sb.Min.X) + m[4]*float64(sb.Min.Y)
	xdraw.CatmullRom.Transform(dst, m, src, sb, xdraw.Over, nil)

	applyFilters(dst, p)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, l := range layers {
		if err := drawLayer(dst, l, opts); err != nil {
			logger.Warn("layer draw failed", "id", l.ID, "kind", l.Kind, "err", err)
		}
	}
	return dst
}
