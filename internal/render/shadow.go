package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow configures the soft shadow cast under text layers.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow returns a tight shadow that keeps captions legible on busy
// photos without reading as a visible effect.
func DefaultShadow() Shadow {
	return Shadow{
		Radius:  2,
		Offset:  image.Pt(1, 1),
		Opacity: 0.6,
	}
}

// drawTextShadow paints the blurred, offset silhouette of text below where
// DrawText would put it at pt.
func drawTextShadow(dst *image.RGBA, pt image.Point, text string, size float64, faces *Faces, s Shadow) error {
	opacity := min(s.Opacity, 1)
	if opacity <= 0 {
		return nil
	}
	radius := max(s.Radius, 0)
	w, h, err := faces.MeasureText(text, size)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, w+2*radius, h+2*radius))
	if err := faces.DrawText(mask, image.Pt(radius, radius), text, color.Opaque, size); err != nil {
		return err
	}
	blurred := blurAlpha(mask, radius)

	at := mask.Bounds().Add(pt.Sub(image.Pt(radius, radius)).Add(s.Offset))
	shade := image.NewUniform(color.RGBA{0, 0, 0, uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, at, shade, image.Point{}, blurred, image.Point{}, draw.Over)
	return nil
}

// blurAlpha runs a separable box blur of the given radius over src using
// running prefix sums. Samples past the edge are dropped, not clamped, so the
// silhouette fades out.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	out := image.NewAlpha(src.Bounds())
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := image.NewAlpha(src.Bounds())

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return out
}
