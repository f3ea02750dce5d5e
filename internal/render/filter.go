package render

import (
	"image"
	"math"
)

// Rec. 709 luminance weights, as used by the CSS grayscale() filter.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// applyFilters runs brightness, then blur, then grayscale over img in place.
// img holds premultiplied colour, so every channel stays at or below alpha.
func applyFilters(img *image.RGBA, p Params) {
	if img == nil || img.Bounds().Empty() {
		return
	}
	if p.Brightness != 100 {
		brightness(img, math.Max(0, p.Brightness)/100)
	}
	if p.Blur > 0 {
		gaussianBlur(img, p.Blur)
	}
	if p.Grayscale > 0 {
		grayscale(img, math.Min(1, p.Grayscale/100))
	}
}

func brightness(img *image.RGBA, factor float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			a := float64(row[i+3])
			for c := 0; c < 3; c++ {
				row[i+c] = clampChannel(float64(row[i+c])*factor, a)
			}
		}
	}
}

func grayscale(img *image.RGBA, amount float64) {
	keep := 1 - amount
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			r, g, bl := float64(row[i]), float64(row[i+1]), float64(row[i+2])
			lum := lumR*r + lumG*g + lumB*bl
			a := float64(row[i+3])
			row[i] = clampChannel(lum*amount+r*keep, a)
			row[i+1] = clampChannel(lum*amount+g*keep, a)
			row[i+2] = clampChannel(lum*amount+bl*keep, a)
		}
	}
}

func clampChannel(v, limit float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > limit {
		v = limit
	}
	return uint8(v)
}

// gaussianKernel returns a normalised 1D kernel covering three standard
// deviations either side of the centre.
func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(sigma * 3))
	kernel := make([]float64, half*2+1)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlur is a separable blur: a horizontal pass into a float buffer
// followed by a vertical pass back into img. Samples beyond the surface are
// transparent black, so edges fade the way a canvas blur() filter does.
func gaussianBlur(img *image.RGBA, sigma float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	kernel := gaussianKernel(sigma)
	half := len(kernel) / 2
	tmp := make([]float64, w*h*4)

	for y := 0; y < h; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			var acc [4]float64
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= w {
					continue
				}
				src := row + kx*4
				for c := 0; c < 4; c++ {
					acc[c] += float64(img.Pix[src+c]) * weight
				}
			}
			copy(tmp[(y*w+x)*4:], acc[:])
		}
	}

	for y := 0; y < h; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			var acc [4]float64
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= h {
					continue
				}
				src := (ky*w + x) * 4
				for c := 0; c < 4; c++ {
					acc[c] += tmp[src+c] * weight
				}
			}
			dst := row + x*4
			a := clampChannel(acc[3], 255)
			img.Pix[dst+3] = a
			for c := 0; c < 3; c++ {
				img.Pix[dst+c] = clampChannel(acc[c], float64(a))
			}
		}
	}
}
