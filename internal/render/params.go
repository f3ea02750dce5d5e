package render

import "math"

// MinScale and MaxScale bound the accepted scale factor.
const (
	MinScale = 0.1
	MaxScale = 16
)

// Params are the transform and filter settings applied to the source raster.
// Any combination of values is valid.
type Params struct {
	Scale    float64
	Rotation float64 // degrees, clockwise on screen

	Brightness float64 // percent, 100 is unchanged
	Blur       float64 // Gaussian sigma in pixels
	Grayscale  float64 // percent desaturation, 0 is unchanged
}

// Identity returns parameters that reproduce the source unchanged.
func Identity() Params {
	return Params{Scale: 1, Brightness: 100}
}

// ClampScale keeps s within [MinScale, MaxScale]. NaN becomes MinScale.
func ClampScale(s float64) float64 {
	switch {
	case math.IsNaN(s) || s < MinScale:
		return MinScale
	case s > MaxScale:
		return MaxScale
	}
	return s
}

// FiltersIdentity reports whether the filter fields leave pixels untouched.
func (p Params) FiltersIdentity() bool {
	return p.Brightness == 100 && p.Blur <= 0 && p.Grayscale <= 0
}

const snapEpsilon = 1e-9

// snap removes floating point noise around whole numbers so right-angle
// rotations and whole scaled sizes produce exact integer bounds.
func snap(v float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) < snapEpsilon*math.Max(1, math.Abs(v)) {
		return r
	}
	return v
}

func trig(deg float64) (cos, sin float64) {
	rad := deg * math.Pi / 180
	return snap(math.Cos(rad)), snap(math.Sin(rad))
}

// Bounds returns the size of the output surface for a w×h source: the axis
// aligned bounding box of the scaled footprint rotated by p.Rotation.
func Bounds(w, h int, p Params) (rw, rh int) {
	sw := float64(w) * p.Scale
	sh := float64(h) * p.Scale
	cos, sin := trig(p.Rotation)
	cos, sin = math.Abs(cos), math.Abs(sin)
	rw = int(math.Ceil(snap(sw*cos + sh*sin)))
	rh = int(math.Ceil(snap(sw*sin + sh*cos)))
	return rw, rh
}
