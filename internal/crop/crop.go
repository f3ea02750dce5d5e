// Package crop extracts rectangular regions of the displayed raster and
// tracks the pointer-driven selection used to pick them.
package crop

import (
	"image"
	"image/draw"
)

// Clamp normalises r, clips it to bounds and enforces a minimum size of one
// pixel in each direction. ok is false when r lies entirely outside bounds.
func Clamp(r, bounds image.Rectangle) (image.Rectangle, bool) {
	r = r.Canon()
	if r.Dx() == 0 {
		r.Max.X = r.Min.X + 1
	}
	if r.Dy() == 0 {
		r.Max.Y = r.Min.Y + 1
	}
	r = r.Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}

// Extract copies r out of src into a new zero-origin raster. Parts of r
// outside src stay transparent. An empty r returns nil.
func Extract(src *image.RGBA, r image.Rectangle) *image.RGBA {
	if src == nil || r.Empty() {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	in := r.Intersect(src.Bounds())
	if !in.Empty() {
		draw.Draw(out, in.Sub(r.Min), src, in.Min, draw.Src)
	}
	return out
}

// Selection is the rubber-band rectangle drawn while crop mode is on. The
// anchor is where the pointer went down; the opposite corner follows the
// pointer but never comes closer than one pixel.
type Selection struct {
	start    image.Point
	rect     image.Rectangle
	has      bool
	dragging bool
}

// Begin anchors a new selection at p.
func (s *Selection) Begin(p image.Point) {
	s.start = p
	s.rect = image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
	s.has = true
	s.dragging = true
}

// Update stretches the selection towards p.
func (s *Selection) Update(p image.Point) {
	if !s.dragging {
		return
	}
	w := max(1, p.X-s.start.X)
	h := max(1, p.Y-s.start.Y)
	s.rect = image.Rect(s.start.X, s.start.Y, s.start.X+w, s.start.Y+h)
}

// End stops following the pointer. The rectangle is kept.
func (s *Selection) End() { s.dragging = false }

// Active reports whether the pointer is still shaping the selection.
func (s *Selection) Active() bool { return s.dragging }

// Set replaces the selection with r.
func (s *Selection) Set(r image.Rectangle) {
	r = r.Canon()
	s.start = r.Min
	s.rect = r
	s.has = !r.Empty()
	s.dragging = false
}

// Rect returns the current selection.
func (s *Selection) Rect() (image.Rectangle, bool) {
	return s.rect, s.has
}

// Clear drops the selection.
func (s *Selection) Clear() { *s = Selection{} }
