package crop

import (
	"image"
	"image/color"
	"testing"
)

func TestExtract(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	src.SetRGBA(10, 10, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(39, 49, color.RGBA{0, 255, 0, 255})

	out := Extract(src, image.Rect(10, 10, 40, 50))
	if out.Bounds() != image.Rect(0, 0, 30, 40) {
		t.Fatalf("bounds = %v, want 30x40", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("top-left = %v", got)
	}
	if got := out.RGBAAt(29, 39); got != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("bottom-right = %v", got)
	}
}

func TestExtractPartiallyOutside(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	out := Extract(src, image.Rect(5, 5, 15, 15))
	if out.Bounds().Dx() != 10 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if out.RGBAAt(0, 0).A != 255 || out.RGBAAt(9, 9).A != 0 {
		t.Fatal("expected opaque inside and transparent outside the source")
	}
	if Extract(src, image.Rectangle{}) != nil {
		t.Fatal("empty rect should return nil")
	}
	if Extract(nil, image.Rect(0, 0, 1, 1)) != nil {
		t.Fatal("nil source should return nil")
	}
}

func TestClamp(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)
	tests := []struct {
		name string
		in   image.Rectangle
		want image.Rectangle
		ok   bool
	}{
		{"inside", image.Rect(10, 10, 30, 40), image.Rect(10, 10, 30, 40), true},
		{"reversed", image.Rectangle{Min: image.Pt(30, 40), Max: image.Pt(10, 10)}, image.Rect(10, 10, 30, 40), true},
		{"overhang", image.Rect(90, 70, 120, 100), image.Rect(90, 70, 100, 80), true},
		{"degenerate", image.Rect(5, 5, 5, 5), image.Rect(5, 5, 6, 6), true},
		{"outside", image.Rect(200, 200, 220, 220), image.Rectangle{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Clamp(tc.in, bounds)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("Clamp(%v) = %v %v, want %v %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestSelection(t *testing.T) {
	var s Selection
	if _, ok := s.Rect(); ok {
		t.Fatal("fresh selection has a rect")
	}
	s.Begin(image.Pt(10, 10))
	s.Update(image.Pt(40, 50))
	if r, _ := s.Rect(); r != image.Rect(10, 10, 40, 50) {
		t.Fatalf("rect = %v", r)
	}
	// Moving above or left of the anchor keeps a one pixel minimum.
	s.Update(image.Pt(0, 0))
	if r, _ := s.Rect(); r != image.Rect(10, 10, 11, 11) {
		t.Fatalf("rect = %v, want 1x1 minimum", r)
	}
	s.End()
	if s.Active() {
		t.Fatal("still active after End")
	}
	s.Update(image.Pt(90, 90))
	if r, _ := s.Rect(); r != image.Rect(10, 10, 11, 11) {
		t.Fatalf("rect changed after End: %v", r)
	}
	s.Clear()
	if _, ok := s.Rect(); ok {
		t.Fatal("rect survived Clear")
	}
	s.Set(image.Rect(1, 2, 3, 4))
	if r, ok := s.Rect(); !ok || r != image.Rect(1, 2, 3, 4) {
		t.Fatalf("Set -> %v %v", r, ok)
	}
}
