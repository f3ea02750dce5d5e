package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/example/quarkedit/internal/layer"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		p      Params
		rw, rh int
	}{
		{"identity", 200, 100, Identity(), 200, 100},
		{"quarter turn", 200, 100, Params{Scale: 1, Rotation: 90}, 100, 200},
		{"negative quarter turn", 200, 100, Params{Scale: 1, Rotation: -90}, 100, 200},
		{"half turn", 200, 100, Params{Scale: 1, Rotation: 180}, 200, 100},
		{"full turn", 200, 100, Params{Scale: 1, Rotation: 360}, 200, 100},
		{"zoomed", 100, 50, Params{Scale: 1.1}, 110, 55},
		{"zoomed and turned", 100, 50, Params{Scale: 2, Rotation: 270}, 100, 200},
		{"diagonal", 100, 100, Params{Scale: 1, Rotation: 45}, 142, 142},
		{"minimum scale", 1, 1, Params{Scale: MinScale}, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rw, rh := Bounds(tc.w, tc.h, tc.p)
			if rw != tc.rw || rh != tc.rh {
				t.Fatalf("Bounds(%d, %d, %+v) = %dx%d, want %dx%d", tc.w, tc.h, tc.p, rw, rh, tc.rw, tc.rh)
			}
		})
	}
}

func TestClampScale(t *testing.T) {
	if got := ClampScale(0.05); got != MinScale {
		t.Fatalf("ClampScale(0.05) = %v", got)
	}
	if got := ClampScale(1.3); got != 1.3 {
		t.Fatalf("ClampScale(1.3) = %v", got)
	}
	if got := ClampScale(math.Inf(1)); got != MaxScale {
		t.Fatalf("ClampScale(+Inf) = %v", got)
	}
}

func TestRenderNilSource(t *testing.T) {
	if got := Render(nil, Identity(), nil, Options{}); got != nil {
		t.Fatalf("expected nil, got %v", got.Bounds())
	}
}

func TestRenderIdentityKeepsPixels(t *testing.T) {
	src := gradient(16, 12)
	out := Render(src, Identity(), nil, Options{})
	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), src.Bounds())
	}
	for i := range src.Pix {
		if d := absDiff(src.Pix[i], out.Pix[i]); d > 1 {
			t.Fatalf("pixel byte %d = %d, want %d", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestRenderQuarterTurnSwapsDimensions(t *testing.T) {
	src := gradient(40, 20)
	out := Render(src, Params{Scale: 1, Rotation: 90, Brightness: 100}, nil, Options{})
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 40 {
		t.Fatalf("size = %v, want 20x40", out.Bounds())
	}
	// The source's top-left corner lands at the top-right after a clockwise turn.
	got := out.RGBAAt(19, 0)
	want := src.RGBAAt(0, 0)
	if absDiff(got.R, want.R) > 2 || absDiff(got.G, want.G) > 2 {
		t.Fatalf("corner = %v, want %v", got, want)
	}
}

func TestRenderHonoursSourceOrigin(t *testing.T) {
	src := gradient(20, 20).SubImage(image.Rect(5, 5, 15, 15))
	out := Render(src, Identity(), nil, Options{})
	if out.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	want := src.(*image.RGBA).RGBAAt(5, 5)
	if got := out.RGBAAt(0, 0); absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 {
		t.Fatalf("origin pixel = %v, want %v", got, want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := gradient(30, 20)
	p := Params{Scale: 1.3, Rotation: 33, Brightness: 140, Blur: 1.5, Grayscale: 40}
	ls := []layer.Layer{{ID: "a", Kind: layer.Sticker, Pos: image.Pt(2, 2), Size: 10, Glyph: "x"}}
	a := Render(src, p, ls, Options{})
	b := Render(src, p, ls, Options{})
	if a.Bounds() != b.Bounds() || !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("two renders of the same input differ")
	}
}

func TestBrightness(t *testing.T) {
	img := solid(2, 2, color.RGBA{100, 200, 50, 255})
	applyFilters(img, Params{Scale: 1, Brightness: 50})
	if got := img.RGBAAt(0, 0); got != (color.RGBA{50, 100, 25, 255}) {
		t.Fatalf("half brightness = %v", got)
	}
	applyFilters(img, Params{Scale: 1, Brightness: 400})
	if got := img.RGBAAt(0, 0); got != (color.RGBA{200, 255, 100, 255}) {
		t.Fatalf("boosted = %v", got)
	}
}

func TestBrightnessStaysPremultiplied(t *testing.T) {
	img := solid(1, 1, color.RGBA{100, 100, 100, 128})
	applyFilters(img, Params{Scale: 1, Brightness: 200})
	if got := img.RGBAAt(0, 0); got.R != 128 || got.A != 128 {
		t.Fatalf("got %v, want channels clamped to alpha", got)
	}
}

func TestGrayscale(t *testing.T) {
	img := solid(1, 1, color.RGBA{255, 0, 0, 255})
	applyFilters(img, Params{Scale: 1, Brightness: 100, Grayscale: 100})
	got := img.RGBAAt(0, 0)
	if got.R != got.G || got.G != got.B || got.R != 54 {
		t.Fatalf("full grayscale of red = %v, want 54,54,54", got)
	}

	img = solid(1, 1, color.RGBA{255, 0, 0, 255})
	applyFilters(img, Params{Scale: 1, Brightness: 100, Grayscale: 50})
	if got := img.RGBAAt(0, 0); got.R != 155 || got.G != 27 {
		t.Fatalf("half grayscale of red = %v", got)
	}
}

func TestBlurPreservesSolidInterior(t *testing.T) {
	c := color.RGBA{10, 120, 240, 255}
	img := solid(20, 15, c)
	applyFilters(img, Params{Scale: 1, Brightness: 100, Blur: 2})
	// sigma 2 reaches 6 pixels either side.
	for y := 6; y < 9; y++ {
		for x := 6; x < 14; x++ {
			if got := img.RGBAAt(x, y); got != c {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestBlurFadesSurfaceEdges(t *testing.T) {
	img := solid(20, 15, color.RGBA{255, 255, 255, 255})
	applyFilters(img, Params{Scale: 1, Brightness: 100, Blur: 2})
	corner, edge := img.RGBAAt(0, 0), img.RGBAAt(10, 0)
	if corner.A >= edge.A || edge.A >= 255 {
		t.Fatalf("edges not faded: corner %v edge %v", corner, edge)
	}
	if corner.R > corner.A {
		t.Fatalf("corner %v not premultiplied", corner)
	}
}

func TestBlurSpreadsEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 13))
	for y := 0; y < 13; y++ {
		for x := 20; x < 40; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	applyFilters(img, Params{Scale: 1, Brightness: 100, Blur: 2})
	left, right := img.RGBAAt(19, 6), img.RGBAAt(20, 6)
	if left.A == 0 || right.A == 255 {
		t.Fatalf("edge not softened: %v %v", left, right)
	}
	if img.RGBAAt(5, 6).A != 0 || img.RGBAAt(30, 6).A != 255 {
		t.Fatal("far pixels changed")
	}
}

// twoTone is red on the left half and blue on the right.
func twoTone(w, h int) *image.RGBA {
	img := solid(w, h, color.RGBA{40, 40, 200, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetRGBA(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	return img
}

func TestFilterOrder(t *testing.T) {
	p := Params{Scale: 1, Brightness: 200, Blur: 1, Grayscale: 100}
	got := twoTone(24, 9)
	applyFilters(got, p)

	// Brightness clamps red to 255 before the luminance is taken:
	// (255,80,80) -> 117 and (80,80,255) -> 93. Grayscale first would give
	// 74*2 = 148 and 52*2 = 104.
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{4, 4, color.RGBA{117, 117, 117, 255}},
		{18, 4, color.RGBA{93, 93, 93, 255}},
	}
	for _, tc := range tests {
		if c := got.RGBAAt(tc.x, tc.y); c != tc.want {
			t.Errorf("(%d,%d) = %v, want %v", tc.x, tc.y, c, tc.want)
		}
	}

	stages := map[string]func(*image.RGBA){
		"brightness": func(img *image.RGBA) { brightness(img, 2) },
		"blur":       func(img *image.RGBA) { gaussianBlur(img, 1) },
		"grayscale":  func(img *image.RGBA) { grayscale(img, 1) },
	}
	run := func(order ...string) *image.RGBA {
		img := twoTone(24, 9)
		for _, name := range order {
			stages[name](img)
		}
		return img
	}
	if want := run("brightness", "blur", "grayscale"); !bytes.Equal(got.Pix, want.Pix) {
		t.Fatal("applyFilters differs from brightness, blur, grayscale")
	}
	for _, order := range [][]string{
		{"grayscale", "blur", "brightness"},
		{"blur", "brightness", "grayscale"},
	} {
		if bytes.Equal(got.Pix, run(order...).Pix) {
			t.Errorf("order %v is indistinguishable from the required one", order)
		}
	}
}

func TestFiltersIdentity(t *testing.T) {
	if !Identity().FiltersIdentity() {
		t.Fatal("Identity filters not identity")
	}
	if (Params{Scale: 1, Brightness: 100, Blur: 1}).FiltersIdentity() {
		t.Fatal("blur reported as identity")
	}
}

func TestStickerImageScaledToSize(t *testing.T) {
	bg := solid(50, 50, color.RGBA{0, 0, 0, 255})
	red := solid(4, 4, color.RGBA{255, 0, 0, 255})
	ls := []layer.Layer{{ID: "s", Kind: layer.Sticker, Pos: image.Pt(10, 10), Size: 20, Image: red}}
	out := Render(bg, Identity(), ls, Options{})
	if got := out.RGBAAt(20, 20); got.R < 250 {
		t.Fatalf("inside sticker = %v", got)
	}
	if got := out.RGBAAt(35, 35); got.R != 0 {
		t.Fatalf("outside sticker = %v", got)
	}
}

func TestStickerBadgeFallback(t *testing.T) {
	badge := func(glyph string) *image.RGBA {
		bg := solid(40, 40, color.RGBA{0, 0, 0, 255})
		ls := []layer.Layer{{ID: "s", Kind: layer.Sticker, Pos: image.Pt(0, 0), Size: 20, Glyph: glyph}}
		return Render(bg, Identity(), ls, Options{})
	}
	emoji := badge("\U0001F600")
	// Left of the centred two-character mark.
	if got := emoji.RGBAAt(2, 10); got != BadgeColor {
		t.Fatalf("badge fill = %v, want %v", got, BadgeColor)
	}
	marked := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if emoji.RGBAAt(x, y) == (color.RGBA{0, 0, 0, 255}) && (x-10)*(x-10)+(y-10)*(y-10) < 64 {
				marked++
			}
		}
	}
	if marked == 0 {
		t.Fatal("badge has no mark")
	}
	if bytes.Equal(badge("\u2605").Pix, badge("\u2714").Pix) {
		t.Fatal("different missing glyphs drew identical badges")
	}
}

func TestTextLayerDrawn(t *testing.T) {
	faces, err := NewFaces()
	if err != nil {
		t.Fatalf("NewFaces: %v", err)
	}
	bg := solid(120, 60, color.RGBA{0, 0, 0, 255})
	ls := []layer.Layer{{ID: "t", Kind: layer.Text, Pos: image.Pt(5, 5), Size: 24, Text: "Hello", Color: color.RGBA{255, 255, 255, 255}}}
	out := Render(bg, Identity(), ls, Options{Faces: faces})
	lit := 0
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] > 128 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("no text pixels drawn")
	}
}

func TestFacesMeasureAndGlyphs(t *testing.T) {
	faces, err := NewFaces()
	if err != nil {
		t.Fatalf("NewFaces: %v", err)
	}
	w1, h, err := faces.MeasureText("ab", 20)
	if err != nil || w1 <= 0 || h <= 0 {
		t.Fatalf("MeasureText = %d,%d,%v", w1, h, err)
	}
	w2, _, _ := faces.MeasureText("abab", 20)
	if w2 <= w1 {
		t.Fatalf("longer text not wider: %d <= %d", w2, w1)
	}
	if _, _, err := faces.MeasureText("x", 0); err == nil {
		t.Fatal("expected error for zero size")
	}
	if !faces.HasGlyphs("Go") {
		t.Fatal("latin glyphs missing")
	}
	if faces.HasGlyphs("\U0001F600") || faces.HasGlyphs("") {
		t.Fatal("emoji or empty reported as present")
	}
	var _ layer.Measurer = faces
}
