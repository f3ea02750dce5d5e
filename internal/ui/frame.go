package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/quarkedit/internal/theme"
)

const (
	statusHeight = 20
	checkerSize  = 8
	marginPx     = 8
)

// view maps display raster coordinates onto the window.
type view struct {
	origin image.Point
	zoom   float64
}

// layout fits a display of size img into the canvas area of a win sized
// window. Rasters are never magnified; large ones shrink to fit.
func layout(img image.Point, win image.Point) view {
	availW := win.X - 2*marginPx
	availH := win.Y - statusHeight - 2*marginPx
	zoom := 1.0
	if img.X > 0 && img.Y > 0 && availW > 0 && availH > 0 {
		zoom = math.Min(1, math.Min(float64(availW)/float64(img.X), float64(availH)/float64(img.Y)))
	}
	w := int(float64(img.X) * zoom)
	h := int(float64(img.Y) * zoom)
	canvasH := win.Y - statusHeight
	return view{
		origin: image.Pt(max(0, (win.X-w)/2), max(0, (canvasH-h)/2)),
		zoom:   zoom,
	}
}

func (v view) toImage(p image.Point) image.Point {
	return image.Pt(
		int(math.Floor(float64(p.X-v.origin.X)/v.zoom)),
		int(math.Floor(float64(p.Y-v.origin.Y)/v.zoom)),
	)
}

func (v view) toWindow(r image.Rectangle) image.Rectangle {
	return image.Rect(
		v.origin.X+int(float64(r.Min.X)*v.zoom),
		v.origin.Y+int(float64(r.Min.Y)*v.zoom),
		v.origin.X+int(float64(r.Max.X)*v.zoom),
		v.origin.Y+int(float64(r.Max.Y)*v.zoom),
	)
}

// frameState is everything drawFrame needs, copied out of the session so the
// paint goroutine never touches it.
type frameState struct {
	size      image.Point
	display   *image.RGBA
	theme     *theme.Theme
	crop      image.Rectangle
	cropping  bool
	active    image.Rectangle
	hasActive bool
	status    string
	canUndo   bool
	canRedo   bool
	message   string
}

// composeFrame paints one window frame into dst.
func composeFrame(dst *image.RGBA, st frameState) {
	t := st.theme
	if t == nil {
		t = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{t.Background}, image.Point{}, draw.Src)

	if st.display != nil {
		v := layout(st.display.Bounds().Size(), st.size)
		r := v.toWindow(st.display.Bounds())
		drawCheckerboard(dst, r, checkerSize, t.CheckerLight, t.CheckerDark)
		if v.zoom == 1 {
			draw.Draw(dst, r, st.display, st.display.Bounds().Min, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, r, st.display, st.display.Bounds(), draw.Over, nil)
		}
		if st.cropping && !st.crop.Empty() {
			sel := v.toWindow(st.crop).Intersect(r)
			shadeOutside(dst, r, sel, t.CropShade)
			drawDashedRect(dst, sel, 4, t.CropMarquee, t.CropMarqueeAlt)
		}
		if st.hasActive && !st.cropping {
			drawRect(dst, v.toWindow(st.active).Inset(-2), t.LayerOutline)
		}
	}

	drawStatusBar(dst, st, t)
}

func drawStatusBar(dst *image.RGBA, st frameState, t *theme.Theme) {
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-statusHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, &image.Uniform{t.StatusBackground}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Face: basicfont.Face7x13}
	baseline := fixed.I(bar.Max.Y - 5)
	x := bar.Min.X + 6

	text := st.status
	if st.message != "" {
		text = st.message
	}
	d.Src = image.NewUniform(t.Foreground)
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: baseline}
	d.DrawString(text)

	// Undo and redo hints sit on the right, greyed out when unavailable.
	hints := []struct {
		label   string
		enabled bool
	}{{"Redo", st.canRedo}, {"Undo", st.canUndo}}
	right := bar.Max.X - 6
	for _, h := range hints {
		w := d.MeasureString(h.label).Ceil()
		right -= w
		col := t.Foreground
		if !h.enabled {
			col = t.StatusDisabled
		}
		d.Src = image.NewUniform(col)
		d.Dot = fixed.Point26_6{X: fixed.I(right), Y: baseline}
		d.DrawString(h.label)
		right -= 10
	}
}

func statusLine(zoom, rotation float64, layers int, cropping bool) string {
	s := fmt.Sprintf("zoom %.0f%%  rot %.0f  layers %d", zoom*100, rotation, layers)
	if cropping {
		s += "  [crop]"
	}
	return s
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// shadeOutside tints the parts of outer not covered by inner.
func shadeOutside(dst *image.RGBA, outer, inner image.Rectangle, col color.RGBA) {
	u := &image.Uniform{col}
	parts := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	}
	for _, p := range parts {
		if p.Empty() {
			continue
		}
		draw.Draw(dst, p, u, image.Point{}, draw.Over)
	}
}

// drawDashedRect outlines r with dashes alternating between c1 and c2.
func drawDashedRect(dst *image.RGBA, r image.Rectangle, dash int, c1, c2 color.RGBA) {
	if r.Empty() {
		return
	}
	x1, y1 := r.Max.X-1, r.Max.Y-1
	set := func(x, y, i int) {
		if !image.Pt(x, y).In(dst.Bounds()) {
			return
		}
		if (i/dash)%2 == 0 {
			dst.SetRGBA(x, y, c1)
		} else {
			dst.SetRGBA(x, y, c2)
		}
	}
	for x := r.Min.X; x <= x1; x++ {
		set(x, r.Min.Y, x-r.Min.X)
		set(x, y1, x-r.Min.X)
	}
	for y := r.Min.Y; y <= y1; y++ {
		set(r.Min.X, y, y-r.Min.Y)
		set(x1, y, y-r.Min.Y)
	}
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	if r.Empty() {
		return
	}
	u := &image.Uniform{col}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, u, image.Point{}, draw.Src)
	}
}
