package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"unicode"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/quarkedit/internal/layer"
)

// BadgeColor fills stickers whose glyph the font cannot draw.
var BadgeColor = color.RGBA{255, 193, 7, 255}

var errNoFaces = errors.New("no font faces configured")

func drawLayer(dst *image.RGBA, l layer.Layer, opts Options) error {
	faces := opts.Faces
	switch l.Kind {
	case layer.Text:
		if faces == nil {
			return errNoFaces
		}
		if l.Text == "" {
			return nil
		}
		size := float64(l.Size)
		if opts.TextShadow != nil {
			if err := drawTextShadow(dst, l.Pos, l.Text, size, faces, *opts.TextShadow); err != nil {
				return err
			}
		}
		return faces.DrawText(dst, l.Pos, l.Text, l.Color, size)
	case layer.Sticker:
		return drawSticker(dst, l, faces)
	}
	return nil
}

func drawSticker(dst *image.RGBA, l layer.Layer, faces *Faces) error {
	box := image.Rect(l.Pos.X, l.Pos.Y, l.Pos.X+l.Size, l.Pos.Y+l.Size)
	if l.Image != nil {
		xdraw.CatmullRom.Scale(dst, box, l.Image, l.Image.Bounds(), xdraw.Over, nil)
		return nil
	}
	if faces != nil && faces.HasGlyphs(l.Glyph) {
		size := float64(l.Size) * 0.8
		w, h, err := faces.MeasureText(l.Glyph, size)
		if err != nil {
			return err
		}
		col := l.Color
		if col.A == 0 {
			col = color.RGBA{255, 255, 255, 255}
		}
		pt := image.Pt(box.Min.X+(l.Size-w)/2, box.Min.Y+(l.Size-h)/2)
		return faces.DrawText(dst, pt, l.Glyph, col, size)
	}
	drawBadge(dst, box, l.Glyph, l.Color)
	return nil
}

// drawBadge paints a filled circle in box marked with the first rune of
// glyph. Runes the fixed bitmap face cannot show are marked with the low byte
// of their code point in hex, so different missing glyphs stay apart.
func drawBadge(dst *image.RGBA, box image.Rectangle, glyph string, col color.RGBA) {
	if col.A == 0 {
		col = BadgeColor
	}
	r := box.Dx() / 2
	cx, cy := box.Min.X+r, box.Min.Y+r
	drawFilledCircle(dst, cx, cy, r, col)

	first, _ := utf8.DecodeRuneInString(glyph)
	if first == utf8.RuneError {
		return
	}
	mark := string(first)
	if first >= utf8.RuneSelf || !unicode.IsPrint(first) {
		mark = fmt.Sprintf("%02X", first&0xff)
	}
	brightness := 0.299*float64(col.R) + 0.587*float64(col.G) + 0.114*float64(col.B)
	textCol := color.Black
	if brightness < 128 {
		textCol = color.White
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textCol),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(mark).Ceil()
	d.Dot = fixed.P(cx-w/2, cy+4)
	d.DrawString(mark)
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			if p := image.Pt(cx+dx, cy+dy); p.In(b) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}
