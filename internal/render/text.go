package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Faces hands out Go Regular faces at arbitrary pixel sizes. Faces are
// cached per size; a Faces value is safe for concurrent use.
type Faces struct {
	font *opentype.Font

	mu    sync.Mutex
	cache map[int64]font.Face
	buf   sfnt.Buffer
}

// NewFaces parses the embedded Go Regular font.
func NewFaces() (*Faces, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Faces{font: f, cache: make(map[int64]font.Face)}, nil
}

// Face returns the face for size pixels.
func (f *Faces) Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid text size %v", size)
	}
	key := int64(math.Round(size * 100))
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.cache[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	f.cache[key] = face
	return face, nil
}

// MeasureText returns the bounding box of text rendered at size pixels.
func (f *Faces) MeasureText(text string, size float64) (width, height int, err error) {
	face, err := f.Face(size)
	if err != nil {
		return 0, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	return d.MeasureString(text).Ceil(), m.Ascent.Ceil() + m.Descent.Ceil(), nil
}

// HasGlyphs reports whether every rune of text exists in the font.
func (f *Faces) HasGlyphs(text string) bool {
	if text == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range text {
		idx, err := f.font.GlyphIndex(&f.buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

// DrawText renders text with its top-left corner at pt.
func (f *Faces) DrawText(dst draw.Image, pt image.Point, text string, col color.Color, size float64) error {
	face, err := f.Face(size)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}
