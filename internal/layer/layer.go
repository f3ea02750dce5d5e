// Package layer models the overlay annotations drawn above the base raster.
package layer

import (
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/width"
)

// Kind identifies the payload of a layer.
type Kind int

const (
	Sticker Kind = iota
	Text
)

func (k Kind) String() string {
	switch k {
	case Sticker:
		return "sticker"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

const (
	DefaultStickerSize = 72
	DefaultTextSize    = 32
)

// DefaultPosition is where new layers are placed on the output surface.
var DefaultPosition = image.Pt(20, 20)

// Layer is a positioned annotation. Pos is the top-left corner in the
// rendered surface's pixel space and Size is the glyph or font size in pixels.
type Layer struct {
	ID   string
	Kind Kind
	Pos  image.Point
	Size int

	// Glyph is the sticker character (usually an emoji).
	Glyph string
	// Image optionally replaces Glyph with a bitmap sticker.
	Image image.Image

	Text  string
	Color color.RGBA
}

// Payload carries the kind-specific content of a new layer. Zero Size picks
// the default for the kind.
type Payload struct {
	Glyph string
	Image image.Image
	Text  string
	Color color.RGBA
	Size  int
}

// Measurer reports the rendered extent of text at a pixel size.
type Measurer interface {
	MeasureText(text string, size float64) (width, height int, err error)
}

// Model is the ordered layer list. Index 0 is drawn first (bottom).
type Model struct {
	layers   []Layer
	active   string
	measurer Measurer
	newID    func() string

	drag *dragSession
}

type dragSession struct {
	id     string
	offset image.Point
	start  image.Point
}

// Option configures a Model.
type Option func(*Model)

// WithMeasurer sets the text measurer used for hit-testing text layers.
func WithMeasurer(m Measurer) Option { return func(md *Model) { md.measurer = m } }

// WithIDFunc overrides the identifier generator.
func WithIDFunc(fn func() string) Option { return func(md *Model) { md.newID = fn } }

// New creates an empty Model.
func New(opts ...Option) *Model {
	m := &Model{newID: uuid.NewString}
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetMeasurer replaces the text measurer.
func (m *Model) SetMeasurer(ms Measurer) { m.measurer = ms }

// Add appends a layer at the default position and makes it active.
func (m *Model) Add(kind Kind, p Payload) Layer {
	l := Layer{
		ID:    m.newID(),
		Kind:  kind,
		Pos:   DefaultPosition,
		Size:  p.Size,
		Glyph: p.Glyph,
		Image: p.Image,
		Text:  p.Text,
		Color: p.Color,
	}
	if l.Size <= 0 {
		if kind == Text {
			l.Size = DefaultTextSize
		} else {
			l.Size = DefaultStickerSize
		}
	}
	if kind == Text && l.Color == (color.RGBA{}) {
		l.Color = color.RGBA{255, 255, 255, 255}
	}
	m.layers = append(m.layers, l)
	m.active = l.ID
	return l
}

// Len reports the number of layers.
func (m *Model) Len() int { return len(m.layers) }

// Layers returns a copy of the layers in drawing order.
func (m *Model) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

func (m *Model) indexOf(id string) int {
	for i := range m.layers {
		if m.layers[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the layer with id.
func (m *Model) Get(id string) (Layer, bool) {
	if i := m.indexOf(id); i >= 0 {
		return m.layers[i], true
	}
	return Layer{}, false
}

// Update applies fn to the layer with id. The identifier cannot be changed.
func (m *Model) Update(id string, fn func(*Layer)) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&m.layers[i])
	m.layers[i].ID = id
	return true
}

// Remove deletes the layer with id.
func (m *Model) Remove(id string) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	if m.active == id {
		m.active = ""
	}
	if m.drag != nil && m.drag.id == id {
		m.drag = nil
	}
	return true
}

// Clear removes every layer and ends any drag.
func (m *Model) Clear() {
	m.layers = nil
	m.active = ""
	m.drag = nil
}

// Active returns the active layer, if any.
func (m *Model) Active() (Layer, bool) {
	if m.active == "" {
		return Layer{}, false
	}
	return m.Get(m.active)
}

// SetActive marks id as active. An unknown id clears the selection.
func (m *Model) SetActive(id string) {
	if m.indexOf(id) < 0 {
		m.active = ""
		return
	}
	m.active = id
}

// Bounds returns the hit box of l. Text extent comes from the measurer when
// one is configured, otherwise from a character-count estimate one Size tall.
func (m *Model) Bounds(l Layer) image.Rectangle {
	w, h := l.Size, l.Size
	if l.Kind == Text {
		w, h = m.textExtent(l.Text, l.Size)
	}
	return image.Rect(l.Pos.X, l.Pos.Y, l.Pos.X+w, l.Pos.Y+h)
}

func (m *Model) textExtent(text string, size int) (w, h int) {
	if m.measurer != nil {
		if w, h, err := m.measurer.MeasureText(text, float64(size)); err == nil {
			return w, h
		}
	}
	return EstimateTextWidth(text, size), size
}

// EstimateTextWidth approximates the advance of text: wide runes count as a
// full em, everything else as 0.6 em.
func EstimateTextWidth(text string, size int) int {
	var ems float64
	for len(text) > 0 {
		r, n := utf8.DecodeRuneInString(text)
		text = text[n:]
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			ems += 1
		default:
			ems += 0.6
		}
	}
	return int(ems*float64(size) + 0.5)
}

// HitTest returns the topmost layer whose bounds contain p.
func (m *Model) HitTest(p image.Point) (Layer, bool) {
	for i := len(m.layers) - 1; i >= 0; i-- {
		if p.In(m.Bounds(m.layers[i])) {
			return m.layers[i], true
		}
	}
	return Layer{}, false
}
