package editor

import (
	"image"
	"image/color"

	"github.com/example/quarkedit/internal/layer"
)

// Layers returns the layers in drawing order.
func (s *Session) Layers() []layer.Layer { return s.layers.Layers() }

// ActiveLayer returns the selected layer.
func (s *Session) ActiveLayer() (layer.Layer, bool) { return s.layers.Active() }

// SelectLayer marks id as active. An unknown id clears the selection.
func (s *Session) SelectLayer(id string) { s.layers.SetActive(id) }

// LayerBounds returns the hit box of l on the display raster.
func (s *Session) LayerBounds(l layer.Layer) image.Rectangle { return s.layers.Bounds(l) }

// AddSticker adds a glyph sticker and commits.
func (s *Session) AddSticker(glyph string) layer.Layer {
	return s.addLayer(layer.Sticker, layer.Payload{Glyph: glyph, Size: s.stickerSize})
}

// AddStickerImage adds a bitmap sticker and commits.
func (s *Session) AddStickerImage(img image.Image) layer.Layer {
	return s.addLayer(layer.Sticker, layer.Payload{Image: img, Size: s.stickerSize})
}

// AddText adds a text layer in col and commits.
func (s *Session) AddText(text string, col color.RGBA) layer.Layer {
	return s.addLayer(layer.Text, layer.Payload{Text: text, Color: col, Size: s.textSize})
}

func (s *Session) addLayer(kind layer.Kind, p layer.Payload) layer.Layer {
	l := s.layers.Add(kind, p)
	s.Draw()
	s.commit()
	return l
}

// RemoveLayer deletes the layer with id and commits.
func (s *Session) RemoveLayer(id string) bool {
	if !s.layers.Remove(id) {
		return false
	}
	s.Draw()
	s.commit()
	return true
}

// UpdateText replaces the text of a text layer and commits.
func (s *Session) UpdateText(id, text string) bool {
	l, ok := s.layers.Get(id)
	if !ok || l.Kind != layer.Text || l.Text == text {
		return false
	}
	s.layers.Update(id, func(l *layer.Layer) { l.Text = text })
	s.Draw()
	s.commit()
	return true
}

// DragLayer moves the layer with id so its origin ends at to, as if it had
// been dragged there, and commits once.
func (s *Session) DragLayer(id string, to image.Point) bool {
	l, ok := s.layers.Get(id)
	if !ok {
		return false
	}
	s.layers.BeginDrag(id, l.Pos)
	s.layers.UpdateDrag(to)
	s.endDrag()
	return true
}

// PointerDown starts a crop selection in crop mode, otherwise picks the
// topmost layer under p and starts dragging it.
func (s *Session) PointerDown(p image.Point) {
	if s.display == nil {
		return
	}
	if s.cropMode {
		s.selection.Begin(p)
		return
	}
	l, ok := s.layers.HitTest(p)
	if !ok {
		s.layers.SetActive("")
		return
	}
	s.layers.BeginDrag(l.ID, p)
}

// PointerMove stretches the crop selection or moves the dragged layer.
func (s *Session) PointerMove(p image.Point) {
	if s.cropMode {
		s.selection.Update(p)
		return
	}
	if s.layers.UpdateDrag(p) {
		s.Draw()
	}
}

// PointerUp finishes the gesture. A drag that moved its layer commits one
// snapshot.
func (s *Session) PointerUp(p image.Point) {
	if s.cropMode {
		if s.selection.Active() {
			s.selection.Update(p)
			s.selection.End()
		}
		return
	}
	if s.layers.UpdateDrag(p) {
		s.Draw()
	}
	s.endDrag()
}

func (s *Session) endDrag() {
	moved, ok := s.layers.EndDrag()
	if !ok || !moved {
		return
	}
	s.Draw()
	s.commit()
}
