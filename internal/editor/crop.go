package editor

import (
	"image"

	"github.com/example/quarkedit/internal/crop"
)

// CropMode reports whether pointer events shape the crop selection.
func (s *Session) CropMode() bool { return s.cropMode }

// ToggleCropMode switches crop selection on or off and returns the new
// state. Leaving crop mode discards the selection.
func (s *Session) ToggleCropMode() bool {
	if s.cropMode {
		s.CancelCrop()
		return false
	}
	if s.source == nil {
		return false
	}
	s.layers.EndDrag()
	s.cropMode = true
	return true
}

// SetCropRect replaces the selection, entering crop mode if needed.
func (s *Session) SetCropRect(r image.Rectangle) {
	if s.source == nil {
		return
	}
	s.cropMode = true
	s.selection.Set(r)
}

// CropRect returns the current selection in display coordinates.
func (s *Session) CropRect() (image.Rectangle, bool) {
	if !s.cropMode {
		return image.Rectangle{}, false
	}
	return s.selection.Rect()
}

// CancelCrop leaves crop mode without changing the image.
func (s *Session) CancelCrop() {
	s.cropMode = false
	s.selection.Clear()
}

// ApplyCrop cuts the selection out of the display raster and makes it the
// new source. Parameters, filters, layers and history all restart from the
// cropped raster. It reports false when there is nothing to crop.
func (s *Session) ApplyCrop() bool {
	if s.display == nil {
		return false
	}
	sel, ok := s.CropRect()
	if !ok {
		return false
	}
	r, ok := crop.Clamp(sel, s.display.Bounds())
	if !ok {
		return false
	}
	s.source = crop.Extract(s.display, r)
	s.logger.Debug("crop", "rect", r, "dropped_layers", s.layers.Len())
	s.resetBaseline()
	return true
}
