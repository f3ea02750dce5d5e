package layer

import "image"

// BeginDrag starts moving the layer with id. The offset between p and the
// layer origin is kept for the rest of the drag. The layer becomes active.
func (m *Model) BeginDrag(id string, p image.Point) bool {
	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	pos := m.layers[i].Pos
	m.drag = &dragSession{id: id, offset: p.Sub(pos), start: pos}
	m.active = id
	return true
}

// Dragging reports whether a drag is in progress.
func (m *Model) Dragging() bool { return m.drag != nil }

// UpdateDrag moves the dragged layer so the grab point stays under p.
func (m *Model) UpdateDrag(p image.Point) bool {
	if m.drag == nil {
		return false
	}
	i := m.indexOf(m.drag.id)
	if i < 0 {
		m.drag = nil
		return false
	}
	m.layers[i].Pos = p.Sub(m.drag.offset)
	return true
}

// EndDrag finishes the drag. moved reports whether the layer ended up
// somewhere other than where it started; ok is false when no drag was active.
func (m *Model) EndDrag() (moved, ok bool) {
	if m.drag == nil {
		return false, false
	}
	d := m.drag
	m.drag = nil
	l, found := m.Get(d.id)
	if !found {
		return false, true
	}
	return l.Pos != d.start, true
}
