// Package editor owns the state of one editing session and turns every user
// action into a render and, for committing actions, a history snapshot.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"

	"github.com/example/quarkedit/internal/crop"
	"github.com/example/quarkedit/internal/history"
	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/layer"
	"github.com/example/quarkedit/internal/render"
)

// ErrNoImage is returned by Export when nothing has been loaded.
var ErrNoImage = errors.New("no image loaded")

// Session is a single editing session. It is not safe for concurrent use;
// callers serialise events the way a UI loop does.
type Session struct {
	logger       *slog.Logger
	historyLimit int
	thumbSize    int
	textSize     int
	stickerSize  int
	jpegQuality  int
	measurer     layer.Measurer
	newID        func() string
	textShadow   *render.Shadow

	faces   *render.Faces
	source  *image.RGBA
	params  render.Params
	layers  *layer.Model
	history *history.Stack
	thumbs  *history.Thumbnails
	display *image.RGBA

	cropMode  bool
	selection crop.Selection
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := defaults()
	for _, o := range opts {
		o(s)
	}
	faces, err := render.NewFaces()
	if err != nil {
		s.logger.Warn("text faces unavailable", "err", err)
	} else {
		s.faces = faces
	}
	if s.measurer == nil && s.faces != nil {
		s.measurer = s.faces
	}
	var lopts []layer.Option
	if s.measurer != nil {
		lopts = append(lopts, layer.WithMeasurer(s.measurer))
	}
	if s.newID != nil {
		lopts = append(lopts, layer.WithIDFunc(s.newID))
	}
	s.params = render.Identity()
	s.layers = layer.New(lopts...)
	s.history = history.New(s.historyLimit)
	s.thumbs = history.NewThumbnails(s.thumbSize, s.logger)
	return s
}

// Load decodes r and makes it the new baseline. Decoding happens off the
// caller's goroutine; the session is untouched until it completes, and a
// cancelled ctx leaves the previous image in place.
func (s *Session) Load(ctx context.Context, r io.Reader) error {
	type result struct {
		img  *image.RGBA
		kind string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		img, kind, err := imageio.Decode(r)
		ch <- result{img, kind, err}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return res.err
		}
		s.logger.Debug("image loaded", "format", res.kind, "width", res.img.Bounds().Dx(), "height", res.img.Bounds().Dy())
		s.SetImage(res.img)
		return nil
	}
}

// SetImage replaces the source raster. Parameters return to identity, layers
// and crop selection are dropped and history restarts from the first render.
func (s *Session) SetImage(img image.Image) {
	if img == nil {
		return
	}
	s.source = imageio.ToRGBA(img)
	s.resetBaseline()
}

func (s *Session) resetBaseline() {
	s.params = render.Identity()
	s.layers.Clear()
	s.cropMode = false
	s.selection.Clear()
	s.history.Reset()
	s.thumbs.Reset()
	s.Draw()
	s.commit()
}

// Loaded reports whether a source raster is present.
func (s *Session) Loaded() bool { return s.source != nil }

// Draw re-renders the display raster from the current state. It does nothing
// before an image is loaded.
func (s *Session) Draw() {
	if s.source == nil {
		return
	}
	s.display = render.Render(s.source, s.params, s.layers.Layers(), render.Options{Faces: s.faces, Logger: s.logger, TextShadow: s.textShadow})
	s.logger.Debug("render", "width", s.display.Bounds().Dx(), "height", s.display.Bounds().Dy(), "layers", s.layers.Len())
}

// Snapshot pushes the display raster onto the history and starts building
// its thumbnail.
func (s *Session) Snapshot() error {
	if s.display == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.display); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	before := s.history.Evictions()
	snap := s.history.Push(buf.Bytes(), s.display.Bounds().Dx(), s.display.Bounds().Dy())
	if n := s.history.Evictions() - before; n > 0 {
		s.logger.Debug("history evicted", "count", n, "limit", s.history.Limit())
	}
	s.thumbs.Retain(s.history.Entries())
	s.thumbs.Capture(snap)
	s.logger.Debug("snapshot", "seq", snap.Seq, "bytes", len(snap.Data), "index", s.history.Index())
	return nil
}

// Commit records the current display as one undoable step. Sliders call it
// when the user releases them.
func (s *Session) Commit() { s.commit() }

func (s *Session) commit() {
	if err := s.Snapshot(); err != nil {
		s.logger.Error("snapshot failed", "err", err)
	}
}

func (s *Session) restore(snap history.Snapshot) bool {
	img, err := png.Decode(bytes.NewReader(snap.Data))
	if err != nil {
		s.logger.Error("restore snapshot", "seq", snap.Seq, "err", err)
		return false
	}
	s.display = imageio.ToRGBA(img)
	return true
}

// Undo shows the previous snapshot. The renderer is bypassed, so the
// parameters and layers are left as they are.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	return s.restore(snap)
}

// Redo shows the next snapshot.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	return s.restore(snap)
}

// CanUndo reports whether Undo would change the display.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the display.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// History returns the retained snapshots, oldest first, and the index of the
// one currently shown.
func (s *Session) History() ([]history.Snapshot, int) {
	return s.history.Entries(), s.history.Index()
}

// Thumbnail returns the preview for the snapshot with seq once it is ready.
func (s *Session) Thumbnail(seq uint64) (*image.RGBA, bool) { return s.thumbs.Get(seq) }

// WaitThumbnails blocks until pending thumbnail decodes finish.
func (s *Session) WaitThumbnails() { s.thumbs.Wait() }

// Display returns the raster currently shown. It is nil before a load.
func (s *Session) Display() *image.RGBA { return s.display }

// Source returns the base raster the renderer draws from.
func (s *Session) Source() *image.RGBA { return s.source }

// Params returns the current transform and filter settings.
func (s *Session) Params() render.Params { return s.params }

// Faces returns the text faces used for layers, or nil if the font failed
// to load.
func (s *Session) Faces() *render.Faces { return s.faces }

// Rotate turns the image by delta degrees and commits.
func (s *Session) Rotate(delta float64) {
	s.SetRotation(s.params.Rotation + delta)
}

// SetRotation sets the rotation in degrees, normalised into (-360, 360), and
// commits.
func (s *Session) SetRotation(deg float64) {
	if s.source == nil || !finite(deg) {
		return
	}
	s.params.Rotation = math.Mod(deg, 360)
	s.Draw()
	s.commit()
}

// Zoom changes the scale by delta within render.MinScale and render.MaxScale,
// and commits.
func (s *Session) Zoom(delta float64) {
	s.SetScale(s.params.Scale + delta)
}

// SetScale sets the scale factor and commits. Values are kept to three
// decimals so repeated zoom steps do not drift.
func (s *Session) SetScale(v float64) {
	if s.source == nil || !finite(v) {
		return
	}
	s.params.Scale = render.ClampScale(math.Round(v*1000) / 1000)
	s.Draw()
	s.commit()
}

// SetBrightness re-renders with a new brightness percentage without
// committing.
func (s *Session) SetBrightness(pct float64) {
	if !finite(pct) {
		return
	}
	s.params.Brightness = max(0, pct)
	s.Draw()
}

// SetBlur re-renders with a new blur radius without committing.
func (s *Session) SetBlur(px float64) {
	if !finite(px) {
		return
	}
	s.params.Blur = max(0, px)
	s.Draw()
}

// SetGrayscale re-renders with a new desaturation percentage without
// committing.
func (s *Session) SetGrayscale(pct float64) {
	if !finite(pct) {
		return
	}
	s.params.Grayscale = min(100, max(0, pct))
	s.Draw()
}

// finite reports whether v can be used as a parameter. NaN and infinities
// are ignored like any other no-op input.
func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Export encodes the display raster.
func (s *Session) Export(w io.Writer, format imageio.Format) error {
	if s.display == nil {
		return ErrNoImage
	}
	if err := imageio.Encode(w, s.display, format, s.jpegQuality); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}
