package history

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// DefaultThumbnailSize is the longest edge of a generated thumbnail.
const DefaultThumbnailSize = 96

// Thumbnails decodes snapshots in the background and keeps a scaled preview
// for each one. Results are stored under the snapshot's Seq taken at capture
// time, so a slow decode finishing late can never overwrite a newer entry.
// A decode whose seq was dropped by Retain or Reset before it finished is
// discarded.
type Thumbnails struct {
	size   int
	logger *slog.Logger

	mu    sync.Mutex
	want  map[uint64]struct{}
	items map[uint64]*image.RGBA
	wg    sync.WaitGroup
}

// NewThumbnails creates a cache producing previews whose longest edge is at
// most size pixels.
func NewThumbnails(size int, logger *slog.Logger) *Thumbnails {
	if size < 1 {
		size = DefaultThumbnailSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Thumbnails{
		size:   size,
		logger: logger,
		want:   make(map[uint64]struct{}),
		items:  make(map[uint64]*image.RGBA),
	}
}

// Capture starts decoding snap. It returns immediately.
func (t *Thumbnails) Capture(snap Snapshot) {
	t.mu.Lock()
	t.want[snap.Seq] = struct{}{}
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		img, err := png.Decode(bytes.NewReader(snap.Data))
		if err != nil {
			t.logger.Warn("thumbnail decode", "seq", snap.Seq, "err", err)
			return
		}
		thumb := scaleToFit(img, t.size)

		t.mu.Lock()
		defer t.mu.Unlock()
		if _, ok := t.want[snap.Seq]; !ok {
			return
		}
		t.items[snap.Seq] = thumb
	}()
}

// Get returns the thumbnail for seq if its decode has completed.
func (t *Thumbnails) Get(seq uint64) (*image.RGBA, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	img, ok := t.items[seq]
	return img, ok
}

// Len reports how many thumbnails are ready.
func (t *Thumbnails) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Retain drops every thumbnail whose seq is not listed.
func (t *Thumbnails) Retain(entries []Snapshot) {
	keep := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		keep[e.Seq] = struct{}{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for seq := range t.want {
		if _, ok := keep[seq]; !ok {
			delete(t.want, seq)
			delete(t.items, seq)
		}
	}
}

// Reset discards all thumbnails, including those still being decoded.
func (t *Thumbnails) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.want = make(map[uint64]struct{})
	t.items = make(map[uint64]*image.RGBA)
}

// Wait blocks until every pending decode has finished.
func (t *Thumbnails) Wait() { t.wg.Wait() }

func scaleToFit(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	tw, th := w, h
	if w >= h && w > size {
		tw = size
		th = max(1, h*size/w)
	} else if h > w && h > size {
		th = size
		tw = max(1, w*size/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
