// Package ui is the interactive editor window built on shiny.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/quarkedit/internal/clipboard"
	"github.com/example/quarkedit/internal/editor"
	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/notify"
	"github.com/example/quarkedit/internal/theme"
)

const (
	zoomStep     = 0.1
	rotateStep   = 90.0
	messageTTL   = 3 * time.Second
	maxWindowW   = 1600
	maxWindowH   = 1000
	minWindowDim = 320
)

// DefaultStickers is the glyph cycle used by the add-sticker shortcut. Every
// entry is drawn by Go Regular.
var DefaultStickers = []string{"♥", "☺", "♪", "☼", "!"}

// Options configures a Viewer.
type Options struct {
	Theme     *theme.Theme
	Keymap    Keymap
	Output    string // export path; the extension follows Format
	Format    imageio.Format
	Notifier  *notify.Notifier
	Stickers  []string
	TextColor color.RGBA
}

// Viewer shows an editor session in a window and routes input to it.
type Viewer struct {
	sess *editor.Session
	opts Options

	textInput  bool
	textBuf    []rune
	stickerIdx int

	message      string
	messageUntil time.Time
	quit         bool

	// clipboard access, swapped in tests
	writeClipboard func(image.Image) error
	readClipboard  func() (image.Image, error)
}

// New prepares a viewer for sess, filling unset options with defaults.
func New(sess *editor.Session, opts Options) *Viewer {
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	if opts.Keymap == nil {
		opts.Keymap = DefaultKeymap()
	}
	if opts.Format == "" {
		opts.Format = imageio.PNG
	}
	if opts.Output == "" {
		opts.Output = imageio.ExportName("", opts.Format)
	}
	if len(opts.Stickers) == 0 {
		opts.Stickers = DefaultStickers
	}
	if opts.TextColor.A == 0 {
		opts.TextColor = color.RGBA{255, 255, 255, 255}
	}
	return &Viewer{
		sess:           sess,
		opts:           opts,
		writeClipboard: clipboard.WriteImage,
		readClipboard:  clipboard.ReadImage,
	}
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() { driver.Main(v.Main) }

// Main is the shiny entry point.
func (v *Viewer) Main(s screen.Screen) {
	width, height := initialSize(v.sess.Display())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "QuarkEdit"})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	// Frames are painted on their own goroutine. Only the newest pending
	// frame is kept and a new one cancels the one in progress.
	paintCh := make(chan frameState, 1)
	var (
		paintMu     sync.Mutex
		paintCancel context.CancelFunc
	)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case st := <-paintCh:
				ctx, cancel := context.WithCancel(context.Background())
				paintMu.Lock()
				paintCancel = cancel
				paintMu.Unlock()
				drawFrame(ctx, s, w, st)
				cancel()
			case <-done:
				return
			}
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				paintCancel()
			}
			paintMu.Unlock()
			st := v.frame(image.Pt(width, height))
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case key.Event:
			if v.handleKey(e) {
				w.Send(paint.Event{})
			}
			if v.quit {
				return
			}
		case mouse.Event:
			if v.handleMouse(e, image.Pt(width, height)) {
				w.Send(paint.Event{})
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

func initialSize(display *image.RGBA) (int, int) {
	if display == nil {
		return 800, 600
	}
	b := display.Bounds()
	w := min(maxWindowW, max(minWindowDim, b.Dx()+2*marginPx))
	h := min(maxWindowH, max(minWindowDim, b.Dy()+2*marginPx+statusHeight))
	return w, h
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st frameState) {
	b, err := s.NewBuffer(st.size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	composeFrame(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// frame snapshots the state needed to paint the window at size.
func (v *Viewer) frame(size image.Point) frameState {
	st := frameState{
		size:    size,
		display: v.sess.Display(),
		theme:   v.opts.Theme,
		canUndo: v.sess.CanUndo(),
		canRedo: v.sess.CanRedo(),
	}
	if st.display != nil {
		// The session replaces its display on every render, so handing the
		// pointer to the paint goroutine is safe.
		st.crop, _ = v.sess.CropRect()
		st.cropping = v.sess.CropMode()
		if l, ok := v.sess.ActiveLayer(); ok {
			st.active = v.sess.LayerBounds(l)
			st.hasActive = true
		}
	}
	p := v.sess.Params()
	st.status = statusLine(p.Scale, p.Rotation, len(v.sess.Layers()), st.cropping)
	if v.textInput {
		st.status = "text: " + string(v.textBuf) + "_"
	}
	if v.message != "" && time.Now().Before(v.messageUntil) {
		st.message = v.message
	}
	return st
}

func (v *Viewer) flash(format string, args ...any) {
	v.message = fmt.Sprintf(format, args...)
	v.messageUntil = time.Now().Add(messageTTL)
}

// handleKey applies a key event and reports whether the window needs a
// repaint.
func (v *Viewer) handleKey(e key.Event) bool {
	if v.textInput {
		return v.handleTextKey(e)
	}
	a, ok := v.opts.Keymap.Lookup(e)
	if !ok {
		return false
	}
	return v.perform(a)
}

// handleTextKey collects a new text layer. Enter adds it, Escape drops it.
func (v *Viewer) handleTextKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if len(v.textBuf) > 0 {
			v.sess.AddText(string(v.textBuf), v.opts.TextColor)
		}
		v.textInput, v.textBuf = false, nil
	case key.CodeEscape:
		v.textInput, v.textBuf = false, nil
	case key.CodeDeleteBackspace:
		if n := len(v.textBuf); n > 0 {
			v.textBuf = v.textBuf[:n-1]
		}
	default:
		if !unicode.IsPrint(e.Rune) || e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
			return false
		}
		v.textBuf = append(v.textBuf, e.Rune)
	}
	return true
}

// perform runs a keyboard action against the session.
func (v *Viewer) perform(a Action) bool {
	s := v.sess
	switch a {
	case ActionUndo:
		return s.Undo()
	case ActionRedo:
		return s.Redo()
	case ActionZoomIn:
		s.Zoom(zoomStep)
	case ActionZoomOut:
		s.Zoom(-zoomStep)
	case ActionRotateRight:
		s.Rotate(rotateStep)
	case ActionRotateLeft:
		s.Rotate(-rotateStep)
	case ActionToggleCrop:
		if s.ToggleCropMode() {
			v.flash("drag to select, Enter to crop, Esc to cancel")
		}
	case ActionApplyCrop:
		if !s.CropMode() {
			return false
		}
		if !s.ApplyCrop() {
			v.flash("select an area first")
		}
	case ActionCancelCrop:
		if !s.CropMode() {
			return false
		}
		s.CancelCrop()
	case ActionAddText:
		if !s.Loaded() {
			return false
		}
		v.textInput, v.textBuf = true, nil
	case ActionAddSticker:
		if !s.Loaded() {
			return false
		}
		s.AddSticker(v.opts.Stickers[v.stickerIdx%len(v.opts.Stickers)])
		v.stickerIdx++
	case ActionDeleteLayer:
		l, ok := s.ActiveLayer()
		if !ok {
			return false
		}
		s.RemoveLayer(l.ID)
	case ActionExport:
		path, err := v.export()
		if err != nil {
			log.Printf("export: %v", err)
			v.flash("export failed: %v", err)
			return true
		}
		v.flash("saved %s", path)
	case ActionCopy:
		if err := v.copyDisplay(); err != nil {
			log.Printf("copy: %v", err)
			v.flash("copy failed: %v", err)
			return true
		}
		v.flash("copied to clipboard")
	case ActionPaste:
		if !s.Loaded() {
			return false
		}
		img, err := v.readClipboard()
		if err != nil {
			log.Printf("paste: %v", err)
			v.flash("paste failed: %v", err)
			return true
		}
		s.AddStickerImage(img)
	case ActionQuit:
		v.quit = true
		return false
	default:
		return false
	}
	return true
}

// export writes the display raster to the output path and returns the
// absolute path written.
func (v *Viewer) export() (string, error) {
	name := imageio.ExportName(v.opts.Output, v.opts.Format)
	path := filepath.Join(filepath.Dir(v.opts.Output), name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := v.sess.Export(f, v.opts.Format); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing %q: %v", path, cerr)
		}
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	v.opts.Notifier.Export(path)
	return path, nil
}

func (v *Viewer) copyDisplay() error {
	img := v.sess.Display()
	if img == nil {
		return editor.ErrNoImage
	}
	if err := v.writeClipboard(img); err != nil {
		return err
	}
	v.opts.Notifier.Copy(filepath.Base(v.opts.Output), img)
	return nil
}

// handleMouse routes left button gestures to the session in display
// coordinates.
func (v *Viewer) handleMouse(e mouse.Event, win image.Point) bool {
	display := v.sess.Display()
	if display == nil {
		return false
	}
	if e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonNone {
		return false
	}
	vw := layout(display.Bounds().Size(), win)
	p := vw.toImage(image.Pt(int(e.X), int(e.Y)))
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		v.sess.PointerDown(p)
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return false
		}
		v.sess.PointerUp(p)
	case mouse.DirNone:
		v.sess.PointerMove(p)
	default:
		return false
	}
	return true
}
