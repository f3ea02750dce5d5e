//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// readTimeout bounds how long a paste waits for the selection owner.
const readTimeout = 2 * time.Second

var errTimeout = errors.New("clipboard owner did not answer")

var (
	initOnce sync.Once
	initErr  error
	owner    *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		owner, initErr = newSelectionOwner()
	})
	return initErr
}

// WriteImage encodes img as PNG and claims the CLIPBOARD selection. The data
// is served until another client claims it.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return owner.claim(data)
}

// ReadImage pastes the clipboard image. While this process owns the selection
// its own data is returned without a round trip through the server.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	if data := owner.held(); data != nil {
		return decodeImage(data)
	}
	data, err := owner.request()
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

type atoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
	// paste maps each of pasteTargets to its atom, in the same order.
	paste []xproto.Atom
}

func internAtoms(conn *xgb.Conn) (atoms, error) {
	intern := func(name string) (xproto.Atom, error) {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return 0, fmt.Errorf("intern %s: %w", name, err)
		}
		return reply.Atom, nil
	}
	var a atoms
	var err error
	for _, p := range []struct {
		dst  *xproto.Atom
		name string
	}{
		{&a.clipboard, "CLIPBOARD"},
		{&a.targets, "TARGETS"},
		{&a.png, "image/png"},
		{&a.property, "QUARKEDIT_PASTE"},
	} {
		if *p.dst, err = intern(p.name); err != nil {
			return atoms{}, err
		}
	}
	for _, name := range pasteTargets {
		atom, err := intern(name)
		if err != nil {
			return atoms{}, err
		}
		a.paste = append(a.paste, atom)
	}
	return a, nil
}

// selectionOwner keeps a hidden window that answers selection requests for
// the last copied PNG.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atoms

	mu   sync.RWMutex
	data []byte
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	window, err := hiddenWindow(conn, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, err
	}
	a, err := internAtoms(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, atoms: a}
	go o.serve()
	return o, nil
}

func hiddenWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{mask}).Check()
	return window, err
}

func (o *selectionOwner) claim(data []byte) error {
	o.mu.Lock()
	o.data = data
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) held() []byte {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.data
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.data = nil
			o.mu.Unlock()
		}
	}
}

func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	data := o.held()

	switch {
	case e.Target == o.atoms.targets:
		offered := []xproto.Atom{o.atoms.targets}
		if data != nil {
			offered = append(offered, o.atoms.png)
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property,
			xproto.AtomAtom, 32, uint32(len(offered)), atomBytes(offered))
	case e.Target == o.atoms.png && data != nil:
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property,
			o.atoms.png, 8, uint32(len(data)), data)
	default:
		property = xproto.AtomNone
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

// request asks the current owner which image types it offers and converts the
// selection to the best one.
func (o *selectionOwner) request() ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	window, err := hiddenWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	offered, err := o.convert(conn, window, o.atoms.targets)
	if err != nil {
		return nil, err
	}
	target, ok := o.pick(offered)
	if !ok {
		return nil, ErrEmpty
	}
	return o.convert(conn, window, target)
}

func (o *selectionOwner) pick(offered []byte) (xproto.Atom, bool) {
	have := map[xproto.Atom]bool{}
	for i := 0; i+4 <= len(offered); i += 4 {
		have[xproto.Atom(xgb.Get32(offered[i:]))] = true
	}
	for _, atom := range o.atoms.paste {
		if have[atom] {
			return atom, true
		}
	}
	return 0, false
}

// convert runs one ConvertSelection round trip and returns the property value.
func (o *selectionOwner) convert(conn *xgb.Conn, window xproto.Window, target xproto.Atom) ([]byte, error) {
	if err := xproto.DeletePropertyChecked(conn, window, o.atoms.property).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, window, o.atoms.clipboard, target, o.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		for {
			ev, err := conn.WaitForEvent()
			if err != nil {
				done <- result{err: err}
				return
			}
			if ev == nil {
				// connection closed
				done <- result{err: errTimeout}
				return
			}
			e, ok := ev.(xproto.SelectionNotifyEvent)
			if !ok || (e.Property != xproto.AtomNone && e.Property != o.atoms.property) {
				continue
			}
			if e.Property == xproto.AtomNone {
				done <- result{err: ErrEmpty}
				return
			}
			reply, perr := xproto.GetProperty(conn, true, window, o.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
			if perr != nil {
				done <- result{err: perr}
				return
			}
			done <- result{data: reply.Value}
			return
		}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-time.After(readTimeout):
		return nil, errTimeout
	}
}

func atomBytes(list []xproto.Atom) []byte {
	buf := make([]byte, len(list)*4)
	for i, atom := range list {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}
