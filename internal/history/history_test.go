package history

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func push(s *Stack, tag byte) Snapshot {
	return s.Push([]byte{tag}, 1, 1)
}

func TestPushUndoCount(t *testing.T) {
	for n := 1; n <= 5; n++ {
		s := New(30)
		for i := 0; i < n; i++ {
			push(s, byte(i))
		}
		if got, want := s.CanUndo(), n > 1; got != want {
			t.Fatalf("n=%d: CanUndo=%v want %v", n, got, want)
		}
		undos := 0
		for {
			if _, ok := s.Undo(); !ok {
				break
			}
			undos++
		}
		if undos != n-1 {
			t.Fatalf("n=%d: got %d undos, want %d", n, undos, n-1)
		}
	}
}

func TestPushAfterUndoDropsRedoBranch(t *testing.T) {
	s := New(30)
	push(s, 'a')
	push(s, 'b')
	push(s, 'c')
	s.Undo()
	s.Undo()
	push(s, 'd')
	if _, ok := s.Redo(); ok {
		t.Fatal("expected redo branch to be discarded")
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	cur, _ := s.Current()
	if cur.Data[0] != 'd' {
		t.Fatalf("current = %q, want d", cur.Data)
	}
	prev, ok := s.Undo()
	if !ok || prev.Data[0] != 'a' {
		t.Fatalf("undo = %q %v, want a", prev.Data, ok)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New(30)
	push(s, 'a')
	push(s, 'b')
	if s.CanRedo() {
		t.Fatal("CanRedo at tail")
	}
	got, ok := s.Undo()
	if !ok || got.Data[0] != 'a' {
		t.Fatalf("undo = %q %v", got.Data, ok)
	}
	if !s.CanRedo() {
		t.Fatal("expected CanRedo after undo")
	}
	got, ok = s.Redo()
	if !ok || got.Data[0] != 'b' {
		t.Fatalf("redo = %q %v", got.Data, ok)
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo past tail")
	}
}

func TestResetThenPush(t *testing.T) {
	s := New(30)
	push(s, 'a')
	push(s, 'b')
	s.Reset()
	if s.Index() != -1 || s.Len() != 0 {
		t.Fatalf("after reset index=%d len=%d", s.Index(), s.Len())
	}
	if _, ok := s.Current(); ok {
		t.Fatal("current on empty stack")
	}
	x := push(s, 'x')
	if s.CanUndo() {
		t.Fatal("CanUndo after reset+push")
	}
	cur, ok := s.Current()
	if !ok || cur.Seq != x.Seq || cur.Data[0] != 'x' {
		t.Fatalf("current = %+v, want %+v", cur, x)
	}
	if x.Seq != 3 {
		t.Fatalf("seq = %d, want 3 (never reused)", x.Seq)
	}
}

func TestCapacityEviction(t *testing.T) {
	s := New(3)
	for i := 0; i < 5; i++ {
		push(s, byte('a'+i))
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if s.Index() != 2 {
		t.Fatalf("index = %d, want 2", s.Index())
	}
	if s.Evictions() != 2 {
		t.Fatalf("evictions = %d, want 2", s.Evictions())
	}
	var seen []byte
	for _, e := range s.Entries() {
		seen = append(seen, e.Data[0])
	}
	if string(seen) != "cde" {
		t.Fatalf("entries = %q, want cde", seen)
	}
	undos := 0
	for s.CanUndo() {
		s.Undo()
		undos++
	}
	if undos != 2 {
		t.Fatalf("undos = %d, want 2", undos)
	}
}

func TestEmptyStackGuards(t *testing.T) {
	s := New(0)
	if s.Limit() != DefaultLimit {
		t.Fatalf("limit = %d", s.Limit())
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("empty stack reports undo/redo")
	}
	if _, ok := s.Undo(); ok {
		t.Fatal("undo on empty")
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo on empty")
	}
}

func encodeSolid(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnailsKeyedBySeq(t *testing.T) {
	s := New(30)
	th := NewThumbnails(16, nil)
	a := s.Push(encodeSolid(t, 64, 32), 64, 32)
	b := s.Push(encodeSolid(t, 10, 40), 10, 40)
	th.Capture(a)
	th.Capture(b)
	th.Wait()

	ta, ok := th.Get(a.Seq)
	if !ok {
		t.Fatal("missing thumbnail for first snapshot")
	}
	if got := ta.Bounds(); got.Dx() != 16 || got.Dy() != 8 {
		t.Fatalf("thumbnail a bounds %v", got)
	}
	tb, ok := th.Get(b.Seq)
	if !ok {
		t.Fatal("missing thumbnail for second snapshot")
	}
	if got := tb.Bounds(); got.Dx() != 4 || got.Dy() != 16 {
		t.Fatalf("thumbnail b bounds %v", got)
	}
}

func TestThumbnailsResetDiscards(t *testing.T) {
	th := NewThumbnails(8, nil)
	s := New(30)
	snap := s.Push(encodeSolid(t, 4, 4), 4, 4)
	th.Capture(snap)
	th.Wait()
	th.Reset()
	if th.Len() != 0 {
		t.Fatalf("len after reset = %d", th.Len())
	}
	bad := s.Push([]byte("not a png"), 1, 1)
	th.Capture(bad)
	th.Wait()
	if _, ok := th.Get(bad.Seq); ok {
		t.Fatal("undecodable snapshot produced a thumbnail")
	}
}

func TestThumbnailsRetain(t *testing.T) {
	th := NewThumbnails(8, nil)
	s := New(2)
	var snaps []Snapshot
	for i := 0; i < 3; i++ {
		snap := s.Push(encodeSolid(t, 4, 4), 4, 4)
		snaps = append(snaps, snap)
		th.Capture(snap)
	}
	th.Wait()
	th.Retain(s.Entries())
	if _, ok := th.Get(snaps[0].Seq); ok {
		t.Fatal("evicted snapshot thumbnail kept")
	}
	if th.Len() != 2 {
		t.Fatalf("len = %d, want 2", th.Len())
	}
}

func TestThumbnailsRetainBeforeDecodeFinishes(t *testing.T) {
	th := NewThumbnails(8, nil)
	s := New(30)
	snap := s.Push(encodeSolid(t, 4, 4), 4, 4)
	th.Capture(snap)
	th.Retain(nil)
	th.Wait()
	if th.Len() != 0 {
		t.Fatalf("len = %d, want dropped decode discarded", th.Len())
	}
}
