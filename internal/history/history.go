// Package history keeps the bounded undo/redo timeline of rendered rasters.
package history

// DefaultLimit is the number of snapshots retained when no limit is given.
const DefaultLimit = 30

// Snapshot is a standalone encoded copy of a rendered raster.
type Snapshot struct {
	// Seq identifies the snapshot for the lifetime of the Stack. It is
	// assigned at push time and never reused, even across Reset.
	Seq    uint64
	Data   []byte
	Width  int
	Height int
}

// Stack is a linear, truncating undo/redo history with a fixed capacity.
//
// index is -1 exactly when the stack is empty; otherwise it addresses the
// snapshot currently shown.
type Stack struct {
	limit     int
	entries   []Snapshot
	index     int
	nextSeq   uint64
	evictions int
}

// New creates a Stack that retains at most limit snapshots.
func New(limit int) *Stack {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit, index: -1}
}

// Limit reports the capacity of the stack.
func (s *Stack) Limit() int { return s.limit }

// Len reports how many snapshots are retained.
func (s *Stack) Len() int { return len(s.entries) }

// Index reports the position of the current snapshot, or -1 when empty.
func (s *Stack) Index() int { return s.index }

// Evictions reports how many snapshots were dropped to respect the limit.
func (s *Stack) Evictions() int { return s.evictions }

// Push appends a snapshot of data. Any redo branch after the current index
// is discarded first. When the limit is exceeded the oldest snapshot is
// evicted and the index stays put, sliding with the window.
func (s *Stack) Push(data []byte, width, height int) Snapshot {
	if s.index < len(s.entries)-1 {
		clear(s.entries[s.index+1:])
		s.entries = s.entries[:s.index+1]
	}
	s.nextSeq++
	snap := Snapshot{Seq: s.nextSeq, Data: data, Width: width, Height: height}
	s.entries = append(s.entries, snap)
	if len(s.entries) > s.limit {
		s.entries[0] = Snapshot{}
		s.entries = s.entries[1:]
		s.evictions++
	} else {
		s.index++
	}
	return snap
}

// CanUndo reports whether Undo would return a snapshot.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would return a snapshot.
func (s *Stack) CanRedo() bool { return s.index < len(s.entries)-1 }

// Undo steps back one snapshot. It reports false at the base state.
func (s *Stack) Undo() (Snapshot, bool) {
	if !s.CanUndo() {
		return Snapshot{}, false
	}
	s.index--
	return s.entries[s.index], true
}

// Redo steps forward one snapshot. It reports false at the newest state.
func (s *Stack) Redo() (Snapshot, bool) {
	if !s.CanRedo() {
		return Snapshot{}, false
	}
	s.index++
	return s.entries[s.index], true
}

// Current returns the snapshot at the current index.
func (s *Stack) Current() (Snapshot, bool) {
	if s.index < 0 || s.index >= len(s.entries) {
		return Snapshot{}, false
	}
	return s.entries[s.index], true
}

// Entries returns the retained snapshots, oldest first.
func (s *Stack) Entries() []Snapshot {
	out := make([]Snapshot, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reset drops every snapshot. Sequence numbers keep increasing afterwards.
func (s *Stack) Reset() {
	s.entries = nil
	s.index = -1
}
