package canvas

// History is the linear undo/redo stack: an append-only list of snapshots
// plus a cursor. Pushing after an undo discards the redo tail; there is no
// branching. All operations are in-memory and total.
type History struct {
	snapshots []Snapshot
	cursor    int
	limit     int
}

// NewHistory creates an empty history. limit caps the number of retained
// snapshots; 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{cursor: -1, limit: limit}
}

// Push truncates any redoable entries past the cursor, appends a deep copy
// of the snapshot, and moves the cursor to the new tail.
func (h *History) Push(s Snapshot) {
	h.snapshots = append(h.snapshots[:h.cursor+1], s.Clone())
	if h.limit > 0 && len(h.snapshots) > h.limit {
		drop := len(h.snapshots) - h.limit
		h.snapshots = h.snapshots[drop:]
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back one entry and returns the snapshot there.
// It reports false at the start of history.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor].Clone(), true
}

// Redo moves the cursor forward one entry and returns the snapshot there.
// It reports false at the end of history.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.snapshots[h.cursor].Clone(), true
}

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.snapshots)-1 }

// Current returns the snapshot at the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 {
		return Snapshot{}, false
	}
	return h.snapshots[h.cursor].Clone(), true
}

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the current cursor index, -1 when empty.
func (h *History) Cursor() int { return h.cursor }
