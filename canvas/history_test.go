package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWith(labels ...string) Snapshot {
	var s Snapshot
	for i, l := range labels {
		s.Nodes = append(s.Nodes, Node{ID: fmt.Sprintf("n%d", i), Data: NodeData{Label: l}})
	}
	return s
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(0)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
	_, ok = h.Current()
	assert.False(t, ok)
}

func TestHistory_PushUndoRedo(t *testing.T) {
	h := NewHistory(0)
	h.Push(snapshotWith("a"))
	h.Push(snapshotWith("a", "b"))
	h.Push(snapshotWith("a", "b", "c"))

	require.Equal(t, 3, h.Len())
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	s, ok := h.Undo()
	require.True(t, ok)
	assert.Len(t, s.Nodes, 2)
	assert.True(t, h.CanRedo())

	s, ok = h.Undo()
	require.True(t, ok)
	assert.Len(t, s.Nodes, 1)
	assert.False(t, h.CanUndo())

	s, ok = h.Redo()
	require.True(t, ok)
	assert.Len(t, s.Nodes, 2)

	s, ok = h.Redo()
	require.True(t, ok)
	assert.Len(t, s.Nodes, 3)
	assert.False(t, h.CanRedo())
}

func TestHistory_PushTruncatesRedoTail(t *testing.T) {
	h := NewHistory(0)
	h.Push(snapshotWith("a"))
	h.Push(snapshotWith("a", "b"))
	h.Push(snapshotWith("a", "b", "c"))

	_, _ = h.Undo()
	_, _ = h.Undo()
	require.True(t, h.CanRedo())

	h.Push(snapshotWith("a", "x"))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())

	cur, ok := h.Current()
	require.True(t, ok)
	require.Len(t, cur.Nodes, 2)
	assert.Equal(t, "x", cur.Nodes[1].Data.Label)
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 10; i++ {
		h.Push(snapshotWith(fmt.Sprintf("s%d", i)))
	}
	assert.Equal(t, 3, h.Len())

	cur, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, "s9", cur.Nodes[0].Data.Label)

	// Only the retained window is undoable.
	s, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "s8", s.Nodes[0].Data.Label)
	s, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "s7", s.Nodes[0].Data.Label)
	assert.False(t, h.CanUndo())
}

func TestHistory_PushStoresCopy(t *testing.T) {
	h := NewHistory(0)
	s := snapshotWith("a")
	h.Push(s)
	s.Nodes[0].Data.Label = "mutated"

	cur, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.Nodes[0].Data.Label)
}
