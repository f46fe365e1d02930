package canvas

import (
	"testing"

	"pgregory.net/rapid"
)

// The undo/redo pair must be a perfect inverse over any mutation sequence:
// after k undos followed by k redos the graph is identical to where it was,
// and undoing all the way back always recovers the initial canvas.
func TestEditor_UndoRedoInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := NewEditor()
		applyRandomMutations(t, e)

		final := e.Snapshot()

		undos := 0
		for e.Undo() {
			undos++
		}
		if got := len(e.Nodes()); got != 0 {
			t.Fatalf("full undo left %d nodes, want empty initial canvas", got)
		}

		for i := 0; i < undos; i++ {
			if !e.Redo() {
				t.Fatalf("redo %d of %d unavailable", i+1, undos)
			}
		}
		if !EqualSnapshots(final, e.Snapshot()) {
			t.Fatalf("redo chain did not restore the final graph")
		}
	})
}

func TestEditor_UndoNeverPanicsMidSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := NewEditor()
		steps := rapid.IntRange(0, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 5).Draw(t, "op") {
			case 0:
				e.AddNode(NodeAction)
			case 1:
				e.DuplicateSelected()
			case 2:
				e.DeleteSelected()
			case 3:
				e.Undo()
			case 4:
				e.Redo()
			case 5:
				if nodes := e.Nodes(); len(nodes) >= 2 {
					e.Connect(nodes[0].ID, nodes[1].ID, "", "")
				}
			}
		}
		// The live graph always equals the history cursor entry.
		if e.CanUndo() {
			snap := e.Snapshot()
			if !e.Undo() {
				t.Fatal("CanUndo reported true but Undo failed")
			}
			if !e.Redo() {
				t.Fatal("redo after undo must be available")
			}
			if !EqualSnapshots(snap, e.Snapshot()) {
				t.Fatal("undo+redo changed the graph")
			}
		}
	})
}

func applyRandomMutations(t *rapid.T, e *Editor) {
	steps := rapid.IntRange(1, 15).Draw(t, "mutations")
	for i := 0; i < steps; i++ {
		switch rapid.IntRange(0, 4).Draw(t, "mutation") {
		case 0:
			e.AddNode(NodeAction)
		case 1:
			e.AddNode(NodeAgent)
		case 2:
			e.DuplicateSelected()
		case 3:
			if nodes := e.Nodes(); len(nodes) > 0 {
				idx := rapid.IntRange(0, len(nodes)-1).Draw(t, "move_idx")
				x := float64(rapid.IntRange(0, 1000).Draw(t, "x"))
				y := float64(rapid.IntRange(0, 1000).Draw(t, "y"))
				e.MoveNode(nodes[idx].ID, Position{X: x, Y: y})
			}
		case 4:
			if nodes := e.Nodes(); len(nodes) >= 2 {
				a := rapid.IntRange(0, len(nodes)-1).Draw(t, "src")
				b := rapid.IntRange(0, len(nodes)-1).Draw(t, "dst")
				e.Connect(nodes[a].ID, nodes[b].ID, "", "")
			}
		}
	}
}
