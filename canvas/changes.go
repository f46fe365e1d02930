package canvas

// Change application for the rendering surface. The canvas renderer reports
// user interaction as a list of positional/selection/removal changes; the
// editor applies the whole list as one mutation so drags and multi-deletes
// land as a single undo step.

// NodeChangeType discriminates NodeChange entries.
type NodeChangeType string

const (
	NodeChangePosition NodeChangeType = "position"
	NodeChangeSelect   NodeChangeType = "select"
	NodeChangeRemove   NodeChangeType = "remove"
)

// NodeChange is one rendering-surface change to a node.
type NodeChange struct {
	Type     NodeChangeType `json:"type"`
	ID       string         `json:"id"`
	Position *Position      `json:"position,omitempty"`
	Selected *bool          `json:"selected,omitempty"`
}

// EdgeChangeType discriminates EdgeChange entries.
type EdgeChangeType string

const (
	EdgeChangeRemove EdgeChangeType = "remove"
)

// EdgeChange is one rendering-surface change to an edge.
type EdgeChange struct {
	Type EdgeChangeType `json:"type"`
	ID   string         `json:"id"`
}

// ApplyNodeChanges applies a batch of renderer changes. Unknown ids are
// skipped. Selection-only batches do not create a history entry; anything
// structural or positional pushes exactly one.
func (e *Editor) ApplyNodeChanges(changes []NodeChange) {
	e.mu.Lock()
	dirty := false
	for _, c := range changes {
		switch c.Type {
		case NodeChangePosition:
			idx := e.indexOfLocked(c.ID)
			if idx < 0 || c.Position == nil {
				continue
			}
			e.nodes[idx].Position = *c.Position
			dirty = true
		case NodeChangeSelect:
			if e.indexOfLocked(c.ID) < 0 || c.Selected == nil {
				continue
			}
			if *c.Selected {
				e.selected = c.ID
			} else if e.selected == c.ID {
				e.selected = ""
			}
		case NodeChangeRemove:
			if e.indexOfLocked(c.ID) < 0 {
				continue
			}
			e.removeNodeLocked(c.ID)
			if e.selected == c.ID {
				e.selected = ""
			}
			dirty = true
		}
	}
	if dirty {
		e.commitLocked("apply_node_changes")
	}
	e.mu.Unlock()

	if dirty {
		e.emit()
	}
}

// ApplyEdgeChanges applies a batch of renderer edge changes.
func (e *Editor) ApplyEdgeChanges(changes []EdgeChange) {
	e.mu.Lock()
	dirty := false
	for _, c := range changes {
		if c.Type != EdgeChangeRemove {
			continue
		}
		edges := e.edges[:0:0]
		for _, edge := range e.edges {
			if edge.ID != c.ID {
				edges = append(edges, edge)
			} else {
				dirty = true
			}
		}
		e.edges = edges
	}
	if dirty {
		e.commitLocked("apply_edge_changes")
	}
	e.mu.Unlock()

	if dirty {
		e.emit()
	}
}
