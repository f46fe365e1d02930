package canvas

// Snapshot is a complete, immutable copy of the canvas at one point in
// time. It is the unit of undo/redo and of save/load: always a full copy,
// never a partial patch.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range s.Edges {
		out.Edges[i] = e.Clone()
	}
	return out
}

// NodeByID returns the node with the given id, if present.
func (s Snapshot) NodeByID(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// EqualSnapshots reports whether two snapshots hold structurally equal
// nodes and edges in the same order.
func EqualSnapshots(a, b Snapshot) bool {
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		return false
	}
	for i := range a.Nodes {
		if !EqualNodes(a.Nodes[i], b.Nodes[i]) {
			return false
		}
	}
	for i := range a.Edges {
		if !EqualEdges(a.Edges[i], b.Edges[i]) {
			return false
		}
	}
	return true
}
