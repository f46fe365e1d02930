package canvas

// Section groups the entries of one side of a structural diff.
type Section[T any] struct {
	Added    []T `json:"added"`
	Removed  []T `json:"removed"`
	Modified []T `json:"modified"`
}

// SnapshotDiff is the structural difference between two snapshots.
type SnapshotDiff struct {
	Nodes Section[Node] `json:"nodes"`
	Edges Section[Edge] `json:"edges"`
}

// DiffSummary is the roll-up of a SnapshotDiff: counts summed across the
// node and edge sections.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// Summary returns the roll-up counts for the diff.
func (d SnapshotDiff) Summary() DiffSummary {
	return DiffSummary{
		Added:    len(d.Nodes.Added) + len(d.Edges.Added),
		Removed:  len(d.Nodes.Removed) + len(d.Edges.Removed),
		Modified: len(d.Nodes.Modified) + len(d.Edges.Modified),
	}
}

// Empty reports whether the diff contains no entries in any section.
func (d SnapshotDiff) Empty() bool {
	s := d.Summary()
	return s.Added == 0 && s.Removed == 0 && s.Modified == 0
}

// Diff computes the added/removed/modified sets between two snapshots.
// Classification is keyed solely by id: an entry on both sides with unequal
// projections is modified, never a remove+add pair. Runs in O(n+e) using
// id-keyed maps on both sides.
func Diff(prev, next Snapshot) SnapshotDiff {
	var d SnapshotDiff

	prevNodes := make(map[string]Node, len(prev.Nodes))
	for _, n := range prev.Nodes {
		prevNodes[n.ID] = n
	}
	nextNodes := make(map[string]Node, len(next.Nodes))
	for _, n := range next.Nodes {
		nextNodes[n.ID] = n
	}
	for _, n := range next.Nodes {
		old, ok := prevNodes[n.ID]
		switch {
		case !ok:
			d.Nodes.Added = append(d.Nodes.Added, n)
		case !EqualNodes(old, n):
			d.Nodes.Modified = append(d.Nodes.Modified, n)
		}
	}
	for _, n := range prev.Nodes {
		if _, ok := nextNodes[n.ID]; !ok {
			d.Nodes.Removed = append(d.Nodes.Removed, n)
		}
	}

	prevEdges := make(map[string]Edge, len(prev.Edges))
	for _, e := range prev.Edges {
		prevEdges[e.ID] = e
	}
	nextEdges := make(map[string]Edge, len(next.Edges))
	for _, e := range next.Edges {
		nextEdges[e.ID] = e
	}
	for _, e := range next.Edges {
		old, ok := prevEdges[e.ID]
		switch {
		case !ok:
			d.Edges.Added = append(d.Edges.Added, e)
		case !EqualEdges(old, e):
			d.Edges.Modified = append(d.Edges.Modified, e)
		}
	}
	for _, e := range prev.Edges {
		if _, ok := nextEdges[e.ID]; !ok {
			d.Edges.Removed = append(d.Edges.Removed, e)
		}
	}

	return d
}

// VersionDiff is the display form of a diff between two saved versions:
// node labels for the quick summary plus the full structural detail.
type VersionDiff struct {
	VersionA     string       `json:"version_a"`
	VersionB     string       `json:"version_b"`
	AddedNodes   []string     `json:"added_nodes"`
	RemovedNodes []string     `json:"removed_nodes"`
	Detail       SnapshotDiff `json:"detail"`
}

// NewVersionDiff builds the display form from two labeled snapshots.
func NewVersionDiff(versionA, versionB string, a, b Snapshot) VersionDiff {
	detail := Diff(a, b)
	vd := VersionDiff{
		VersionA:     versionA,
		VersionB:     versionB,
		AddedNodes:   make([]string, 0, len(detail.Nodes.Added)),
		RemovedNodes: make([]string, 0, len(detail.Nodes.Removed)),
		Detail:       detail,
	}
	for _, n := range detail.Nodes.Added {
		vd.AddedNodes = append(vd.AddedNodes, n.Data.Label)
	}
	for _, n := range detail.Nodes.Removed {
		vd.RemovedNodes = append(vd.RemovedNodes, n.Data.Label)
	}
	return vd
}
