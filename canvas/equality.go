package canvas

import "reflect"

// Structural equality over the canonical field projection. The diff and
// history layers only ever see this projection; transient view-model
// decorations (hover highlights, drag ghosts) never reach these types, so
// there is nothing to exclude here.

// EqualNodes reports deep structural equality of two nodes.
func EqualNodes(a, b Node) bool {
	if a.ID != b.ID || a.Type != b.Type || a.Position != b.Position {
		return false
	}
	if a.Data.Label != b.Data.Label ||
		a.Data.Description != b.Data.Description ||
		a.Data.RequiresCredential != b.Data.RequiresCredential {
		return false
	}
	return equalConfig(a.Data.Config, b.Data.Config)
}

// EqualEdges reports deep structural equality of two edges.
func EqualEdges(a, b Edge) bool {
	if a.ID != b.ID || a.Source != b.Source || a.Target != b.Target {
		return false
	}
	if a.SourceHandle != b.SourceHandle || a.TargetHandle != b.TargetHandle {
		return false
	}
	if a.Label != b.Label || a.Type != b.Type || a.Animated != b.Animated {
		return false
	}
	return equalConfig(a.Style, b.Style)
}

// equalConfig treats nil and empty maps as equal; JSON round trips do not
// distinguish them.
func equalConfig(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
