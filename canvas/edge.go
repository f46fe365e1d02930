package canvas

// Edge is a directed connection between two nodes on the canvas.
// Source and Target must reference nodes present in the same snapshot;
// a dangling edge is a corruption bug, never a valid state.
type Edge struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	SourceHandle string         `json:"source_handle,omitempty"`
	TargetHandle string         `json:"target_handle,omitempty"`
	Label        string         `json:"label,omitempty"`
	Type         string         `json:"type,omitempty"`
	Animated     bool           `json:"animated,omitempty"`
	Style        map[string]any `json:"style,omitempty"`
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	out := e
	out.Style = cloneConfig(e.Style)
	return out
}
