package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseNode() Node {
	return Node{
		ID:       "n1",
		Type:     NodeAgent,
		Position: Position{X: 10, Y: 20},
		Data: NodeData{
			Label:              "Agent",
			Description:        "does things",
			RequiresCredential: true,
			Config:             map[string]any{"model": "gpt-4o-mini"},
		},
	}
}

func TestEqualNodes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Node)
		equal  bool
	}{
		{"identical", func(n *Node) {}, true},
		{"different id", func(n *Node) { n.ID = "n2" }, false},
		{"different type", func(n *Node) { n.Type = NodeAction }, false},
		{"different position", func(n *Node) { n.Position.X = 99 }, false},
		{"different label", func(n *Node) { n.Data.Label = "Other" }, false},
		{"different description", func(n *Node) { n.Data.Description = "" }, false},
		{"different credential flag", func(n *Node) { n.Data.RequiresCredential = false }, false},
		{"different config value", func(n *Node) { n.Data.Config["model"] = "other" }, false},
		{"extra config key", func(n *Node) { n.Data.Config["extra"] = 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseNode()
			b := baseNode()
			tt.mutate(&b)
			assert.Equal(t, tt.equal, EqualNodes(a, b))
		})
	}
}

func TestEqualNodes_NilAndEmptyConfig(t *testing.T) {
	a := baseNode()
	b := baseNode()
	a.Data.Config = nil
	b.Data.Config = map[string]any{}
	assert.True(t, EqualNodes(a, b))
}

func TestEqualEdges(t *testing.T) {
	base := Edge{
		ID: "e1", Source: "a", Target: "b",
		SourceHandle: "out", TargetHandle: "in",
		Label: "yes", Type: "smooth", Animated: true,
		Style: map[string]any{"stroke": "#f00"},
	}

	same := base.Clone()
	assert.True(t, EqualEdges(base, same))

	retargeted := base.Clone()
	retargeted.Target = "c"
	assert.False(t, EqualEdges(base, retargeted))

	restyled := base.Clone()
	restyled.Style["stroke"] = "#0f0"
	assert.False(t, EqualEdges(base, restyled))

	calmed := base.Clone()
	calmed.Animated = false
	assert.False(t, EqualEdges(base, calmed))
}

func TestNodeClone_Independent(t *testing.T) {
	a := baseNode()
	b := a.Clone()
	b.Data.Config["model"] = "changed"
	assert.Equal(t, "gpt-4o-mini", a.Data.Config["model"])
}
