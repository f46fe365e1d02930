// Package fixtures provides canned graphs for tests.
package fixtures

import (
	"fmt"

	"github.com/BaSui01/flowcanvas/canvas"
)

// TriggerNode returns a trigger node with the given id and label.
func TriggerNode(id, label string) canvas.Node {
	return canvas.Node{
		ID:       id,
		Type:     canvas.NodeTrigger,
		Position: canvas.Position{X: 40, Y: 120},
		Data:     canvas.NodeData{Label: label, Config: map[string]any{"event": "manual"}},
	}
}

// AgentNode returns a credential-requiring agent node.
func AgentNode(id, label string) canvas.Node {
	return canvas.Node{
		ID:       id,
		Type:     canvas.NodeAgent,
		Position: canvas.Position{X: 280, Y: 120},
		Data: canvas.NodeData{
			Label:              label,
			RequiresCredential: true,
			Config:             map[string]any{"model": "gpt-4o-mini"},
		},
	}
}

// PipelineSnapshot returns a trigger -> agent -> action chain with its two
// connecting edges.
func PipelineSnapshot() canvas.Snapshot {
	return canvas.Snapshot{
		Nodes: []canvas.Node{
			TriggerNode("t1", "Webhook"),
			AgentNode("a1", "Summarize"),
			{
				ID:       "x1",
				Type:     canvas.NodeAction,
				Position: canvas.Position{X: 520, Y: 120},
				Data:     canvas.NodeData{Label: "Send email", Config: map[string]any{"operation": "email.send"}},
			},
		},
		Edges: []canvas.Edge{
			{ID: "e1", Source: "t1", Target: "a1"},
			{ID: "e2", Source: "a1", Target: "x1"},
		},
	}
}

// LinearSnapshot returns n action nodes chained with n-1 edges.
func LinearSnapshot(n int) canvas.Snapshot {
	var s canvas.Snapshot
	for i := 0; i < n; i++ {
		s.Nodes = append(s.Nodes, canvas.Node{
			ID:       fmt.Sprintf("n%d", i),
			Type:     canvas.NodeAction,
			Position: canvas.Position{X: float64(80 * i), Y: 100},
			Data:     canvas.NodeData{Label: fmt.Sprintf("Step %d", i)},
		})
		if i > 0 {
			s.Edges = append(s.Edges, canvas.Edge{
				ID:     fmt.Sprintf("e%d", i),
				Source: fmt.Sprintf("n%d", i-1),
				Target: fmt.Sprintf("n%d", i),
			})
		}
	}
	return s
}
