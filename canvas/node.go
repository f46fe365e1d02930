package canvas

// NodeType identifies the behavior class of a canvas node.
type NodeType string

const (
	NodeTrigger   NodeType = "trigger"
	NodeAction    NodeType = "action"
	NodeAgent     NodeType = "agent"
	NodeCondition NodeType = "condition"
)

// Position is the node location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the user-editable payload of a node. Known fields are
// typed; Config is the escape hatch for type-specific settings so new node
// kinds can ship without a model change.
type NodeData struct {
	Label              string         `json:"label"`
	Description        string         `json:"description,omitempty"`
	RequiresCredential bool           `json:"requires_credential,omitempty"`
	Config             map[string]any `json:"config,omitempty"`
}

// Node is a single element on the workflow canvas.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	out.Data.Config = cloneConfig(n.Data.Config)
	return out
}

func cloneConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}

// DefaultNodeData returns the starter payload for a freshly added node of
// the given type. The per-type Config keys mirror what the inspector panel
// renders for that node kind.
func DefaultNodeData(t NodeType) NodeData {
	switch t {
	case NodeTrigger:
		return NodeData{
			Label:  "New Trigger",
			Config: map[string]any{"event": "manual"},
		}
	case NodeAgent:
		return NodeData{
			Label:              "New Agent",
			RequiresCredential: true,
			Config: map[string]any{
				"model":       "gpt-4o-mini",
				"prompt":      "",
				"temperature": 0.7,
			},
		}
	case NodeCondition:
		return NodeData{
			Label:  "New Condition",
			Config: map[string]any{"expression": ""},
		}
	default:
		return NodeData{
			Label:  "New Action",
			Config: map[string]any{"operation": ""},
		}
	}
}
