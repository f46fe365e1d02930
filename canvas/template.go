package canvas

import "github.com/google/uuid"

// Template is an authored, reusable starter graph fragment. Templates are
// catalog data, not user-created at runtime.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Snapshot    Snapshot `json:"snapshot"`
}

// Instantiate clones the template fragment with freshly generated node and
// edge ids, remapping edge endpoints through the old-id map so that two
// instantiations of the same template never collide. Relative positions are
// preserved. An endpoint absent from the map falls back to its original id;
// a well-formed template never hits that path.
func (t Template) Instantiate() Snapshot {
	idMap := make(map[string]string, len(t.Snapshot.Nodes))
	out := Snapshot{
		Nodes: make([]Node, 0, len(t.Snapshot.Nodes)),
		Edges: make([]Edge, 0, len(t.Snapshot.Edges)),
	}
	for _, n := range t.Snapshot.Nodes {
		clone := n.Clone()
		clone.ID = uuid.NewString()
		idMap[n.ID] = clone.ID
		out.Nodes = append(out.Nodes, clone)
	}
	for _, e := range t.Snapshot.Edges {
		clone := e.Clone()
		clone.ID = uuid.NewString()
		if mapped, ok := idMap[e.Source]; ok {
			clone.Source = mapped
		}
		if mapped, ok := idMap[e.Target]; ok {
			clone.Target = mapped
		}
		out.Edges = append(out.Edges, clone)
	}
	return out
}

// TemplateCatalog is a fixed, ordered lookup of templates keyed by id.
type TemplateCatalog struct {
	templates map[string]Template
	order     []string
}

// NewTemplateCatalog builds a catalog from authored templates.
func NewTemplateCatalog(templates ...Template) *TemplateCatalog {
	c := &TemplateCatalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if _, exists := c.templates[t.ID]; !exists {
			c.order = append(c.order, t.ID)
		}
		c.templates[t.ID] = t
	}
	return c
}

// Get returns the template with the given id.
func (c *TemplateCatalog) Get(id string) (Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// List returns the templates in catalog order.
func (c *TemplateCatalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// DefaultCatalog returns the built-in starter templates.
func DefaultCatalog() *TemplateCatalog {
	return NewTemplateCatalog(
		Template{
			ID:          "tmpl-agent-pipeline",
			Name:        "Agent pipeline",
			Description: "Trigger feeding a single agent with an action on its output.",
			Snapshot: Snapshot{
				Nodes: []Node{
					{ID: "t1", Type: NodeTrigger, Position: Position{X: 40, Y: 120}, Data: NodeData{Label: "Webhook", Config: map[string]any{"event": "webhook"}}},
					{ID: "a1", Type: NodeAgent, Position: Position{X: 280, Y: 120}, Data: NodeData{Label: "Summarize", RequiresCredential: true, Config: map[string]any{"model": "gpt-4o-mini", "prompt": "Summarize the input."}}},
					{ID: "x1", Type: NodeAction, Position: Position{X: 520, Y: 120}, Data: NodeData{Label: "Send email", Config: map[string]any{"operation": "email.send"}}},
				},
				Edges: []Edge{
					{ID: "e1", Source: "t1", Target: "a1"},
					{ID: "e2", Source: "a1", Target: "x1"},
				},
			},
		},
		Template{
			ID:          "tmpl-branching",
			Name:        "Conditional branch",
			Description: "Trigger into a condition with two downstream actions.",
			Snapshot: Snapshot{
				Nodes: []Node{
					{ID: "t1", Type: NodeTrigger, Position: Position{X: 40, Y: 160}, Data: NodeData{Label: "Schedule", Config: map[string]any{"event": "cron"}}},
					{ID: "c1", Type: NodeCondition, Position: Position{X: 280, Y: 160}, Data: NodeData{Label: "Has attachment?", Config: map[string]any{"expression": "input.attachments > 0"}}},
					{ID: "x1", Type: NodeAction, Position: Position{X: 520, Y: 80}, Data: NodeData{Label: "Archive", Config: map[string]any{"operation": "storage.put"}}},
					{ID: "x2", Type: NodeAction, Position: Position{X: 520, Y: 240}, Data: NodeData{Label: "Notify", Config: map[string]any{"operation": "chat.post"}}},
				},
				Edges: []Edge{
					{ID: "e1", Source: "t1", Target: "c1"},
					{ID: "e2", Source: "c1", Target: "x1", Label: "yes"},
					{ID: "e3", Source: "c1", Target: "x2", Label: "no"},
				},
			},
		},
	)
}
