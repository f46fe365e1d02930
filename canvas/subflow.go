package canvas

import "github.com/google/uuid"

// SubWorkflow is a user-named reference into the node set of the graph at
// creation time. The record stores ids only; if referenced nodes are later
// deleted the record goes stale and application degrades gracefully by
// skipping the missing ids.
type SubWorkflow struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	NodeIDs []string `json:"node_ids"`
}

// SubWorkflowRegistry holds the sub-workflows defined in one editing
// session, in creation order.
type SubWorkflowRegistry struct {
	flows map[string]SubWorkflow
	order []string
}

// NewSubWorkflowRegistry creates an empty registry.
func NewSubWorkflowRegistry() *SubWorkflowRegistry {
	return &SubWorkflowRegistry{flows: make(map[string]SubWorkflow)}
}

// Register records a new sub-workflow over the given node ids and returns it.
func (r *SubWorkflowRegistry) Register(name string, nodeIDs []string) SubWorkflow {
	sw := SubWorkflow{
		ID:      uuid.NewString(),
		Name:    name,
		NodeIDs: append([]string(nil), nodeIDs...),
	}
	r.flows[sw.ID] = sw
	r.order = append(r.order, sw.ID)
	return sw
}

// Get returns the sub-workflow with the given id.
func (r *SubWorkflowRegistry) Get(id string) (SubWorkflow, bool) {
	sw, ok := r.flows[id]
	return sw, ok
}

// List returns the sub-workflows in creation order.
func (r *SubWorkflowRegistry) List() []SubWorkflow {
	out := make([]SubWorkflow, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.flows[id])
	}
	return out
}
