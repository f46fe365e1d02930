package canvas

import "fmt"

// ValidateForPublish checks a candidate graph against the publish rules and
// returns human-readable issues, one per violation. An empty result means
// the graph is publishable. The result is advisory: the engine never blocks
// on it, the publish action decides.
//
// Rules, in order:
//  1. the graph must contain at least one node
//  2. every node must carry a non-empty label
//  3. every node requiring a credential must have an assignment
func ValidateForPublish(nodes []Node, credentials map[string]string) []string {
	issues := []string{}
	if len(nodes) == 0 {
		issues = append(issues, "Workflow requires at least one node.")
	}
	for _, n := range nodes {
		if n.Data.Label == "" {
			issues = append(issues, fmt.Sprintf("Node %s is missing a label.", n.ID))
		}
	}
	for _, n := range nodes {
		if !n.Data.RequiresCredential {
			continue
		}
		if _, ok := credentials[n.ID]; !ok {
			issues = append(issues, fmt.Sprintf("Node %s requires a credential assignment.", n.Data.Label))
		}
	}
	return issues
}
