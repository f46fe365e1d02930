package canvas

import "errors"

// Engine errors. Composition failures (stale sub-workflow ids, unmapped
// template endpoints) are deliberately not errors: those paths degrade
// gracefully so a composition operation can never brick the editor mid-edit.
var (
	// ErrParse marks a malformed import payload or one missing its nodes or
	// edges arrays. The editor state is left untouched when it is returned.
	ErrParse = errors.New("could not parse workflow payload")

	// ErrLoadInFlight is returned when a Load is requested while another
	// Load for the same editor is still pending.
	ErrLoadInFlight = errors.New("a load is already in flight")

	// ErrNoStore is returned from persistence operations on an editor that
	// was built without a persistence collaborator.
	ErrNoStore = errors.New("no persistence store configured")

	// ErrNoSelection is returned when an operation requires a selected node.
	ErrNoSelection = errors.New("no node selected")
)
