// Package flowcanvas provides a top-level convenience entry point for
// creating a canvas editor with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/flowcanvas"
//
//	ed := flowcanvas.New()
//	ed := flowcanvas.New(flowcanvas.WithStore(kv), flowcanvas.WithLogger(logger))
//
// This is a thin wrapper around [canvas.NewEditor]; both produce identical
// results. Use this package when you prefer the shorter import path.
package flowcanvas

import (
	"github.com/BaSui01/flowcanvas/canvas"
)

// Version is the library version.
const Version = "0.4.0"

// Option configures the editor created by [New].
type Option = canvas.Option

// New creates a [canvas.Editor] over an empty canvas.
func New(opts ...Option) *canvas.Editor {
	return canvas.NewEditor(opts...)
}

// Re-export editor options so callers never need to import canvas/.

// WithLogger sets a custom zap logger.
var WithLogger = canvas.WithLogger

// WithStore attaches a key-value persistence collaborator.
var WithStore = canvas.WithStore

// WithTemplates replaces the built-in template catalog.
var WithTemplates = canvas.WithTemplates

// WithHistoryLimit caps the undo history.
var WithHistoryLimit = canvas.WithHistoryLimit

// WithMetrics enables prometheus instrumentation.
var WithMetrics = canvas.WithMetrics

// WithAutosave enables rate-limited background saves.
var WithAutosave = canvas.WithAutosave

// WithInitialSnapshot seeds the editor with an existing graph.
var WithInitialSnapshot = canvas.WithInitialSnapshot
