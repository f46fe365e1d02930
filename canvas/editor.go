package canvas

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/store"
)

// Editor is the single public surface of the canvas engine. It owns the
// live graph, the undo history, the credential assignments, and the
// composition registries, and exposes the mutation operations a rendering
// surface needs. Every mutation pushes the resulting full snapshot onto the
// history, so every history entry is directly renderable.
type Editor struct {
	mu          sync.RWMutex
	nodes       []Node
	edges       []Edge
	credentials map[string]string
	selected    string

	history   *History
	templates *TemplateCatalog
	subflows  *SubWorkflowRegistry
	snapshots *SnapshotStore

	loading atomic.Bool

	autosave *rate.Limiter
	onChange []func(nodes []Node, edges []Edge)

	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures an Editor.
type Option func(*editorOptions)

type editorOptions struct {
	logger         *zap.Logger
	kv             store.KV
	templates      *TemplateCatalog
	historyLimit   int
	metricsEnabled bool
	metricsReg     prometheus.Registerer
	autosave       time.Duration
	initial        *Snapshot
}

// WithLogger sets the zap logger; a nop logger is used by default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *editorOptions) { o.logger = logger }
}

// WithStore attaches a persistence collaborator. Without one, Save/Load/
// Versions return ErrNoStore.
func WithStore(kv store.KV) Option {
	return func(o *editorOptions) { o.kv = kv }
}

// WithTemplates replaces the built-in template catalog.
func WithTemplates(catalog *TemplateCatalog) Option {
	return func(o *editorOptions) { o.templates = catalog }
}

// WithHistoryLimit caps the undo history; 0 (the default) is unbounded.
func WithHistoryLimit(limit int) Option {
	return func(o *editorOptions) { o.historyLimit = limit }
}

// WithMetrics enables prometheus instrumentation, registering the engine
// instruments on reg. A nil reg uses the default registerer; tests pass
// their own prometheus.NewRegistry so multiple editors never collide.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *editorOptions) {
		o.metricsEnabled = true
		o.metricsReg = reg
	}
}

// WithAutosave enables rate-limited background saves after mutations, at
// most one per interval. Requires WithStore.
func WithAutosave(interval time.Duration) Option {
	return func(o *editorOptions) { o.autosave = interval }
}

// WithInitialSnapshot seeds the editor with an existing graph instead of an
// empty canvas.
func WithInitialSnapshot(s Snapshot) Option {
	return func(o *editorOptions) {
		clone := s.Clone()
		o.initial = &clone
	}
}

// NewEditor creates an editor over an empty canvas (or the configured
// initial snapshot) and records it as the first history entry.
func NewEditor(opts ...Option) *Editor {
	var o editorOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.templates == nil {
		o.templates = DefaultCatalog()
	}

	var collector *metrics.Collector
	if o.metricsEnabled {
		collector = metrics.NewCollector("flowcanvas", o.metricsReg, o.logger)
	}

	e := &Editor{
		credentials: make(map[string]string),
		history:     NewHistory(o.historyLimit),
		templates:   o.templates,
		subflows:    NewSubWorkflowRegistry(),
		logger:      o.logger.With(zap.String("component", "editor")),
		metrics:     collector,
	}
	if o.kv != nil {
		e.snapshots = NewSnapshotStore(o.kv, o.logger, collector)
		if o.autosave > 0 {
			e.autosave = rate.NewLimiter(rate.Every(o.autosave), 1)
		}
	}
	if o.initial != nil {
		e.nodes = o.initial.Nodes
		e.edges = o.initial.Edges
	}
	e.history.Push(Snapshot{Nodes: e.nodes, Edges: e.edges})
	e.metrics.SetGraphSize(len(e.nodes), len(e.edges), e.history.Len())
	return e
}

// --- read-only views ---------------------------------------------------

// Nodes returns a fresh copy of the live node list. A new slice identity is
// returned on every call so consumers can shallow-diff for re-render.
func (e *Editor) Nodes() []Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneNodes(e.nodes)
}

// Edges returns a fresh copy of the live edge list.
func (e *Editor) Edges() []Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneEdges(e.edges)
}

// Snapshot returns a deep copy of the current graph.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{Nodes: e.nodes, Edges: e.edges}.Clone()
}

// Credentials returns a copy of the credential assignments.
func (e *Editor) Credentials() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]string, len(e.credentials))
	for k, v := range e.credentials {
		out[k] = v
	}
	return out
}

// Selected returns the currently selected node id.
func (e *Editor) Selected() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selected, e.selected != ""
}

// Templates lists the available templates.
func (e *Editor) Templates() []Template { return e.templates.List() }

// SubWorkflows lists the sub-workflows defined in this session.
func (e *Editor) SubWorkflows() []SubWorkflow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.subflows.List()
}

// Validate runs the publish rules against the live graph.
func (e *Editor) Validate() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ValidateForPublish(e.nodes, e.credentials)
}

// SearchResult is one row of the search view: the node plus the visual
// weight the rendering surface applies to it.
type SearchResult struct {
	Node   Node
	Match  bool
	Weight float64
}

// Search returns the node list annotated with match weights for the given
// term. An empty term matches everything. Search never mutates the graph or
// the history.
func (e *Editor) Search(term string) []SearchResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]SearchResult, 0, len(e.nodes))
	for _, n := range e.nodes {
		match := term == "" ||
			strings.Contains(strings.ToLower(n.Data.Label), term) ||
			strings.Contains(strings.ToLower(n.Data.Description), term) ||
			strings.Contains(strings.ToLower(string(n.Type)), term)
		weight := 0.25
		if match {
			weight = 1.0
		}
		out = append(out, SearchResult{Node: n.Clone(), Match: match, Weight: weight})
	}
	return out
}

// OnChange registers a callback invoked with fresh node/edge copies after
// every applied mutation.
func (e *Editor) OnChange(fn func(nodes []Node, edges []Edge)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = append(e.onChange, fn)
}

// --- mutations ---------------------------------------------------------

// AddNode appends a node of the given type with its default payload at the
// fixed initial position and selects it.
func (e *Editor) AddNode(t NodeType) Node {
	e.mu.Lock()
	node := Node{
		ID:       uuid.NewString(),
		Type:     t,
		Position: Position{X: 120, Y: 120},
		Data:     DefaultNodeData(t),
	}
	e.nodes = append(e.nodes, node)
	e.selected = node.ID
	e.commitLocked("add_node")
	e.mu.Unlock()

	e.emit()
	return node.Clone()
}

// DuplicateSelected clones the selected node with a fresh id and a small
// positional offset. It reports false when nothing is selected.
func (e *Editor) DuplicateSelected() (Node, bool) {
	e.mu.Lock()
	idx := e.indexOfLocked(e.selected)
	if idx < 0 {
		e.mu.Unlock()
		return Node{}, false
	}
	clone := e.nodes[idx].Clone()
	clone.ID = uuid.NewString()
	clone.Position.X += 40
	clone.Position.Y += 40
	e.nodes = append(e.nodes, clone)
	e.selected = clone.ID
	e.commitLocked("duplicate")
	e.mu.Unlock()

	e.emit()
	return clone.Clone(), true
}

// DeleteSelected removes the selected node and cascade-removes every edge
// referencing it as source or target, along with its credential assignment.
func (e *Editor) DeleteSelected() bool {
	e.mu.Lock()
	idx := e.indexOfLocked(e.selected)
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	e.removeNodeLocked(e.selected)
	e.selected = ""
	e.commitLocked("delete")
	e.mu.Unlock()

	e.emit()
	return true
}

// Connect appends a new edge between two existing nodes. It is a no-op,
// reporting false, when either endpoint is absent from the live node set.
func (e *Editor) Connect(source, target, sourceHandle, targetHandle string) (Edge, bool) {
	e.mu.Lock()
	if e.indexOfLocked(source) < 0 || e.indexOfLocked(target) < 0 {
		e.mu.Unlock()
		e.logger.Warn("connect rejected: unknown endpoint",
			zap.String("source", source),
			zap.String("target", target),
		)
		return Edge{}, false
	}
	edge := Edge{
		ID:           uuid.NewString(),
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	}
	e.edges = append(e.edges, edge)
	e.commitLocked("connect")
	e.mu.Unlock()

	e.emit()
	return edge.Clone(), true
}

// MoveNode updates a node's position.
func (e *Editor) MoveNode(id string, pos Position) bool {
	e.mu.Lock()
	idx := e.indexOfLocked(id)
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	e.nodes[idx].Position = pos
	e.commitLocked("move")
	e.mu.Unlock()

	e.emit()
	return true
}

// UpdateNodeData replaces a node's payload with the inspector edit.
func (e *Editor) UpdateNodeData(id string, data NodeData) bool {
	e.mu.Lock()
	idx := e.indexOfLocked(id)
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	e.nodes[idx].Data = data
	e.nodes[idx].Data.Config = cloneConfig(data.Config)
	e.commitLocked("update_data")
	e.mu.Unlock()

	e.emit()
	return true
}

// Select marks a node as the current selection. Selection is view state,
// not graph state: it never touches the history.
func (e *Editor) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOfLocked(id) < 0 {
		return false
	}
	e.selected = id
	return true
}

// ClearSelection drops the current selection.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = ""
}

// AssignCredential records the credential reference a node should use at
// run time. Assignments live outside the snapshot history.
func (e *Editor) AssignCredential(nodeID, ref string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOfLocked(nodeID) < 0 {
		return false
	}
	e.credentials[nodeID] = ref
	return true
}

// Clear resets the canvas to an empty graph. The reset is itself an undo
// step.
func (e *Editor) Clear() {
	e.mu.Lock()
	e.nodes = nil
	e.edges = nil
	e.selected = ""
	e.commitLocked("clear")
	e.mu.Unlock()

	e.emit()
}

// --- undo / redo -------------------------------------------------------

// Undo steps the canvas back one history entry.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	s, ok := e.history.Undo()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.applySnapshotLocked(s)
	e.metrics.RecordMutation("undo")
	e.metrics.SetGraphSize(len(e.nodes), len(e.edges), e.history.Len())
	e.mu.Unlock()

	e.emit()
	return true
}

// Redo steps the canvas forward one history entry.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	s, ok := e.history.Redo()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.applySnapshotLocked(s)
	e.metrics.RecordMutation("redo")
	e.metrics.SetGraphSize(len(e.nodes), len(e.edges), e.history.Len())
	e.mu.Unlock()

	e.emit()
	return true
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// --- composition -------------------------------------------------------

// ApplyTemplate replaces the live graph with a fresh instantiation of the
// template. A missing template id is a caller bug, not a runtime fault: the
// call is a logged no-op.
func (e *Editor) ApplyTemplate(id string) bool {
	tmpl, ok := e.templates.Get(id)
	if !ok {
		e.logger.Warn("template not found", zap.String("template_id", id))
		return false
	}
	inst := tmpl.Instantiate()

	e.mu.Lock()
	e.nodes = inst.Nodes
	e.edges = inst.Edges
	e.selected = ""
	e.commitLocked("apply_template")
	e.mu.Unlock()

	e.metrics.RecordComposition("template")
	e.emit()
	return true
}

// CreateSubWorkflow records a named sub-workflow. A selected node is
// required; the record then references every node id currently on the
// canvas, matching the shipped product behavior.
func (e *Editor) CreateSubWorkflow(name string) (SubWorkflow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == "" {
		return SubWorkflow{}, ErrNoSelection
	}
	ids := make([]string, 0, len(e.nodes))
	for _, n := range e.nodes {
		ids = append(ids, n.ID)
	}
	sw := e.subflows.Register(name, ids)
	e.logger.Info("sub-workflow created",
		zap.String("name", name),
		zap.Int("nodes", len(ids)),
	)
	return sw, nil
}

// ApplySubWorkflow clones the sub-workflow's surviving nodes back into the
// canvas with fresh ids and a visible +80,+80 offset. Stale ids are
// silently skipped; edges are not cloned. Reports false for an unknown id.
func (e *Editor) ApplySubWorkflow(id string) bool {
	e.mu.Lock()
	sw, ok := e.subflows.Get(id)
	if !ok {
		e.mu.Unlock()
		e.logger.Warn("sub-workflow not found", zap.String("subworkflow_id", id))
		return false
	}

	live := make(map[string]Node, len(e.nodes))
	for _, n := range e.nodes {
		live[n.ID] = n
	}
	cloned := 0
	for _, nodeID := range sw.NodeIDs {
		n, present := live[nodeID]
		if !present {
			continue
		}
		clone := n.Clone()
		clone.ID = uuid.NewString()
		clone.Position.X += 80
		clone.Position.Y += 80
		e.nodes = append(e.nodes, clone)
		cloned++
	}
	if cloned < len(sw.NodeIDs) {
		e.logger.Warn("sub-workflow references stale nodes",
			zap.String("name", sw.Name),
			zap.Int("stale", len(sw.NodeIDs)-cloned),
		)
	}
	e.commitLocked("apply_subworkflow")
	e.mu.Unlock()

	e.metrics.RecordComposition("subworkflow")
	e.emit()
	return true
}

// --- persistence -------------------------------------------------------

// Save persists the current envelope under the given label and records the
// save as an undo checkpoint. It returns the generated version label.
func (e *Editor) Save(ctx context.Context, label string) (string, error) {
	if e.snapshots == nil {
		return "", ErrNoStore
	}
	e.mu.RLock()
	env := e.envelopeLocked()
	e.mu.RUnlock()

	version, err := e.snapshots.Save(ctx, env, label)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	e.commitLocked("save")
	e.mu.Unlock()
	return version, nil
}

// Load replaces the live graph with the stored envelope. An absent stored
// canvas is a no-op. Load is a critical section against every other write:
// the write lock is held across the KV read, so mutations issued while a
// load is pending queue behind it instead of interleaving. A second Load
// while one is pending returns ErrLoadInFlight.
func (e *Editor) Load(ctx context.Context) error {
	if e.snapshots == nil {
		return ErrNoStore
	}
	if !e.loading.CompareAndSwap(false, true) {
		return ErrLoadInFlight
	}
	defer e.loading.Store(false)

	e.mu.Lock()
	env, ok, err := e.snapshots.Load(ctx)
	if err != nil || !ok {
		e.mu.Unlock()
		return err
	}
	e.applyEnvelopeLocked(env, "load")
	e.mu.Unlock()

	e.emit()
	return nil
}

// LoadVersion replaces the live graph with a previously saved version. Like
// Load, the write lock is held across the KV read.
func (e *Editor) LoadVersion(ctx context.Context, version string) error {
	if e.snapshots == nil {
		return ErrNoStore
	}
	e.mu.Lock()
	env, err := e.snapshots.LoadVersion(ctx, version)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.applyEnvelopeLocked(env, "load_version")
	e.mu.Unlock()

	e.emit()
	return nil
}

// Versions lists the saved version labels in save order.
func (e *Editor) Versions(ctx context.Context) ([]string, error) {
	if e.snapshots == nil {
		return nil, ErrNoStore
	}
	return e.snapshots.Versions(ctx)
}

// CompareVersions diffs two saved versions.
func (e *Editor) CompareVersions(ctx context.Context, versionA, versionB string) (VersionDiff, error) {
	if e.snapshots == nil {
		return VersionDiff{}, ErrNoStore
	}
	return e.snapshots.CompareVersions(ctx, versionA, versionB)
}

// Export serializes the live graph and its credential assignments to a
// self-contained JSON envelope. The output embeds credential references;
// redact before posting anywhere public.
func (e *Editor) Export() (string, error) {
	e.mu.RLock()
	env := e.envelopeLocked()
	e.mu.RUnlock()
	return MarshalEnvelope(env)
}

// ExportYAML is Export with a YAML envelope.
func (e *Editor) ExportYAML() (string, error) {
	e.mu.RLock()
	env := e.envelopeLocked()
	e.mu.RUnlock()
	return MarshalEnvelopeYAML(env)
}

// Import replaces nodes, edges, and credentials wholesale from a JSON
// envelope. On ErrParse the editor state is left untouched.
func (e *Editor) Import(payload string) error {
	env, err := ParseEnvelope(payload)
	if err != nil {
		return err
	}
	e.applyEnvelope(env, "import")
	return nil
}

// Share returns the envelope as URL-safe base64 for transport in a link.
// Encoding, not encryption: never share canvases whose credential
// references must stay private.
func (e *Editor) Share() (string, error) {
	e.mu.RLock()
	env := e.envelopeLocked()
	e.mu.RUnlock()
	return EncodeShare(env)
}

// ImportShared reverses Share.
func (e *Editor) ImportShared(encoded string) error {
	env, err := DecodeShare(encoded)
	if err != nil {
		return err
	}
	e.applyEnvelope(env, "import")
	return nil
}

// --- internals ---------------------------------------------------------

// indexOfLocked returns the index of a node id, -1 when absent.
func (e *Editor) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, n := range e.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// removeNodeLocked deletes a node, its incident edges, and its credential
// assignment.
func (e *Editor) removeNodeLocked(id string) {
	nodes := e.nodes[:0:0]
	for _, n := range e.nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	e.nodes = nodes

	edges := e.edges[:0:0]
	for _, edge := range e.edges {
		if edge.Source != id && edge.Target != id {
			edges = append(edges, edge)
		}
	}
	e.edges = edges
	delete(e.credentials, id)
}

// commitLocked pushes the resulting full snapshot and updates gauges.
// Must be called with the write lock held, after the mutation.
func (e *Editor) commitLocked(op string) {
	e.history.Push(Snapshot{Nodes: e.nodes, Edges: e.edges})
	e.metrics.RecordMutation(op)
	e.metrics.SetGraphSize(len(e.nodes), len(e.edges), e.history.Len())
	e.maybeAutosaveLocked()
}

// applySnapshotLocked replaces the live graph from a history entry and
// drops a selection whose node no longer exists.
func (e *Editor) applySnapshotLocked(s Snapshot) {
	e.nodes = s.Nodes
	e.edges = s.Edges
	if e.indexOfLocked(e.selected) < 0 {
		e.selected = ""
	}
}

// applyEnvelope installs a loaded/imported envelope wholesale and records
// it as an undo step.
func (e *Editor) applyEnvelope(env Envelope, op string) {
	e.mu.Lock()
	e.applyEnvelopeLocked(env, op)
	e.mu.Unlock()

	e.emit()
}

// applyEnvelopeLocked is applyEnvelope with the write lock already held.
func (e *Editor) applyEnvelopeLocked(env Envelope, op string) {
	e.nodes = cloneNodes(env.Nodes)
	e.edges = cloneEdges(env.Edges)
	e.credentials = make(map[string]string, len(env.Credentials))
	for k, v := range env.Credentials {
		e.credentials[k] = v
	}
	e.selected = ""
	e.commitLocked(op)
}

// envelopeLocked builds the export payload. Caller holds at least the read
// lock.
func (e *Editor) envelopeLocked() Envelope {
	env := Envelope{
		Nodes:       cloneNodes(e.nodes),
		Edges:       cloneEdges(e.edges),
		Credentials: make(map[string]string, len(e.credentials)),
	}
	for k, v := range e.credentials {
		env.Credentials[k] = v
	}
	return env
}

// maybeAutosaveLocked fires a background save when autosave is enabled and
// the rate limiter has a token. Failures are logged, never surfaced: losing
// an autosave must not interrupt editing.
func (e *Editor) maybeAutosaveLocked() {
	if e.autosave == nil || e.snapshots == nil || !e.autosave.Allow() {
		return
	}
	env := e.envelopeLocked()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := e.snapshots.Save(ctx, env, "autosave"); err != nil {
			e.logger.Warn("autosave failed", zap.Error(err))
		}
	}()
}

// emit invokes the change callbacks with fresh copies, outside the lock.
func (e *Editor) emit() {
	e.mu.RLock()
	callbacks := e.onChange
	nodes := cloneNodes(e.nodes)
	edges := cloneEdges(e.edges)
	e.mu.RUnlock()
	for _, fn := range callbacks {
		fn(nodes, edges)
	}
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}

// String implements fmt.Stringer for debug logging.
func (e *Editor) String() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fmt.Sprintf("Editor(nodes=%d edges=%d history=%d)", len(e.nodes), len(e.edges), e.history.Len())
}
