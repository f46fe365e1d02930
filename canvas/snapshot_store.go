package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BaSui01/flowcanvas/internal/metrics"
	"github.com/BaSui01/flowcanvas/store"
)

// Persistence keys. The current canvas lives under one fixed key; every
// save additionally writes an immutable copy under its version label so
// versions can be compared later.
const (
	keyCurrent       = "canvas:current"
	keyVersions      = "canvas:versions"
	keyVersionPrefix = "canvas:version:"
)

// SnapshotStore persists canvas envelopes through a KV collaborator.
type SnapshotStore struct {
	kv      store.KV
	logger  *zap.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
	group   singleflight.Group
	now     func() time.Time
}

// NewSnapshotStore wraps a KV collaborator. logger and collector may be nil.
func NewSnapshotStore(kv store.KV, logger *zap.Logger, collector *metrics.Collector) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{
		kv:      kv,
		logger:  logger.With(zap.String("component", "snapshot_store")),
		metrics: collector,
		tracer:  otel.Tracer("flowcanvas/snapshot_store"),
		now:     time.Now,
	}
}

// Save writes env under the fixed current key, stores an immutable copy
// under the generated "<label>-<RFC3339>" version label, and appends that
// label to the version list. It returns the version label.
func (s *SnapshotStore) Save(ctx context.Context, env Envelope, label string) (version string, err error) {
	ctx, span := s.tracer.Start(ctx, "SnapshotStore.Save")
	defer span.End()
	start := s.now()
	defer func() { s.metrics.ObserveStoreOp("save", s.now().Sub(start), err) }()

	payload, err := MarshalEnvelope(env)
	if err != nil {
		return "", err
	}
	if err = s.kv.Set(ctx, keyCurrent, payload); err != nil {
		return "", fmt.Errorf("failed to persist canvas: %w", err)
	}

	version = fmt.Sprintf("%s-%s", label, start.UTC().Format(time.RFC3339))
	span.SetAttributes(attribute.String("canvas.version", version))
	if err = s.kv.Set(ctx, keyVersionPrefix+version, payload); err != nil {
		return "", fmt.Errorf("failed to persist version %s: %w", version, err)
	}
	if err = s.appendVersion(ctx, version); err != nil {
		return "", err
	}

	s.logger.Info("canvas saved",
		zap.String("version", version),
		zap.Int("nodes", len(env.Nodes)),
		zap.Int("edges", len(env.Edges)),
	)
	return version, nil
}

func (s *SnapshotStore) appendVersion(ctx context.Context, version string) error {
	versions, err := s.Versions(ctx)
	if err != nil {
		return err
	}
	versions = append(versions, version)
	data, err := json.Marshal(versions)
	if err != nil {
		return fmt.Errorf("failed to marshal version list: %w", err)
	}
	return s.kv.Set(ctx, keyVersions, string(data))
}

// Load reads the envelope stored under the fixed current key. An absent key
// is not an error: ok is false and the caller leaves the live graph alone.
// Concurrent loads collapse into a single KV read.
func (s *SnapshotStore) Load(ctx context.Context) (env Envelope, ok bool, err error) {
	ctx, span := s.tracer.Start(ctx, "SnapshotStore.Load")
	defer span.End()
	start := s.now()
	defer func() { s.metrics.ObserveStoreOp("load", s.now().Sub(start), err) }()

	v, err, _ := s.group.Do(keyCurrent, func() (any, error) {
		return s.kv.Get(ctx, keyCurrent)
	})
	if errors.Is(err, store.ErrNotFound) {
		return Envelope{}, false, nil
	}
	if err != nil {
		return Envelope{}, false, fmt.Errorf("failed to load canvas: %w", err)
	}
	env, err = ParseEnvelope(v.(string))
	if err != nil {
		return Envelope{}, false, err
	}
	return env, true, nil
}

// LoadVersion reads the immutable envelope saved under a version label.
func (s *SnapshotStore) LoadVersion(ctx context.Context, version string) (env Envelope, err error) {
	ctx, span := s.tracer.Start(ctx, "SnapshotStore.LoadVersion")
	defer span.End()
	start := s.now()
	defer func() { s.metrics.ObserveStoreOp("load_version", s.now().Sub(start), err) }()

	payload, err := s.kv.Get(ctx, keyVersionPrefix+version)
	if err != nil {
		return Envelope{}, fmt.Errorf("version %s: %w", version, err)
	}
	return ParseEnvelope(payload)
}

// Versions returns the ordered list of saved version labels.
func (s *SnapshotStore) Versions(ctx context.Context) ([]string, error) {
	payload, err := s.kv.Get(ctx, keyVersions)
	if errors.Is(err, store.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load version list: %w", err)
	}
	var versions []string
	if err := json.Unmarshal([]byte(payload), &versions); err != nil {
		return nil, fmt.Errorf("%w: corrupt version list: %v", ErrParse, err)
	}
	return versions, nil
}

// CompareVersions loads two saved versions and returns their diff in
// display form.
func (s *SnapshotStore) CompareVersions(ctx context.Context, versionA, versionB string) (VersionDiff, error) {
	a, err := s.LoadVersion(ctx, versionA)
	if err != nil {
		return VersionDiff{}, err
	}
	b, err := s.LoadVersion(ctx, versionB)
	if err != nil {
		return VersionDiff{}, err
	}
	return NewVersionDiff(
		versionA, versionB,
		Snapshot{Nodes: a.Nodes, Edges: a.Edges},
		Snapshot{Nodes: b.Nodes, Edges: b.Edges},
	), nil
}
