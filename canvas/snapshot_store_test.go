package canvas

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowcanvas/store"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s := NewSnapshotStore(store.NewMemoryKV(), nil, nil)
	// Deterministic timestamps keep version labels stable across the test.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s
}

func TestSnapshotStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	env := sampleEnvelope()

	version, err := s.Save(ctx, env, "draft")
	require.NoError(t, err)
	assert.Contains(t, version, "draft-")

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, env.Credentials, got.Credentials)
	assert.True(t, EqualSnapshots(
		Snapshot{Nodes: env.Nodes, Edges: env.Edges},
		Snapshot{Nodes: got.Nodes, Edges: got.Edges},
	))
}

func TestSnapshotStore_LoadAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotStore_VersionLabels(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v1, err := s.Save(ctx, Envelope{Nodes: []Node{}, Edges: []Edge{}}, "first")
	require.NoError(t, err)
	v2, err := s.Save(ctx, sampleEnvelope(), "second")
	require.NoError(t, err)

	versions, err := s.Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{v1, v2}, versions)
}

func TestSnapshotStore_LoadVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v1, err := s.Save(ctx, Envelope{Nodes: []Node{{ID: "only", Data: NodeData{Label: "Only"}}}, Edges: []Edge{}}, "v")
	require.NoError(t, err)
	_, err = s.Save(ctx, sampleEnvelope(), "w")
	require.NoError(t, err)

	env, err := s.LoadVersion(ctx, v1)
	require.NoError(t, err)
	require.Len(t, env.Nodes, 1)
	assert.Equal(t, "only", env.Nodes[0].ID)

	_, err = s.LoadVersion(ctx, "missing-2026")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshotStore_CompareVersions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v1, err := s.Save(ctx, Envelope{
		Nodes: []Node{{ID: "a", Data: NodeData{Label: "Old"}}},
		Edges: []Edge{},
	}, "before")
	require.NoError(t, err)

	v2, err := s.Save(ctx, Envelope{
		Nodes: []Node{
			{ID: "a", Data: NodeData{Label: "Old"}},
			{ID: "b", Data: NodeData{Label: "New"}},
		},
		Edges: []Edge{},
	}, "after")
	require.NoError(t, err)

	vd, err := s.CompareVersions(ctx, v1, v2)
	require.NoError(t, err)
	assert.Equal(t, []string{"New"}, vd.AddedNodes)
	assert.Empty(t, vd.RemovedNodes)
	assert.Equal(t, 1, vd.Detail.Summary().Added)
}

// countingKV counts Get calls and holds them until released.
type countingKV struct {
	store.KV
	gets    atomic.Int64
	entered chan struct{}
	release chan struct{}
}

func (c *countingKV) Get(ctx context.Context, key string) (string, error) {
	c.gets.Add(1)
	c.entered <- struct{}{}
	<-c.release
	return c.KV.Get(ctx, key)
}

func TestSnapshotStore_ConcurrentLoadsShareOneRead(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryKV()
	seed := NewSnapshotStore(mem, nil, nil)
	_, err := seed.Save(ctx, sampleEnvelope(), "seed")
	require.NoError(t, err)

	kv := &countingKV{KV: mem, entered: make(chan struct{}, 4), release: make(chan struct{})}
	s := NewSnapshotStore(kv, nil, nil)

	results := make(chan error, 2)
	go func() {
		_, _, err := s.Load(ctx)
		results <- err
	}()
	<-kv.entered

	go func() {
		_, _, err := s.Load(ctx)
		results <- err
	}()
	// Give the second call time to join the in-flight read.
	time.Sleep(100 * time.Millisecond)

	close(kv.release)
	require.NoError(t, <-results)
	require.NoError(t, <-results)
	assert.Equal(t, int64(1), kv.gets.Load())
}

func TestSnapshotStore_EmptyVersionListOnFreshStore(t *testing.T) {
	s := newTestStore(t)
	versions, err := s.Versions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, versions)
}
