package canvas_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/flowcanvas/canvas"
	"github.com/BaSui01/flowcanvas/store"
	"github.com/BaSui01/flowcanvas/testutil/fixtures"
)

func TestEditor_PipelineFixtureRoundTrip(t *testing.T) {
	e := canvas.NewEditor(canvas.WithInitialSnapshot(fixtures.PipelineSnapshot()))
	require.Len(t, e.Nodes(), 3)
	require.Len(t, e.Edges(), 2)

	payload, err := e.Export()
	require.NoError(t, err)

	other := canvas.NewEditor()
	require.NoError(t, other.Import(payload))
	assert.True(t, canvas.EqualSnapshots(e.Snapshot(), other.Snapshot()))
}

func TestEditor_RedisBackedPersistence(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := store.NewRedisKVFromClient(client, "")
	t.Cleanup(func() { _ = kv.Close() })

	ctx := context.Background()
	e := canvas.NewEditor(
		canvas.WithInitialSnapshot(fixtures.PipelineSnapshot()),
		canvas.WithStore(kv),
	)
	_, err := e.Save(ctx, "pipeline")
	require.NoError(t, err)

	restored := canvas.NewEditor(canvas.WithStore(kv))
	require.NoError(t, restored.Load(ctx))
	assert.True(t, canvas.EqualSnapshots(e.Snapshot(), restored.Snapshot()))

	versions, err := restored.Versions(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Contains(t, versions[0], "pipeline-")
}

func TestEditor_VersionCompareAcrossEdits(t *testing.T) {
	ctx := context.Background()
	e := canvas.NewEditor(
		canvas.WithInitialSnapshot(fixtures.LinearSnapshot(2)),
		canvas.WithStore(store.NewMemoryKV()),
	)

	v1, err := e.Save(ctx, "base")
	require.NoError(t, err)

	added := e.AddNode(canvas.NodeCondition)
	v2, err := e.Save(ctx, "with-branch")
	require.NoError(t, err)

	diff, err := e.CompareVersions(ctx, v1, v2)
	require.NoError(t, err)
	require.Len(t, diff.AddedNodes, 1)
	assert.Equal(t, added.Data.Label, diff.AddedNodes[0])
	assert.Empty(t, diff.RemovedNodes)
}
