package flowcanvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flowcanvas "github.com/BaSui01/flowcanvas"
	"github.com/BaSui01/flowcanvas/canvas"
)

func TestNew(t *testing.T) {
	ed := flowcanvas.New()
	require.NotNil(t, ed)
	assert.Empty(t, ed.Nodes())

	ed.AddNode(canvas.NodeTrigger)
	assert.Len(t, ed.Nodes(), 1)
}

func TestNew_WithOptions(t *testing.T) {
	ed := flowcanvas.New(
		flowcanvas.WithHistoryLimit(10),
		flowcanvas.WithInitialSnapshot(canvas.Snapshot{
			Nodes: []canvas.Node{{ID: "a", Type: canvas.NodeAction, Data: canvas.NodeData{Label: "A"}}},
		}),
	)
	require.Len(t, ed.Nodes(), 1)
	assert.Equal(t, "A", ed.Nodes()[0].Data.Label)
}
