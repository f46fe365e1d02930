package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEnvelope() Envelope {
	return Envelope{
		Nodes: []Node{
			{ID: "a", Type: NodeTrigger, Position: Position{X: 1, Y: 2}, Data: NodeData{Label: "A", Config: map[string]any{"event": "manual"}}},
			{ID: "b", Type: NodeAgent, Data: NodeData{Label: "B", RequiresCredential: true}},
		},
		Edges:       []Edge{{ID: "e", Source: "a", Target: "b", Label: "then"}},
		Credentials: map[string]string{"b": "openai-prod"},
	}
}

func TestEnvelope_JSONRoundTrip(t *testing.T) {
	env := sampleEnvelope()
	payload, err := MarshalEnvelope(env)
	require.NoError(t, err)

	got, err := ParseEnvelope(payload)
	require.NoError(t, err)
	assert.True(t, EqualSnapshots(
		Snapshot{Nodes: env.Nodes, Edges: env.Edges},
		Snapshot{Nodes: got.Nodes, Edges: got.Edges},
	))
	assert.Equal(t, env.Credentials, got.Credentials)
}

func TestEnvelope_YAMLRoundTrip(t *testing.T) {
	env := sampleEnvelope()
	payload, err := MarshalEnvelopeYAML(env)
	require.NoError(t, err)

	got, err := ParseEnvelopeYAML(payload)
	require.NoError(t, err)
	assert.Equal(t, env.Credentials, got.Credentials)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "A", got.Nodes[0].Data.Label)
}

func TestParseEnvelope_MalformedJSON(t *testing.T) {
	_, err := ParseEnvelope("{not json")
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseEnvelope_MissingArrays(t *testing.T) {
	_, err := ParseEnvelope(`{"nodes": []}`)
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseEnvelope(`{"edges": []}`)
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseEnvelope(`{"something": "else"}`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseEnvelope_EmptyArraysValid(t *testing.T) {
	env, err := ParseEnvelope(`{"nodes": [], "edges": []}`)
	require.NoError(t, err)
	assert.Empty(t, env.Nodes)
	assert.Empty(t, env.Edges)
	assert.NotNil(t, env.Credentials)
}

func TestShare_RoundTrip(t *testing.T) {
	env := sampleEnvelope()
	encoded, err := EncodeShare(env)
	require.NoError(t, err)

	got, err := DecodeShare(encoded)
	require.NoError(t, err)
	assert.Equal(t, env.Credentials, got.Credentials)
	require.Len(t, got.Nodes, 2)
}

func TestDecodeShare_Corrupt(t *testing.T) {
	_, err := DecodeShare("!!not-base64!!")
	assert.ErrorIs(t, err, ErrParse)
}
