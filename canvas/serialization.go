package canvas

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Envelope is the self-contained export/import payload: the graph plus its
// credential assignments, so an exported file can be re-imported elsewhere
// without losing wiring.
//
// Security note: credential references are embedded verbatim. The envelope
// is not safe to post in public channels as-is; redaction is the caller's
// responsibility.
type Envelope struct {
	Nodes       []Node            `json:"nodes" yaml:"nodes"`
	Edges       []Edge            `json:"edges" yaml:"edges"`
	Credentials map[string]string `json:"credentials" yaml:"credentials"`
}

// MarshalEnvelope serializes the envelope to indented JSON.
func MarshalEnvelope(env Envelope) (string, error) {
	if env.Credentials == nil {
		env.Credentials = map[string]string{}
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return string(data), nil
}

// ParseEnvelope deserializes a JSON envelope. Malformed JSON or a payload
// missing its nodes or edges arrays yields ErrParse.
func ParseEnvelope(payload string) (Envelope, error) {
	var raw struct {
		Nodes       *[]Node           `json:"nodes"`
		Edges       *[]Edge           `json:"edges"`
		Credentials map[string]string `json:"credentials"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Nodes == nil || raw.Edges == nil {
		return Envelope{}, fmt.Errorf("%w: payload missing nodes or edges", ErrParse)
	}
	env := Envelope{Nodes: *raw.Nodes, Edges: *raw.Edges, Credentials: raw.Credentials}
	if env.Credentials == nil {
		env.Credentials = map[string]string{}
	}
	return env, nil
}

// MarshalEnvelopeYAML serializes the envelope to YAML.
func MarshalEnvelopeYAML(env Envelope) (string, error) {
	if env.Credentials == nil {
		env.Credentials = map[string]string{}
	}
	data, err := yaml.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return string(data), nil
}

// ParseEnvelopeYAML deserializes a YAML envelope with the same missing-field
// rules as ParseEnvelope.
func ParseEnvelopeYAML(payload string) (Envelope, error) {
	var raw struct {
		Nodes       *[]Node           `yaml:"nodes"`
		Edges       *[]Edge           `yaml:"edges"`
		Credentials map[string]string `yaml:"credentials"`
	}
	if err := yaml.Unmarshal([]byte(payload), &raw); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Nodes == nil || raw.Edges == nil {
		return Envelope{}, fmt.Errorf("%w: payload missing nodes or edges", ErrParse)
	}
	env := Envelope{Nodes: *raw.Nodes, Edges: *raw.Edges, Credentials: raw.Credentials}
	if env.Credentials == nil {
		env.Credentials = map[string]string{}
	}
	return env, nil
}

// EncodeShare wraps the JSON envelope in URL-safe base64 for transport in a
// link. This is encoding, not encryption.
func EncodeShare(env Envelope) (string, error) {
	payload, err := MarshalEnvelope(env)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString([]byte(payload)), nil
}

// DecodeShare reverses EncodeShare. A corrupted encoding yields ErrParse.
func DecodeShare(encoded string) (Envelope, error) {
	payload, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ParseEnvelope(string(payload))
}
