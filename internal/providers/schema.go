package providers

import (
	"encoding/json"
	"time"
)

// ToolSchema describes one tool the reasoning service may propose.
// JSONSchema is the raw JSON Schema for the tool's input.
type ToolSchema struct {
	Name        string
	Description string
	JSONSchema  string
}

// Options carries the reasoning-service settings shared by all providers.
type Options struct {
	System  string        // System prompt prepended to every request
	Schemas []ToolSchema  // Tools exposed to the model
	Timeout time.Duration // Per-request deadline; zero means DefaultTimeout
}

// DefaultTimeout bounds a single reasoning request.
const DefaultTimeout = 15 * time.Second

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// wireCall is the serialized form of one proposed tool call. The loop parses
// this exact shape back out of the stream payload.
type wireCall struct {
	ID    string          `json:"id,omitempty"`
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

// encodeWireCalls serializes proposed calls into the stream payload format.
func encodeWireCalls(calls []wireCall) (string, error) {
	data, err := json.Marshal(calls)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// encodeArgs renders decoded tool arguments back to raw JSON. An argument
// string that never parsed as JSON is carried as a JSON string so the other
// side still receives valid input.
func encodeArgs(args map[string]any, raw string) json.RawMessage {
	if args != nil {
		if data, err := json.Marshal(args); err == nil {
			return data
		}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
