package providers

import (
	"encoding/json"
	"testing"

	"github.com/basepilot/basepilot/internal/engine"
)

func TestEncodeWireCalls(t *testing.T) {
	payload, err := encodeWireCalls([]wireCall{
		{ID: "call_1", Tool: "get_balance", Input: json.RawMessage(`{"address":"0xabc"}`)},
		{Tool: "wallet_details", Input: json.RawMessage(`{}`)},
	})
	if err != nil {
		t.Fatalf("encodeWireCalls() error: %v", err)
	}

	var decoded []struct {
		ID    string          `json:"id"`
		Tool  string          `json:"tool"`
		Input json.RawMessage `json:"input"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d calls, want 2", len(decoded))
	}
	if decoded[0].Tool != "get_balance" || decoded[0].ID != "call_1" {
		t.Errorf("first call = %+v", decoded[0])
	}
	if decoded[1].ID != "" {
		t.Errorf("second call should omit id, got %q", decoded[1].ID)
	}
}

func TestEncodeArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		raw  string
		want string
	}{
		{name: "structured args win", args: map[string]any{"amount": 5.0}, raw: "ignored", want: `{"amount":5}`},
		{name: "raw fallback is quoted", args: nil, raw: "do something", want: `"do something"`},
		{name: "empty raw becomes empty string", args: nil, raw: "", want: `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(encodeArgs(tt.args, tt.raw))
			if got != tt.want {
				t.Errorf("encodeArgs() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderToolMessage(t *testing.T) {
	msg := engine.ToolResult("get_balance", "1.5 ETH")
	if got := renderToolMessage(msg); got != "[get_balance] 1.5 ETH" {
		t.Errorf("renderToolMessage() = %q", got)
	}

	empty := engine.ToolResult("transfer", "")
	if got := renderToolMessage(empty); got != "[transfer] {}" {
		t.Errorf("renderToolMessage() with empty content = %q", got)
	}
}

func TestOpenAIConvertHistory(t *testing.T) {
	c := &OpenAIClient{system: "be helpful"}
	history := []engine.Message{
		engine.UserText("hi"),
		engine.AgentText(""),
		engine.ToolResult("get_balance", "1.5 ETH"),
	}

	msgs := c.convertHistory(history)
	if len(msgs) != 4 {
		t.Fatalf("converted %d messages, want 4", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "be helpful" {
		t.Errorf("system message = %+v", msgs[0])
	}
	if msgs[2].Content != " " {
		t.Errorf("empty assistant content should be padded, got %q", msgs[2].Content)
	}
	if msgs[3].Role != "user" || msgs[3].Content != "[get_balance] 1.5 ETH" {
		t.Errorf("tool message = %+v", msgs[3])
	}
}

func TestConvertSchemasRejectsBadJSON(t *testing.T) {
	c := &OpenAIClient{schemas: []ToolSchema{{Name: "broken", JSONSchema: "{not json"}}}
	if _, err := c.convertSchemas(); err == nil {
		t.Error("expected error for invalid schema JSON")
	}
}

func TestNewReasonerFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")
	if _, _, err := NewReasonerFromEnv(Options{}); err == nil {
		t.Error("expected error when OPENAI_API_KEY is unset")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	client, model, err := NewReasonerFromEnv(Options{})
	if err != nil {
		t.Fatalf("NewReasonerFromEnv() error: %v", err)
	}
	if client == nil || model != "gpt-4o-mini" {
		t.Errorf("client=%v model=%q", client, model)
	}

	t.Setenv("LLM_PROVIDER", "martian")
	if _, _, err := NewReasonerFromEnv(Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
