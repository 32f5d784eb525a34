package engine

import (
	"context"
	"encoding/json"
	"fmt"
)

// MessageRole represents the role of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is the provider-agnostic conversation entry we pass around.
// Messages are immutable once appended to a State's history.
type Message struct {
	Role    MessageRole // Role of the message sender
	Content string      // Message content (text or serialized tool payload)
	Tool    string      // Tool name for tool messages, empty otherwise
}

// Validate checks if the Message is valid.
func (m Message) Validate() error {
	switch m.Role {
	case RoleUser, RoleAssistant, RoleTool:
		// Valid roles
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
	if m.Role == RoleTool && m.Tool == "" {
		return fmt.Errorf("tool messages must have a Tool field")
	}
	return nil
}

// UserText builds a user message.
func UserText(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AgentText builds an assistant message.
func AgentText(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolResult builds a tool message carrying a tool's payload.
func ToolResult(tool, payload string) Message {
	return Message{Role: RoleTool, Tool: tool, Content: payload}
}

// ToolInput is a tool call's payload. The reasoning service sometimes emits a
// structured record and sometimes a string that needs secondary parsing; the
// variant is resolved exactly once, at the stream boundary, so downstream
// policy and execution code never re-parse.
type ToolInput struct {
	raw        string
	fields     map[string]any
	structured bool
}

// RawInput wraps an unparsed string payload.
func RawInput(s string) ToolInput {
	return ToolInput{raw: s}
}

// StructuredInput wraps an already-decoded record.
func StructuredInput(fields map[string]any) ToolInput {
	return ToolInput{fields: fields, structured: true}
}

// ResolveInput decodes a raw JSON payload into the structured variant when it
// parses as an object, falling back to the raw variant otherwise.
func ResolveInput(data json.RawMessage) ToolInput {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err == nil {
		return StructuredInput(fields)
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return RawInput(s)
	}
	return RawInput(string(data))
}

// Structured returns the decoded record and whether the input is structured.
func (in ToolInput) Structured() (map[string]any, bool) {
	return in.fields, in.structured
}

// String returns a serialized form of the input for display and logging.
func (in ToolInput) String() string {
	if !in.structured {
		return in.raw
	}
	data, err := json.Marshal(in.fields)
	if err != nil {
		return fmt.Sprintf("%v", in.fields)
	}
	return string(data)
}

// ToolCall represents a tool invocation proposed by the reasoning service.
// It lives only within one loop turn.
type ToolCall struct {
	ID    string // Assigned when the call is parsed from the stream
	Tool  string
	Input ToolInput
}

// EventKind classifies a reasoning stream event.
type EventKind string

const (
	EventText       EventKind = "text"        // Conversational fragment
	EventToolResult EventKind = "tool_result" // Tool-invocation payload
)

// StreamEvent is one incremental output event from the reasoning service.
// For EventToolResult the content is the serialized list of proposed calls.
type StreamEvent struct {
	Kind    EventKind
	Content string
}

// Reasoner abstracts the language-model reasoning service. Given the full
// conversation history it emits events in order; each call corresponds to
// exactly one reasoner step. A send on the error channel terminates the turn.
type Reasoner interface {
	Stream(ctx context.Context, history []Message) (<-chan StreamEvent, <-chan error)
}

// ToolRunner abstracts the tool-execution service. Run performs the
// side-effecting action for a single call and returns its payload; execution
// failures inside a tool surface as an error here and are folded into the
// conversation, never raised out of the loop.
type ToolRunner interface {
	Run(ctx context.Context, call ToolCall) (string, error)
}

// Prompter is the synchronous human-input channel used by the approval step.
// Prompt blocks until the human answers with a single line, and may fail if
// the underlying channel is closed.
type Prompter interface {
	Prompt(ctx context.Context, text string) (string, error)
}

// TurnRecorder persists completed turns for the shells to list later.
// Recording is best-effort observability; failures do not affect the turn.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, turn Turn) error
}

// Turn summarizes one completed Process call.
type Turn struct {
	ID         string
	Input      string
	Response   string
	Iterations int
	Approval   string // "", "approved", "rejected", "cancelled"
}
