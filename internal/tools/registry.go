package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/basepilot/basepilot/internal/engine"
	"github.com/basepilot/basepilot/internal/providers"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc performs one tool invocation with already-validated arguments.
type ToolFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool is one registered capability the agent can execute.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Fn          ToolFunc
	Mutating    bool // True when the tool moves funds or changes chain state
}

// ValidateArgs validates the provided arguments against the tool's JSON schema.
func (t Tool) ValidateArgs(args map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, err := range result.Errors() {
			errorMsgs = append(errorMsgs, err.String())
		}
		return &ValidationError{
			ToolName: t.Name,
			Errors:   errorMsgs,
		}
	}

	return nil
}

// ValidationError reports the schema violations for one tool invocation.
type ValidationError struct {
	ToolName string
	Errors   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.ToolName, strings.Join(e.Errors, "; "))
}

// Registry holds the tools exposed to the agent. It implements
// engine.ToolRunner so the loop can dispatch calls directly.
type Registry map[string]Tool

// Register adds a tool, replacing any previous tool with the same name.
func (r Registry) Register(t Tool) {
	r[t.Name] = t
}

// Schemas exports the registered tools in the shape the providers send to
// the model, sorted by name for stable request payloads.
func (r Registry) Schemas() []providers.ToolSchema {
	s := make([]providers.ToolSchema, 0, len(r))
	for _, t := range r {
		s = append(s, providers.ToolSchema{
			Name:        t.Name,
			Description: t.Description,
			JSONSchema:  t.SchemaJSON,
		})
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
	return s
}

// Run implements engine.ToolRunner. A raw (unstructured) input is wrapped as
// a request field so catch-all tools still receive valid arguments.
func (r Registry) Run(ctx context.Context, call engine.ToolCall) (string, error) {
	tool, ok := r[call.Tool]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", call.Tool)
	}

	args, structured := call.Input.Structured()
	if !structured {
		args = map[string]any{"request": call.Input.String()}
	}
	if args == nil {
		args = map[string]any{}
	}

	if err := tool.ValidateArgs(args); err != nil {
		return "", err
	}
	return tool.Fn(ctx, args)
}
