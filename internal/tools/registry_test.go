package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/basepilot/basepilot/internal/engine"
)

const echoSchema = `{
	"type": "object",
	"properties": {
		"text": {"type": "string"}
	},
	"required": ["text"],
	"additionalProperties": false
}`

func newEchoRegistry() Registry {
	r := Registry{}
	r.Register(Tool{
		Name:        "echo",
		Description: "Echoes its input back",
		SchemaJSON:  echoSchema,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			return args["text"].(string), nil
		},
	})
	return r
}

func TestRegistryRun(t *testing.T) {
	r := newEchoRegistry()

	call := engine.ToolCall{
		Tool:  "echo",
		Input: engine.StructuredInput(map[string]any{"text": "hello"}),
	}
	out, err := r.Run(context.Background(), call)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "hello" {
		t.Errorf("Run() = %q, want hello", out)
	}
}

func TestRegistryRunUnknownTool(t *testing.T) {
	r := newEchoRegistry()

	call := engine.ToolCall{Tool: "missing", Input: engine.StructuredInput(nil)}
	if _, err := r.Run(context.Background(), call); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestRegistryRunValidatesArgs(t *testing.T) {
	r := newEchoRegistry()

	call := engine.ToolCall{
		Tool:  "echo",
		Input: engine.StructuredInput(map[string]any{"text": 42}),
	}
	_, err := r.Run(context.Background(), call)
	if err == nil {
		t.Fatal("expected validation error for wrong argument type")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.ToolName != "echo" {
		t.Errorf("error = %v, want ValidationError for echo", err)
	}
}

func TestRegistryRunWrapsRawInput(t *testing.T) {
	r := Registry{}
	r.Register(Tool{
		Name:        "catch_all",
		Description: "Accepts free-form requests",
		SchemaJSON: `{
			"type": "object",
			"properties": {"request": {"type": "string"}},
			"required": ["request"]
		}`,
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			return "handled: " + args["request"].(string), nil
		},
	})

	call := engine.ToolCall{Tool: "catch_all", Input: engine.RawInput("do the thing")}
	out, err := r.Run(context.Background(), call)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "handled: do the thing" {
		t.Errorf("Run() = %q", out)
	}
}

func TestRegistrySchemasSorted(t *testing.T) {
	r := Registry{}
	r.Register(Tool{Name: "zeta", SchemaJSON: "{}"})
	r.Register(Tool{Name: "alpha", SchemaJSON: "{}"})

	schemas := r.Schemas()
	if len(schemas) != 2 {
		t.Fatalf("Schemas() returned %d entries, want 2", len(schemas))
	}
	if schemas[0].Name != "alpha" || schemas[1].Name != "zeta" {
		t.Errorf("Schemas() order = [%s %s], want [alpha zeta]", schemas[0].Name, schemas[1].Name)
	}
}
