package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/basepilot/basepilot/internal/engine"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient implements engine.Reasoner by calling the Anthropic SDK
// directly. The SDK streams via callbacks, which are adapted to the
// consolidated event contract here.
type AnthropicClient struct {
	client  *anthropic.Client
	model   string
	system  string
	schemas []ToolSchema
	timeout time.Duration
}

// NewAnthropicClient creates a new Anthropic-backed reasoner.
func NewAnthropicClient(apiKey, modelName string, opts Options) (*AnthropicClient, error) {
	client := anthropic.NewClient(apiKey)

	return &AnthropicClient{
		client:  client,
		model:   modelName,
		system:  opts.System,
		schemas: opts.Schemas,
		timeout: opts.timeout(),
	}, nil
}

// Stream implements engine.Reasoner.
func (c *AnthropicClient) Stream(ctx context.Context, history []engine.Message) (<-chan engine.StreamEvent, <-chan error) {
	eventCh := make(chan engine.StreamEvent, 4)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		toolDefs, err := c.convertSchemas()
		if err != nil {
			errCh <- err
			return
		}

		maxTokens := 4096
		req := anthropic.MessagesStreamRequest{
			MessagesRequest: anthropic.MessagesRequest{
				Model:     anthropic.Model(c.model),
				Messages:  c.convertHistory(history),
				MaxTokens: maxTokens,
			},
		}
		if c.system != "" {
			req.MultiSystem = []anthropic.MessageSystemPart{{
				Type: "text",
				Text: c.system,
			}}
		}
		if len(toolDefs) > 0 {
			req.Tools = toolDefs
		}

		// Callbacks fire while CreateMessagesStream runs; accumulate locally
		// and emit consolidated events once the request completes.
		var text strings.Builder
		var calls []wireCall
		var callbackErr error

		req.OnError = func(errResp anthropic.ErrorResponse) {
			callbackErr = fmt.Errorf("anthropic stream: %s", errResp.Error.Message)
		}
		req.OnContentBlockDelta = func(delta anthropic.MessagesEventContentBlockDeltaData) {
			if delta.Delta.Type == "text_delta" && delta.Delta.Text != nil {
				text.WriteString(*delta.Delta.Text)
			}
		}
		req.OnContentBlockStop = func(stop anthropic.MessagesEventContentBlockStopData, content anthropic.MessageContent) {
			if content.Type != "tool_use" || content.MessageContentToolUse == nil {
				return
			}
			tc := content.MessageContentToolUse
			input := json.RawMessage(tc.Input)
			if len(input) == 0 {
				input = json.RawMessage(`{}`)
			}
			calls = append(calls, wireCall{
				ID:    tc.ID,
				Tool:  tc.Name,
				Input: input,
			})
		}

		if _, err := c.client.CreateMessagesStream(ctx, req); err != nil {
			errCh <- fmt.Errorf("anthropic stream: %w", err)
			return
		}
		if callbackErr != nil {
			errCh <- callbackErr
			return
		}

		if text.Len() > 0 {
			eventCh <- engine.StreamEvent{Kind: engine.EventText, Content: text.String()}
		}
		if len(calls) > 0 {
			payload, err := encodeWireCalls(calls)
			if err != nil {
				errCh <- fmt.Errorf("encode tool calls: %w", err)
				return
			}
			eventCh <- engine.StreamEvent{Kind: engine.EventToolResult, Content: payload}
		}
	}()

	return eventCh, errCh
}

func (c *AnthropicClient) convertHistory(history []engine.Message) []anthropic.Message {
	msgs := make([]anthropic.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case engine.RoleUser:
			msgs = append(msgs, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		case engine.RoleAssistant:
			if msg.Content == "" {
				continue
			}
			msgs = append(msgs, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(msg.Content)},
			})
		case engine.RoleTool:
			msgs = append(msgs, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(renderToolMessage(msg))},
			})
		}
	}
	return msgs
}

func (c *AnthropicClient) convertSchemas() ([]anthropic.ToolDefinition, error) {
	var toolDefs []anthropic.ToolDefinition
	for _, ts := range c.schemas {
		var schemaObj map[string]any
		if err := json.Unmarshal([]byte(ts.JSONSchema), &schemaObj); err != nil {
			return nil, fmt.Errorf("invalid tool schema JSON for %s: %w", ts.Name, err)
		}
		toolDefs = append(toolDefs, anthropic.ToolDefinition{
			Name:        ts.Name,
			Description: ts.Description,
			InputSchema: schemaObj,
		})
	}
	return toolDefs, nil
}
