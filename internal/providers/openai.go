package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/basepilot/basepilot/internal/engine"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIClient implements engine.Reasoner by calling the OpenAI SDK directly.
// It also serves any OpenAI-compatible endpoint via a custom base URL.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	system  string
	schemas []ToolSchema
	timeout time.Duration
}

// NewOpenAIClient creates a new OpenAI-backed reasoner.
func NewOpenAIClient(apiKey, modelName, baseURL string, opts Options) (*OpenAIClient, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	client := openai.NewClientWithConfig(config)

	return &OpenAIClient{
		client:  client,
		model:   modelName,
		system:  opts.System,
		schemas: opts.Schemas,
		timeout: opts.timeout(),
	}, nil
}

// Stream implements engine.Reasoner. The SDK stream is drained fully and the
// result is emitted as at most two consolidated events: one for the combined
// assistant text and one carrying the serialized tool-call proposals.
func (c *OpenAIClient) Stream(ctx context.Context, history []engine.Message) (<-chan engine.StreamEvent, <-chan error) {
	eventCh := make(chan engine.StreamEvent, 4)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req := openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: c.convertHistory(history),
			Stream:   true,
		}

		tools, err := c.convertSchemas()
		if err != nil {
			errCh <- err
			return
		}
		if len(tools) > 0 {
			req.Tools = tools
			req.ToolChoice = "auto"
		}

		stream, err := c.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			errCh <- fmt.Errorf("openai stream: %w", err)
			return
		}
		defer stream.Close()

		// OpenAI sends tool calls as per-field deltas keyed by index.
		type accumulator struct {
			id   string
			name string
			args strings.Builder
		}
		accums := make(map[int]*accumulator)
		maxIndex := -1
		var text strings.Builder

		for {
			response, err := stream.Recv()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errCh <- fmt.Errorf("openai stream: %w", err)
					return
				}
				break
			}
			if len(response.Choices) == 0 {
				continue
			}
			delta := response.Choices[0].Delta

			if delta.Content != "" {
				text.WriteString(delta.Content)
			}

			for _, tc := range delta.ToolCalls {
				index := 0
				if tc.Index != nil {
					index = *tc.Index
				}
				acc, ok := accums[index]
				if !ok {
					acc = &accumulator{}
					accums[index] = acc
					if index > maxIndex {
						maxIndex = index
					}
				}
				if tc.ID != "" {
					acc.id = tc.ID
				}
				if tc.Function.Name != "" {
					acc.name = tc.Function.Name
				}
				if tc.Function.Arguments != "" {
					acc.args.WriteString(tc.Function.Arguments)
				}
			}
		}

		if text.Len() > 0 {
			eventCh <- engine.StreamEvent{Kind: engine.EventText, Content: text.String()}
		}

		var calls []wireCall
		for index := 0; index <= maxIndex; index++ {
			acc, ok := accums[index]
			if !ok || acc.name == "" {
				continue
			}
			var args map[string]any
			argsStr := acc.args.String()
			if argsStr != "" {
				if err := json.Unmarshal([]byte(argsStr), &args); err != nil {
					args = nil
				}
			} else {
				args = map[string]any{}
			}
			calls = append(calls, wireCall{
				ID:    acc.id,
				Tool:  acc.name,
				Input: encodeArgs(args, argsStr),
			})
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

func (c *OpenAIClient) convertHistory(history []engine.Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if c.system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.system,
		})
	}
	for _, msg := range history {
		switch msg.Role {
		case engine.RoleUser:
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case engine.RoleAssistant:
			content := msg.Content
			if content == "" {
				// The SDK serializes empty content as null, which the API rejects.
				content = " "
			}
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			})
		case engine.RoleTool:
			// Tool traffic is replayed as plain user turns so the model sees
			// results without provider-specific tool-call ID bookkeeping.
			msgs = append(msgs, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: renderToolMessage(msg),
			})
		}
	}
	return msgs
}

func (c *OpenAIClient) convertSchemas() ([]openai.Tool, error) {
	var tools []openai.Tool
	for _, ts := range c.schemas {
		var schemaObj map[string]any
		if err := json.Unmarshal([]byte(ts.JSONSchema), &schemaObj); err != nil {
			return nil, fmt.Errorf("invalid tool schema JSON for %s: %w", ts.Name, err)
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ts.Name,
				Description: ts.Description,
				Parameters:  schemaObj,
			},
		})
	}
	return tools, nil
}

// renderToolMessage flattens a tool-role history entry into one line of text.
func renderToolMessage(msg engine.Message) string {
	content := msg.Content
	if content == "" {
		content = "{}"
	}
	return fmt.Sprintf("[%s] %s", msg.Tool, content)
}
