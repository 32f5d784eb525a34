package engine

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// Driver is the single entry point presentation layers use. It holds the
// collaborator handles explicitly so nothing leaks through package-level
// state; concurrent Process calls are safe as long as the handles are.
type Driver struct {
	reasoner Reasoner
	tools    ToolRunner
	prompter Prompter
	config   Config
	hooks    Hooks
	recorder TurnRecorder
}

// DriverOption configures optional Driver collaborators.
type DriverOption func(*Driver)

// WithHooks attaches observability hooks to every turn.
func WithHooks(hooks ...Hook) DriverOption {
	return func(d *Driver) {
		d.hooks = append(d.hooks, hooks...)
	}
}

// WithRecorder persists completed turns through the given recorder.
func WithRecorder(rec TurnRecorder) DriverOption {
	return func(d *Driver) {
		d.recorder = rec
	}
}

// NewDriver builds a session driver around the three collaborator services.
func NewDriver(r Reasoner, tools ToolRunner, prompter Prompter, cfg Config, opts ...DriverOption) (*Driver, error) {
	if r == nil {
		return nil, errors.New("engine: reasoner is required")
	}
	if tools == nil {
		return nil, errors.New("engine: tool runner is required")
	}
	if prompter == nil {
		return nil, errors.New("engine: prompter is required")
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	// Zero is a meaningful threshold: every transaction-like call needs
	// approval. Only a negative value falls back to the default.
	if cfg.Threshold < 0 {
		cfg.Threshold = DefaultConfig().Threshold
	}

	d := &Driver{
		reasoner: r,
		tools:    tools,
		prompter: prompter,
		config:   cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Process seeds a fresh loop state from one line of user input, drains the
// loop to completion, and returns the concatenated assistant text. Each call
// owns its state exclusively; any cross-turn memory is the reasoning
// service's concern. Reasoning-service failures propagate to the caller.
func (d *Driver) Process(ctx context.Context, userText string) (string, error) {
	st := NewState(userText)
	if err := Run(ctx, d.reasoner, d.tools, d.prompter, st, d.config, d.hooks); err != nil {
		return "", err
	}

	response := st.AssistantText()
	if response == "" {
		response = FallbackResponse
	}

	if d.recorder != nil {
		turn := Turn{
			ID:         uuid.NewString(),
			Input:      userText,
			Response:   response,
			Iterations: st.Iterations,
			Approval:   st.Outcome,
		}
		if err := d.recorder.RecordTurn(ctx, turn); err != nil {
			log.Printf("failed to record turn: %v", err)
		}
	}
	return response, nil
}
