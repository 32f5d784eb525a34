package engine

import (
	"context"
	"fmt"
)

// Config holds the loop bounds consumed as read-only values by the core.
type Config struct {
	MaxIterations int     // Hard cap on reasoner invocations per turn
	Threshold     float64 // Transaction amount requiring human approval
}

// DefaultConfig returns the loop defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 3,
		Threshold:     1000,
	}
}

// Run drives the control loop to completion. It sequences
// reasoner → [approval] → tool-execution → reasoner until a terminal action,
// with no cycle detection beyond the hard iteration cap: a reasoner that
// keeps proposing the same below-threshold call will loop until the cap fires.
//
// The loop is single-threaded and synchronous; the only suspension points are
// the reasoning stream and the human-input channel, and neither can be
// cancelled once a wait has started. Callers wanting timeouts must wrap the
// whole invocation.
func Run(ctx context.Context, r Reasoner, tools ToolRunner, prompter Prompter, st *State, cfg Config, hooks Hooks) error {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}

	phase := PhaseReasoning
	for phase != PhaseDone {
		select {
		case <-ctx.Done():
			return fmt.Errorf("turn cancelled: %w", ctx.Err())
		default:
		}

		switch phase {
		case PhaseReasoning:
			if err := reasonerStep(ctx, r, st, cfg, hooks); err != nil {
				return err
			}
			switch st.Pending {
			case ActionAwaitApproval:
				phase = PhaseAwaitingApproval
			case ActionRunTools:
				phase = PhaseExecutingTools
			default:
				phase = PhaseDone
			}

		case PhaseAwaitingApproval:
			approvalStep(ctx, prompter, st, hooks)
			if st.Pending == ActionRunTools {
				phase = PhaseExecutingTools
			} else {
				phase = PhaseDone
			}

		case PhaseExecutingTools:
			executeStep(ctx, tools, st, hooks)
			phase = PhaseReasoning
		}
	}

	hooks.OnDone(ctx, st)
	return nil
}
