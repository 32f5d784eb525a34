package engine

import "fmt"

// StepError wraps a collaborator failure with the loop stage it occurred in.
// Only reasoning-service failures reach callers this way; approval-channel
// and per-tool failures are absorbed into the conversation instead.
type StepError struct {
	Stage     string // "reasoning" or "tool_execution"
	Iteration int
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed at iteration %d: %v", e.Stage, e.Iteration, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
