// engine/hooks.go
package engine

import "context"

type Hook interface {
	OnStepStart(ctx context.Context, st *State)
	OnStreamEvent(ctx context.Context, st *State, ev StreamEvent)
	OnToolCall(ctx context.Context, st *State, call ToolCall)
	OnToolResult(ctx context.Context, st *State, call ToolCall, result string, err error)
	OnApprovalRequired(ctx context.Context, st *State, decision Decision)
	OnApprovalDecision(ctx context.Context, st *State, approved bool)
	OnDone(ctx context.Context, st *State)
}

// NopHook lets you implement only the hooks you need.
type NopHook struct{}

func (NopHook) OnStepStart(context.Context, *State)                         {}
func (NopHook) OnStreamEvent(context.Context, *State, StreamEvent)          {}
func (NopHook) OnToolCall(context.Context, *State, ToolCall)                {}
func (NopHook) OnToolResult(context.Context, *State, ToolCall, string, error) {}
func (NopHook) OnApprovalRequired(context.Context, *State, Decision)        {}
func (NopHook) OnApprovalDecision(context.Context, *State, bool)            {}
func (NopHook) OnDone(context.Context, *State)                              {}
