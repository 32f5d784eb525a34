package engine

import "context"

type Hooks []Hook

func (hs Hooks) OnStepStart(ctx context.Context, st *State) {
	for _, h := range hs {
		h.OnStepStart(ctx, st)
	}
}
func (hs Hooks) OnStreamEvent(ctx context.Context, st *State, ev StreamEvent) {
	for _, h := range hs {
		h.OnStreamEvent(ctx, st, ev)
	}
}
func (hs Hooks) OnToolCall(ctx context.Context, st *State, c ToolCall) {
	for _, h := range hs {
		h.OnToolCall(ctx, st, c)
	}
}
func (hs Hooks) OnToolResult(ctx context.Context, st *State, c ToolCall, result string, err error) {
	for _, h := range hs {
		h.OnToolResult(ctx, st, c, result, err)
	}
}
func (hs Hooks) OnApprovalRequired(ctx context.Context, st *State, d Decision) {
	for _, h := range hs {
		h.OnApprovalRequired(ctx, st, d)
	}
}
func (hs Hooks) OnApprovalDecision(ctx context.Context, st *State, approved bool) {
	for _, h := range hs {
		h.OnApprovalDecision(ctx, st, approved)
	}
}
func (hs Hooks) OnDone(ctx context.Context, st *State) {
	for _, h := range hs {
		h.OnDone(ctx, st)
	}
}
