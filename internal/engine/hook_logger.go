// engine/hook_logger.go
package engine

import (
	"context"
	"log"
)

type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnStepStart(_ context.Context, st *State) {
	h.L.Printf("reasoner iteration %d with %d message(s)", st.Iterations, len(st.History))
}
func (h LoggerHook) OnStreamEvent(_ context.Context, _ *State, ev StreamEvent) {
	preview := ev.Content
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	h.L.Printf("stream %s: %s", ev.Kind, preview)
}
func (h LoggerHook) OnToolCall(_ context.Context, _ *State, c ToolCall) {
	h.L.Printf("tool → %s input=%s", c.Tool, c.Input.String())
}
func (h LoggerHook) OnToolResult(_ context.Context, _ *State, c ToolCall, result string, err error) {
	if err != nil {
		h.L.Printf("tool %s error: %v", c.Tool, err)
		return
	}
	preview := result
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	h.L.Printf("tool %s result: %s", c.Tool, preview)
}
func (h LoggerHook) OnApprovalRequired(_ context.Context, _ *State, d Decision) {
	if d.Detail != nil {
		h.L.Printf("approval required: tool=%s amount=%.2f", d.Detail.Tool, d.Amount)
	}
}
func (h LoggerHook) OnApprovalDecision(_ context.Context, _ *State, approved bool) {
	h.L.Printf("approval decision: approved=%v", approved)
}
func (h LoggerHook) OnDone(_ context.Context, st *State) {
	h.L.Printf("done: iterations=%d messages=%d", st.Iterations, len(st.History))
}
