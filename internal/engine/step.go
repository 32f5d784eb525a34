package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// CapMessage is appended when the hard iteration cap fires.
	CapMessage = "Maximum iterations reached. Ending conversation."
	// RejectionMessage is appended when the reviewer declines a transaction.
	RejectionMessage = "Transaction was not approved. The request has been cancelled."
	// CancelledMessage is appended when the approval channel itself fails.
	CancelledMessage = "Approval process failed, transaction cancelled."
	// FallbackResponse is returned when a turn produced no assistant text.
	FallbackResponse = "No response generated."

	// fallbackToolName labels calls whose payload could not be parsed as a
	// structured list, so the loop can still proceed.
	fallbackToolName = "chain_tool"
)

// reasonerStep runs one reasoning invocation: it enforces the hard iteration
// cap, drains the service's event stream into history, and classifies the
// outcome via the approval policy. The cap is a hard stop, not a warning; no
// further reasoning invocations occur once it fires.
func reasonerStep(ctx context.Context, r Reasoner, st *State, cfg Config, hooks Hooks) error {
	if st.Iterations+1 >= cfg.MaxIterations {
		st.Iterations++
		st.Append(AgentText(CapMessage))
		st.Calls = nil
		st.Pending = ActionTerminate
		return nil
	}
	st.Iterations++
	hooks.OnStepStart(ctx, st)

	events, errs := r.Stream(ctx, st.History)
	var calls []ToolCall
	for ev := range events {
		hooks.OnStreamEvent(ctx, st, ev)
		switch ev.Kind {
		case EventText:
			st.Append(AgentText(ev.Content))
		case EventToolResult:
			st.Append(ToolResult(proposalsLabel, ev.Content))
			calls = parseToolCalls(ev.Content)
		}
	}
	if err := <-errs; err != nil {
		return &StepError{Stage: "reasoning", Iteration: st.Iterations, Err: err}
	}

	st.Calls = calls
	decision := Evaluate(calls, cfg.Threshold)
	switch {
	case decision.Required:
		st.Approval = decision
		st.Pending = ActionAwaitApproval
		hooks.OnApprovalRequired(ctx, st, decision)
	case len(calls) > 0:
		st.Pending = ActionRunTools
	default:
		st.Pending = ActionTerminate
	}
	return nil
}

// proposalsLabel names the history entry holding a raw proposed-calls payload.
const proposalsLabel = "tool_calls"

// rawToolCall mirrors the wire shape of one proposed call.
type rawToolCall struct {
	ID    string          `json:"id,omitempty"`
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input"`
}

// parseToolCalls decodes a tool-invocation payload into ToolCall records,
// resolving each input's Raw/Structured variant exactly once. A payload that
// does not parse as a list becomes a single fallback call so the loop can
// still proceed.
func parseToolCalls(payload string) []ToolCall {
	var raw []rawToolCall
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return []ToolCall{{
			ID:    uuid.NewString(),
			Tool:  fallbackToolName,
			Input: RawInput(payload),
		}}
	}

	calls := make([]ToolCall, 0, len(raw))
	for _, rc := range raw {
		call := ToolCall{ID: rc.ID, Tool: rc.Tool}
		if call.ID == "" {
			call.ID = uuid.NewString()
		}
		if call.Tool == "" {
			call.Tool = fallbackToolName
		}
		if len(rc.Input) > 0 {
			call.Input = ResolveInput(rc.Input)
		}
		calls = append(calls, call)
	}
	if len(calls) == 0 {
		return nil
	}
	return calls
}

// approvalStep presents the pending transaction to a human reviewer and
// blocks for a yes/no answer. Rejection is a normal terminal outcome, not an
// error; a failure of the input channel itself is absorbed locally and never
// propagated to the caller.
func approvalStep(ctx context.Context, p Prompter, st *State, hooks Hooks) {
	detail := st.Approval.Detail
	if detail == nil {
		// Defensive: nothing to approve, terminate the turn.
		st.Pending = ActionTerminate
		return
	}

	prompt := fmt.Sprintf(
		"Transaction requires approval:\n  tool:   %s\n  amount: %.2f\n  details: %s\nProceed? (yes/no): ",
		detail.Tool, detail.Amount, detail.Details,
	)

	answer, err := p.Prompt(ctx, prompt)
	if err != nil {
		st.Append(AgentText(CancelledMessage))
		st.Outcome = OutcomeCancelled
		st.Pending = ActionTerminate
		hooks.OnApprovalDecision(ctx, st, false)
		return
	}

	if isAffirmative(answer) {
		st.Outcome = OutcomeApproved
		st.Pending = ActionRunTools
		hooks.OnApprovalDecision(ctx, st, true)
		return
	}

	st.Append(AgentText(RejectionMessage))
	st.Outcome = OutcomeRejected
	st.Pending = ActionTerminate
	hooks.OnApprovalDecision(ctx, st, false)
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	}
	return false
}

// executeStep dispatches each approved call to the tool-execution service and
// folds the results back into history. Individual tool failures become error
// payloads in the conversation; the loop always returns to the reasoner step
// afterward regardless of outcomes.
func executeStep(ctx context.Context, runner ToolRunner, st *State, hooks Hooks) {
	for _, call := range st.Calls {
		hooks.OnToolCall(ctx, st, call)
		result, err := runner.Run(ctx, call)
		if err != nil {
			result = "ERROR: " + err.Error()
		}
		st.Append(ToolResult(call.Tool, result))
		hooks.OnToolResult(ctx, st, call, result, err)
	}
	st.Calls = nil
	st.Pending = ActionNone
}
