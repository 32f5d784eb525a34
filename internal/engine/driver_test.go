package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recorderSpy struct {
	turns []Turn
	err   error
}

func (r *recorderSpy) RecordTurn(ctx context.Context, turn Turn) error {
	r.turns = append(r.turns, turn)
	return r.err
}

func newTestDriver(t *testing.T, r Reasoner, runner ToolRunner, prompter Prompter, opts ...DriverOption) *Driver {
	t.Helper()
	d, err := NewDriver(r, runner, prompter, DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("NewDriver() error: %v", err)
	}
	return d
}

func denyAllPrompter(t *testing.T) Prompter {
	return prompterFunc(func(ctx context.Context, text string) (string, error) {
		t.Errorf("unexpected approval prompt: %q", text)
		return "", nil
	})
}

func noToolsRunner(t *testing.T) ToolRunner {
	return runnerFunc(func(ctx context.Context, call ToolCall) (string, error) {
		t.Errorf("unexpected tool execution: %s", call.Tool)
		return "", nil
	})
}

func TestDriverBalanceQuery(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventText, Content: "Your balance is 2.5 ETH"}},
	}}
	d := newTestDriver(t, r, noToolsRunner(t), denyAllPrompter(t))

	resp, err := d.Process(context.Background(), "What is my balance?")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if resp != "Your balance is 2.5 ETH" {
		t.Errorf("response = %q", resp)
	}
	if r.streamCalls != 1 {
		t.Errorf("reasoner invoked %d times, want 1", r.streamCalls)
	}
}

func TestDriverHighValueTransferRejected(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventToolResult, Content: `[{"tool":"send_token","input":{"amount":1500,"to":"0xabc"}}]`}},
	}}
	prompter := prompterFunc(func(ctx context.Context, text string) (string, error) {
		return "no", nil
	})
	d := newTestDriver(t, r, noToolsRunner(t), prompter)

	resp, err := d.Process(context.Background(), "send 1500 USDC to 0xabc")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if !strings.Contains(resp, RejectionMessage) {
		t.Errorf("response = %q, want rejection notice", resp)
	}
	if r.streamCalls != 1 {
		t.Errorf("reasoner invoked %d times after rejection, want 1", r.streamCalls)
	}
}

func TestDriverApprovedTransferExecutes(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventToolResult, Content: `[{"tool":"send_token","input":{"amount":1500,"to":"0xabc"}}]`}},
		{{Kind: EventText, Content: "Sent 1500 USDC to 0xabc."}},
	}}
	var executed []string
	runner := runnerFunc(func(ctx context.Context, call ToolCall) (string, error) {
		executed = append(executed, call.Tool)
		return "tx confirmed", nil
	})
	prompter := prompterFunc(func(ctx context.Context, text string) (string, error) {
		return "yes", nil
	})
	d := newTestDriver(t, r, runner, prompter)

	resp, err := d.Process(context.Background(), "send 1500 USDC to 0xabc")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(executed) != 1 || executed[0] != "send_token" {
		t.Errorf("executed tools = %v, want [send_token]", executed)
	}
	if !strings.Contains(resp, "Sent 1500 USDC") {
		t.Errorf("response = %q", resp)
	}
}

func TestDriverIterationCap(t *testing.T) {
	// Every step proposes a cheap tool call, so the loop keeps going
	// until the cap fires. With a budget of 3 the reasoning service
	// runs twice and the cap message closes the turn.
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventToolResult, Content: `[{"tool":"get_balance","input":{"address":"0xabc"}}]`}},
	}}
	runner := runnerFunc(func(ctx context.Context, call ToolCall) (string, error) {
		return "1.5 ETH", nil
	})
	d := newTestDriver(t, r, runner, denyAllPrompter(t))

	resp, err := d.Process(context.Background(), "keep checking my balance")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if r.streamCalls != 2 {
		t.Errorf("reasoner invoked %d times, want 2", r.streamCalls)
	}
	if !strings.Contains(resp, CapMessage) {
		t.Errorf("response = %q, want cap notice", resp)
	}
}

func TestDriverFallbackResponse(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventToolResult, Content: `[]`}},
	}}
	d := newTestDriver(t, r, noToolsRunner(t), denyAllPrompter(t))

	resp, err := d.Process(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if resp != FallbackResponse {
		t.Errorf("response = %q, want %q", resp, FallbackResponse)
	}
}

func TestDriverPropagatesReasonerError(t *testing.T) {
	r := &scriptedReasoner{
		scripts:   [][]StreamEvent{{}},
		streamErr: errors.New("model unavailable"),
	}
	d := newTestDriver(t, r, noToolsRunner(t), denyAllPrompter(t))

	if _, err := d.Process(context.Background(), "hello"); err == nil {
		t.Fatal("expected reasoning failure to propagate")
	}
}

func TestDriverRecordsTurn(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventText, Content: "done"}},
	}}
	spy := &recorderSpy{}
	d := newTestDriver(t, r, noToolsRunner(t), denyAllPrompter(t), WithRecorder(spy))

	if _, err := d.Process(context.Background(), "hello"); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(spy.turns) != 1 {
		t.Fatalf("recorded %d turns, want 1", len(spy.turns))
	}
	turn := spy.turns[0]
	if turn.Input != "hello" || turn.Response != "done" || turn.Iterations != 1 {
		t.Errorf("recorded turn = %+v", turn)
	}
	if turn.ID == "" {
		t.Error("recorded turn has no id")
	}
}

func TestDriverRecorderFailureIsAbsorbed(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventText, Content: "done"}},
	}}
	spy := &recorderSpy{err: errors.New("disk full")}
	d := newTestDriver(t, r, noToolsRunner(t), denyAllPrompter(t), WithRecorder(spy))

	resp, err := d.Process(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if resp != "done" {
		t.Errorf("response = %q", resp)
	}
}

func TestNewDriverValidation(t *testing.T) {
	r := &scriptedReasoner{}
	runner := runnerFunc(func(ctx context.Context, call ToolCall) (string, error) { return "", nil })
	prompter := prompterFunc(func(ctx context.Context, text string) (string, error) { return "", nil })

	if _, err := NewDriver(nil, runner, prompter, DefaultConfig()); err == nil {
		t.Error("expected error for nil reasoner")
	}
	if _, err := NewDriver(r, nil, prompter, DefaultConfig()); err == nil {
		t.Error("expected error for nil tool runner")
	}
	if _, err := NewDriver(r, runner, nil, DefaultConfig()); err == nil {
		t.Error("expected error for nil prompter")
	}
}

func TestDriverZeroThresholdRequiresApproval(t *testing.T) {
	r := &scriptedReasoner{scripts: [][]StreamEvent{
		{{Kind: EventToolResult, Content: `[{"tool":"send_token","input":{"amount":500,"to":"0xabc"}}]`}},
	}}
	prompted := false
	prompter := prompterFunc(func(ctx context.Context, text string) (string, error) {
		prompted = true
		return "no", nil
	})

	// Threshold 0 means every transaction-like call needs sign-off; it must
	// not be silently replaced with the default.
	d, err := NewDriver(r, noToolsRunner(t), prompter, Config{MaxIterations: 3, Threshold: 0})
	if err != nil {
		t.Fatalf("NewDriver() error: %v", err)
	}

	resp, err := d.Process(context.Background(), "send 500 USDC to 0xabc")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if !prompted {
		t.Error("approval prompt never shown for below-default amount at threshold 0")
	}
	if !strings.Contains(resp, RejectionMessage) {
		t.Errorf("response = %q, want rejection notice", resp)
	}
}
