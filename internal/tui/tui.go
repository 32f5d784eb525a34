// Package tui is the terminal chat front end. The engine's approval
// checkpoint is relayed into the event loop over channels so the loop
// goroutine blocks while the operator decides.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Agent runs one conversation turn.
type Agent interface {
	Process(ctx context.Context, text string) (string, error)
}

// approvalRequest carries one pending approval question and its reply
// channel.
type approvalRequest struct {
	prompt string
	resp   chan string
}

// Prompter implements the engine's approval checkpoint by handing the
// question to the UI and blocking until the operator answers.
type Prompter struct {
	requests chan approvalRequest
}

// NewPrompter creates the prompter shared between the engine and the UI.
func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan approvalRequest)}
}

// Prompt blocks until the UI answers or the context is cancelled.
func (p *Prompter) Prompt(ctx context.Context, text string) (string, error) {
	req := approvalRequest{prompt: text, resp: make(chan string, 1)}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case p.requests <- req:
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case answer := <-req.resp:
		return answer, nil
	}
}

// listenForApprovals forwards engine approval requests into the event loop.
func listenForApprovals(requests <-chan approvalRequest) tea.Cmd {
	return func() tea.Msg {
		req, ok := <-requests
		if !ok {
			return nil
		}
		return approvalMsg(req)
	}
}
