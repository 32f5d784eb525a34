package engine

import "context"

// StaticPrompter answers every approval question with a fixed reply. Deny
// is the safe default for unattended shells; Approve is for callers that
// pre-authorized the turn.
type StaticPrompter struct {
	Answer string
}

// Prompt implements Prompter.
func (p StaticPrompter) Prompt(_ context.Context, _ string) (string, error) {
	return p.Answer, nil
}

// DenyPrompter rejects every approval question.
func DenyPrompter() StaticPrompter { return StaticPrompter{Answer: "no"} }

// ApprovePrompter accepts every approval question.
func ApprovePrompter() StaticPrompter { return StaticPrompter{Answer: "yes"} }
