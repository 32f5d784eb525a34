package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStdinPrompterAsksOnce(t *testing.T) {
	var out bytes.Buffer
	p := stdinPrompter{
		in:  bufio.NewScanner(strings.NewReader("  yes \n")),
		out: &out,
	}

	prompt := "Transaction requires approval:\n  tool:   send_token\n  amount: 1500.00\n  details: {}\nProceed? (yes/no): "
	answer, err := p.Prompt(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Prompt() error: %v", err)
	}
	if answer != "yes" {
		t.Errorf("answer = %q, want yes", answer)
	}
	if got := strings.Count(out.String(), "Proceed? (yes/no)"); got != 1 {
		t.Errorf("question printed %d times, want 1:\n%s", got, out.String())
	}
}

func TestStdinPrompterInputClosed(t *testing.T) {
	var out bytes.Buffer
	p := stdinPrompter{
		in:  bufio.NewScanner(strings.NewReader("")),
		out: &out,
	}

	if _, err := p.Prompt(context.Background(), "Proceed? (yes/no): "); err == nil {
		t.Error("expected error when input closes before an answer")
	}
}

func TestChooseModeAcceptsNumberOrName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"1\n", "chat"},
		{"auto\n", "auto"},
		{"3\n", "serve"},
		{"bogus\nChat\n", "chat"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got := chooseMode(strings.NewReader(tc.input), &out)
		if got != tc.want {
			t.Errorf("chooseMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestListPrompts(t *testing.T) {
	var out bytes.Buffer
	if err := listPrompts(&out); err != nil {
		t.Fatalf("listPrompts() error: %v", err)
	}
	for _, want := range []string{"autonomous@1.0.0", "onchain@1.0.0"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}
}
