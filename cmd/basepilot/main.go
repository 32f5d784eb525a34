package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/basepilot/basepilot/internal/api"
	"github.com/basepilot/basepilot/internal/engine"
	"github.com/basepilot/basepilot/internal/factory"
	"github.com/basepilot/basepilot/internal/prompts"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("basepilot: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("basepilot", flag.ExitOnError)
	modeFlag := fs.String("mode", "", "Run mode: chat, auto, or serve (default: interactive chooser)")
	intervalFlag := fs.Duration("interval", 10*time.Second, "Delay between autonomous actions")
	promptsFlag := fs.Bool("prompts", false, "List the registered prompts and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *promptsFlag {
		return listPrompts(os.Stdout)
	}

	rt, err := factory.Build(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	log.Printf("using model %s, wallet %s", rt.Model, rt.Wallet.Address().Hex())

	mode := *modeFlag
	if mode == "" {
		mode = rt.Prefs.DefaultMode
	}
	if mode == "" {
		mode = chooseMode(os.Stdin, os.Stdout)
	}

	switch mode {
	case "chat":
		return runChatMode(ctx, rt)
	case "auto":
		return runAutonomousMode(ctx, rt, *intervalFlag)
	case "serve":
		return runServeMode(ctx, rt)
	default:
		return fmt.Errorf("unknown mode: %s (supported: chat, auto, serve)", mode)
	}
}

// listPrompts prints every registered prompt with its latest version and
// description, a debug aid for checking what the binary ships.
func listPrompts(out io.Writer) error {
	registry := prompts.DefaultRegistry()
	ids := registry.List()
	sort.Strings(ids)
	for _, id := range ids {
		p, err := registry.GetLatest(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s@%s\t%s\n", p.ID, p.Version, p.Description)
	}
	return nil
}

// chooseMode asks the operator which mode to run, accepting either the
// number or the name. It loops until it gets a valid answer.
func chooseMode(in io.Reader, out io.Writer) string {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "\nAvailable modes:")
		fmt.Fprintln(out, "1. chat    - Interactive chat mode")
		fmt.Fprintln(out, "2. auto    - Autonomous action mode")
		fmt.Fprintln(out, "3. serve   - HTTP API mode")
		fmt.Fprint(out, "\nChoose a mode (enter number or name): ")

		if !scanner.Scan() {
			return "chat"
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "1", "chat":
			return "chat"
		case "2", "auto":
			return "auto"
		case "3", "serve":
			return "serve"
		}
		fmt.Fprintln(out, "Invalid choice. Please try again.")
	}
}

// runChatMode is the interactive REPL. High-value transactions ask for
// approval on the same terminal.
func runChatMode(ctx context.Context, rt *factory.Runtime) error {
	// The REPL and the approval prompter share one scanner so neither
	// swallows input buffered for the other.
	scanner := bufio.NewScanner(os.Stdin)

	driver, err := rt.NewDriver(stdinPrompter{in: scanner, out: os.Stdout})
	if err != nil {
		return err
	}

	fmt.Println("Starting chat mode... Type 'exit' to end.")
	for {
		fmt.Print("\nUser: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}

		response, err := driver.Process(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println("\nResponse:")
		fmt.Println(response)
		fmt.Println("-------------------")
	}
	return scanner.Err()
}

// runAutonomousMode feeds the agent a standing creative instruction on a
// fixed interval. There is no operator present, so high-value
// transactions are always declined.
func runAutonomousMode(ctx context.Context, rt *factory.Runtime, interval time.Duration) error {
	driver, err := rt.NewDriver(engine.DenyPrompter())
	if err != nil {
		return err
	}

	fmt.Println("Starting autonomous mode... Press Ctrl+C to stop.")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	thought := prompts.AutonomousThought()
	for {
		response, err := driver.Process(ctx, thought)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("Error: %v\n", err)
		} else {
			fmt.Println(response)
			fmt.Println("-------------------")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// runServeMode exposes the agent over HTTP. The default path declines
// high-value transactions; requests flagged as pre-approved go through a
// second driver that accepts them.
func runServeMode(ctx context.Context, rt *factory.Runtime) error {
	agent, err := rt.NewDriver(engine.DenyPrompter())
	if err != nil {
		return err
	}
	trusted, err := rt.NewDriver(engine.ApprovePrompter())
	if err != nil {
		return err
	}

	srv := api.NewServer(rt.Config.APIAddr, agent, trusted, rt.Store, rt.Config.RequestTimeout)
	log.Printf("listening on %s", rt.Config.APIAddr)
	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// stdinPrompter asks approval questions on the terminal and reads the
// answer from the shared input scanner. The prompt text already carries
// the yes/no question, so nothing is appended.
type stdinPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p stdinPrompter) Prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprintf(p.out, "\n%s", text)

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed before approval answer")
	}
	return strings.TrimSpace(p.in.Text()), nil
}
