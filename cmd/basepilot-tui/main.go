package main

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/basepilot/basepilot/internal/factory"
	"github.com/basepilot/basepilot/internal/tui"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx := context.Background()

	rt, err := factory.Build(ctx)
	if err != nil {
		log.Fatalf("basepilot-tui: %v", err)
	}
	defer rt.Close()

	// The alternate screen owns the terminal; route logs to a file so
	// they do not corrupt the display.
	if f, err := tea.LogToFile("basepilot-tui.log", "tui"); err == nil {
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	prompter := tui.NewPrompter()
	driver, err := rt.NewDriver(prompter)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("basepilot-tui: %v", err)
	}

	program := tea.NewProgram(tui.NewModel(driver, prompter), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("basepilot-tui: %v", err)
	}
}
