package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	agentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	approvalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 1)
)

// chatEntry is one rendered line group in the transcript.
type chatEntry struct {
	role string // "user", "agent", "error"
	text string
}

// Internal messages.
type approvalMsg approvalRequest

type responseMsg struct {
	text string
	err  error
}

// Model is the bubbletea chat model.
type Model struct {
	agent    Agent
	prompter *Prompter
	renderer *glamour.TermRenderer

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	entries []chatEntry
	busy    bool
	ready   bool

	// Set while an approval question is on screen.
	pending *approvalRequest
}

// NewModel builds the chat model around an agent and its prompter.
func NewModel(agent Agent, prompter *Prompter) Model {
	ti := textinput.New()
	ti.Placeholder = "What would you like to do onchain?"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, _ := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))

	return Model{
		agent:    agent,
		prompter: prompter,
		renderer: renderer,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		listenForApprovals(m.prompter.requests),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		m.ready = true
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case approvalMsg:
		req := approvalRequest(msg)
		m.pending = &req
		// Keep listening for the next request once this one is answered.
		return m, listenForApprovals(m.prompter.requests)

	case responseMsg:
		m.busy = false
		if msg.err != nil {
			m.entries = append(m.entries, chatEntry{role: "error", text: msg.err.Error()})
		} else {
			m.entries = append(m.entries, chatEntry{role: "agent", text: msg.text})
		}
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An approval question captures y/n before anything else.
	if m.pending != nil {
		switch msg.String() {
		case "y", "Y":
			m.pending.resp <- "yes"
			m.pending = nil
			return m, nil
		case "n", "N", "esc":
			m.pending.resp <- "no"
			m.pending = nil
			return m, nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.busy {
			return m, nil
		}
		m.entries = append(m.entries, chatEntry{role: "user", text: text})
		m.input.Reset()
		m.busy = true
		m.refreshTranscript()
		return m, m.runTurn(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runTurn processes one turn off the event loop.
func (m Model) runTurn(text string) tea.Cmd {
	agent := m.agent
	return func() tea.Msg {
		response, err := agent.Process(context.Background(), text)
		return responseMsg{text: response, err: err}
	}
}

func (m *Model) refreshTranscript() {
	var b strings.Builder
	for _, entry := range m.entries {
		switch entry.role {
		case "user":
			b.WriteString(userStyle.Render("You") + ": " + entry.text + "\n\n")
		case "agent":
			rendered := entry.text
			if m.renderer != nil {
				if out, err := m.renderer.Render(entry.text); err == nil {
					rendered = strings.TrimSpace(out)
				}
			}
			b.WriteString(agentStyle.Render("Agent") + ":\n" + rendered + "\n\n")
		case "error":
			b.WriteString(errorStyle.Render("error: "+entry.text) + "\n\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var footer string
	switch {
	case m.pending != nil:
		footer = approvalStyle.Render(m.pending.prompt)
	case m.busy:
		footer = m.spinner.View() + " thinking..."
	default:
		footer = m.input.View()
	}

	return fmt.Sprintf("%s\n\n%s\n", m.viewport.View(), footer)
}
