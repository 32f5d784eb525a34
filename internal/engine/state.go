// Package engine implements the agent control loop: a bounded
// reasoner / approval / tool-execution cycle behind a single Process call.
package engine

// Action is the pending action decided by the most recent step.
type Action int

const (
	ActionNone Action = iota
	ActionRunTools
	ActionAwaitApproval
	ActionTerminate
)

// Phase is the control loop's current state-machine state.
type Phase string

const (
	PhaseReasoning        Phase = "reasoning"
	PhaseAwaitingApproval Phase = "awaiting_approval"
	PhaseExecutingTools   Phase = "executing_tools"
	PhaseDone             Phase = "done"
)

// Approval outcomes recorded on the state for turn auditing.
const (
	OutcomeApproved  = "approved"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
)

// State is the mutable conversation state owned exclusively by one Process
// call. History is append-only; it is never reordered or deduplicated here.
type State struct {
	History    []Message  // Conversation history
	Iterations int        // Reasoner invocations so far, 0 <= Iterations <= MaxIterations
	Pending    Action     // What the loop should do next
	Calls      []ToolCall // Most recently proposed tool calls, nil when none
	Approval   Decision   // Populated when Pending == ActionAwaitApproval
	Outcome    string     // Approval outcome for this turn, empty when no approval occurred
}

// NewState seeds a fresh loop state from one line of user input.
func NewState(userText string) *State {
	return &State{
		History: []Message{UserText(userText)},
		Pending: ActionNone,
	}
}

func (s *State) Append(msg Message) { s.History = append(s.History, msg) }

// AssistantText concatenates every assistant message in emission order.
func (s *State) AssistantText() string {
	out := ""
	for _, msg := range s.History {
		if msg.Role != RoleAssistant {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += msg.Content
	}
	return out
}
