package domain

// Step is a state of the turn controller.
type Step string

const (
	StepAgent      Step = "agent"      // Entry: classify and route
	StepTools      Step = "tools"      // List tickets
	StepSummarizer Step = "summarizer" // Summarize one ticket
	StepDone       Step = "done"       // Terminal for every path
)

// DialogueState is the record threaded through one turn.
type DialogueState struct {
	// History is the chronological, append-only conversation.
	History []Message `json:"history"`

	// Greeted marks a pending "list all tickets" request.
	Greeted bool `json:"greeted,omitempty"`

	// StatusFilter holds the status requested for a filtered listing.
	StatusFilter string `json:"status_filter,omitempty"`

	// TicketToSummarize holds the key requested for summarization.
	TicketToSummarize string `json:"ticket_to_summarize,omitempty"`

	// Path records the steps visited during the last turn.
	Path []Step `json:"path,omitempty"`
}

// NewDialogueState creates an empty state.
func NewDialogueState() *DialogueState {
	return &DialogueState{History: []Message{}}
}

// Snapshot returns a deep copy of the state.
// History is copied so appends on the snapshot never alias the original backing array.
func (s *DialogueState) Snapshot() *DialogueState {
	if s == nil {
		return NewDialogueState()
	}
	cp := *s
	cp.History = make([]Message, len(s.History), len(s.History)+4)
	copy(cp.History, s.History)
	cp.Path = append([]Step(nil), s.Path...)
	return &cp
}

// Append adds messages to the end of the history.
func (s *DialogueState) Append(msgs ...Message) {
	s.History = append(s.History, msgs...)
}

// Last returns the most recent message, if any.
func (s *DialogueState) Last() (Message, bool) {
	if len(s.History) == 0 {
		return Message{}, false
	}
	return s.History[len(s.History)-1], true
}

// ClearScratch resets every per-turn field.
func (s *DialogueState) ClearScratch() {
	s.Greeted = false
	s.StatusFilter = ""
	s.TicketToSummarize = ""
}

// HasScratch reports whether any scratch field is active.
func (s *DialogueState) HasScratch() bool {
	return s.Greeted || s.StatusFilter != "" || s.TicketToSummarize != ""
}

// HumanMessages returns the Human-authored, non-blank messages in order.
func (s *DialogueState) HumanMessages() []Message {
	out := make([]Message, 0, len(s.History))
	for _, m := range s.History {
		if m.Role == RoleHuman && !m.IsBlank() {
			out = append(out, m)
		}
	}
	return out
}

// Edge is a transition of the controller state machine.
type Edge struct {
	From  Step   `json:"from"`
	To    Step   `json:"to"`
	Label string `json:"label,omitempty"`
}
