package domain

// Step identifies the current position of a session within the conversation flow.
type Step string

const (
	// StepCPF waits for the user's 11-digit CPF.
	StepCPF Step = "cpf"

	// StepMenu is the steady-state hub; every sub-flow returns here.
	StepMenu Step = "menu"

	// StepAgendaYear and StepAgendaMonth form the calendar PDF sub-flow.
	StepAgendaYear  Step = "agenda_year"
	StepAgendaMonth Step = "agenda_month"

	// StepAmendmentSearch and StepAmendmentSelect form the amendment lookup sub-flow.
	StepAmendmentSearch Step = "amendment_search_name"
	StepAmendmentSelect Step = "amendment_select"
)

// Session is the per-user conversation state tracked between inbound events.
// The expiry schedule is owned by the store, not the session itself.
type Session struct {
	// UserID is the opaque channel address that keys the session.
	UserID string `json:"user_id"`

	// Step is the current position in the flow.
	Step Step `json:"step"`

	// CPF is set exactly once per session, before Step can reach the menu.
	CPF string `json:"cpf,omitempty"`

	// Year is set during the calendar sub-flow.
	Year int `json:"year,omitempty"`

	// SearchName is the raw name typed during the amendment search.
	SearchName string `json:"search_name,omitempty"`

	// Candidates holds the amendment search results awaiting selection.
	// Once set it is never empty; an empty search short-circuits back to menu.
	Candidates []CandidateRecord `json:"candidates,omitempty"`
}

// NewSession creates a fresh session waiting for CPF identification.
func NewSession(userID string) *Session {
	return &Session{
		UserID: userID,
		Step:   StepCPF,
	}
}

// ResetToMenu returns the session to the menu hub, discarding any sub-flow
// state while preserving the identified CPF.
func (s *Session) ResetToMenu() {
	s.Step = StepMenu
	s.Year = 0
	s.SearchName = ""
	s.Candidates = nil
}

// Clone returns a deep copy so store and caller cannot mutate each other.
func (s *Session) Clone() *Session {
	c := *s
	if s.Candidates != nil {
		c.Candidates = make([]CandidateRecord, len(s.Candidates))
		copy(c.Candidates, s.Candidates)
	}
	return &c
}
