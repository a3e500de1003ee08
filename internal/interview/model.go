package interview

import "time"

// State is the per-session record of progress through the catalog. It is
// owned by the Store; the Service is its only mutator.
type State struct {
	SessionID string `json:"session_id"`

	// FieldValues maps answered catalog fields to their condensed
	// clinical-note fragments.
	FieldValues map[string]string `json:"field_values"`

	// CurrentField is the field the pending question asks about. It stays
	// pointing at the last-asked field after the interview completes; callers
	// must rely on the completion flag, not on this field, to detect terminal
	// state.
	CurrentField string `json:"current_field,omitempty"`

	// CompletedFields lists answered fields in completion order.
	CompletedFields []string `json:"completed_fields"`

	// LastRawAnswer keeps the most recent unprocessed patient answer for
	// diagnostics. Not authoritative.
	LastRawAnswer string `json:"last_raw_answer,omitempty"`

	// PendingQuestion is the question text currently awaiting an answer.
	PendingQuestion string `json:"pending_question,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newState(sessionID string) *State {
	now := time.Now()
	return &State{
		SessionID:       sessionID,
		FieldValues:     make(map[string]string),
		CompletedFields: []string{},
		StartedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *State) touch() {
	s.UpdatedAt = time.Now()
}

// clone returns a deep copy so snapshots cannot alias store-owned state.
func (s *State) clone() *State {
	cp := *s
	cp.FieldValues = make(map[string]string, len(s.FieldValues))
	for k, v := range s.FieldValues {
		cp.FieldValues[k] = v
	}
	cp.CompletedFields = append([]string(nil), s.CompletedFields...)
	return &cp
}
