package interview

import (
	"context"
	"errors"
	"log"
	"strings"

	"omnidoc/internal/metrics"
)

// ErrEmptyAnswer is returned by Respond when the patient answer contains no
// text. State is not mutated on this path.
var ErrEmptyAnswer = errors.New("answer must not be empty")

// CompletionAck is returned in place of a question once every catalog field
// has been answered.
const CompletionAck = "Thank you for providing all the information. The medical screening is now complete."

// Summarizer is the narrative summarization adapter consumed by the state
// machine. Every method returns usable text even when the underlying
// text-completion collaborator fails: implementations substitute a
// deterministic fallback and return it together with the collaborator error,
// which the service logs but does not propagate.
type Summarizer interface {
	OpeningQuestion(ctx context.Context, firstField string) (string, error)
	Condense(ctx context.Context, field, rawAnswer string) (string, error)
	TransitionQuestion(ctx context.Context, completedField, condensedValue, nextField string) (string, error)
	FinalNarrative(ctx context.Context, fieldValues map[string]string) (string, error)
}

// Result is the outcome of a Respond call.
type Result struct {
	Question   string `json:"question"`
	IsComplete bool   `json:"is_complete"`
}

// Report is the assembled output of a screening interview.
type Report struct {
	NarrativeSummary string            `json:"narrative_summary"`
	StructuredFields map[string]string `json:"structured_fields"`
}

// Service drives the interview state machine: it tracks the active field,
// records condensed answers, advances to the next unfilled catalog field and
// detects completion.
type Service struct {
	store      Store
	summarizer Summarizer
	catalog    Catalog
}

func NewService(store Store, summarizer Summarizer, catalog Catalog) *Service {
	if len(catalog) == 0 {
		catalog = DefaultCatalog
	}
	return &Service{store: store, summarizer: summarizer, catalog: catalog}
}

// Start initializes the interview for sessionID and returns the opening
// question. Calling Start on an already-started session does not reset
// progress; it only regenerates the pending question. Start never fails on
// collaborator errors: the adapter degrades to a fixed greeting.
func (s *Service) Start(ctx context.Context, sessionID string) (string, error) {
	var question string
	err := s.store.Update(sessionID, func(st *State) error {
		if st.CurrentField == "" {
			st.CurrentField = s.catalog.First()
		}
		q, qErr := s.summarizer.OpeningQuestion(ctx, st.CurrentField)
		if qErr != nil {
			log.Printf("interview %s: opening question fallback: %v", sessionID, qErr)
			metrics.RecordSummarizerFallback("opening_question")
		}
		st.PendingQuestion = q
		st.touch()
		question = q
		return nil
	})
	if err != nil {
		return "", err
	}
	metrics.RecordInterviewStarted()
	return question, nil
}

// Respond records the patient's answer against the current field, advances to
// the next unfilled catalog field and returns the follow-up question. Once a
// session exists, Respond does not fail on collaborator errors; it degrades
// to templated question text instead.
func (s *Service) Respond(ctx context.Context, sessionID, answer string) (Result, error) {
	if strings.TrimSpace(answer) == "" {
		return Result{}, ErrEmptyAnswer
	}

	var result Result
	err := s.store.Update(sessionID, func(st *State) error {
		if s.catalog.NextUnfilled(st.CompletedFields) == "" {
			// Already terminal; acknowledge again without mutating so
			// CompletedFields never accumulates duplicates.
			result = Result{Question: CompletionAck, IsComplete: true}
			return nil
		}

		if st.CurrentField == "" {
			// Should not happen for a started session; default to the first
			// field rather than rejecting the answer.
			log.Printf("interview %s: current field unset on respond, defaulting to %q", sessionID, s.catalog.First())
			st.CurrentField = s.catalog.First()
		}
		field := st.CurrentField

		condensed, cErr := s.summarizer.Condense(ctx, field, answer)
		if cErr != nil {
			log.Printf("interview %s: condense fallback for field %q: %v", sessionID, field, cErr)
			metrics.RecordSummarizerFallback("condense")
		}

		st.FieldValues[field] = condensed
		st.CompletedFields = append(st.CompletedFields, field)
		st.LastRawAnswer = answer
		st.touch()
		metrics.RecordAnswerRecorded(field)

		next := s.catalog.NextUnfilled(st.CompletedFields)
		if next == "" {
			// Terminal. CurrentField deliberately stays pointing at the last
			// field asked; callers must check IsComplete, not CurrentField.
			result = Result{Question: CompletionAck, IsComplete: true}
			metrics.RecordInterviewCompleted()
			return nil
		}

		st.CurrentField = next
		question, qErr := s.summarizer.TransitionQuestion(ctx, field, condensed, next)
		if qErr != nil {
			log.Printf("interview %s: transition question fallback for field %q: %v", sessionID, next, qErr)
			metrics.RecordSummarizerFallback("transition_question")
		}
		st.PendingQuestion = question
		result = Result{Question: question, IsComplete: false}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// State returns a snapshot of the session, or ErrSessionNotFound. Unlike
// Respond, it never creates a session implicitly.
func (s *Service) State(sessionID string) (*State, error) {
	return s.store.Snapshot(sessionID)
}

// Complete reports whether every catalog field has been answered in st.
func (s *Service) Complete(st *State) bool {
	return s.catalog.NextUnfilled(st.CompletedFields) == ""
}

// AssembleReport builds the report payload for a session. Assembly of a
// partially completed interview is allowed and produces a partial report;
// completeness is advisory, not enforced.
func (s *Service) AssembleReport(ctx context.Context, sessionID string) (*Report, error) {
	st, err := s.store.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}

	if missing := s.catalog.NextUnfilled(st.CompletedFields); missing != "" {
		log.Printf("interview %s: assembling report with incomplete interview, next missing field %q", sessionID, missing)
	}

	fields := make(map[string]string, len(st.FieldValues))
	for k, v := range st.FieldValues {
		fields[k] = v
	}

	narrative, nErr := s.summarizer.FinalNarrative(ctx, fields)
	if nErr != nil {
		log.Printf("interview %s: final narrative fallback: %v", sessionID, nErr)
		metrics.RecordSummarizerFallback("final_narrative")
	}
	metrics.RecordReportAssembled()

	return &Report{NarrativeSummary: narrative, StructuredFields: fields}, nil
}
