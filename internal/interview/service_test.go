package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubSummarizer returns canned text and records calls. When fail is set it
// behaves like the real adapter under collaborator failure: deterministic
// fallback text plus the error.
type stubSummarizer struct {
	fail  bool
	calls []string
}

var errCollaborator = errors.New("completion collaborator unavailable")

func (s *stubSummarizer) OpeningQuestion(_ context.Context, firstField string) (string, error) {
	s.calls = append(s.calls, "opening")
	if s.fail {
		return "Hello, what brings you in today?", errCollaborator
	}
	return fmt.Sprintf("Welcome. Tell me about your %s.", firstField), nil
}

func (s *stubSummarizer) Condense(_ context.Context, field, rawAnswer string) (string, error) {
	s.calls = append(s.calls, "condense:"+field)
	if s.fail {
		return rawAnswer, errCollaborator
	}
	return "condensed " + rawAnswer, nil
}

func (s *stubSummarizer) TransitionQuestion(_ context.Context, completedField, _, nextField string) (string, error) {
	s.calls = append(s.calls, "transition:"+nextField)
	if s.fail {
		return fmt.Sprintf("Could you tell me about your %s?", nextField), errCollaborator
	}
	return fmt.Sprintf("Thanks for telling me about %s. Now, your %s?", completedField, nextField), nil
}

func (s *stubSummarizer) FinalNarrative(_ context.Context, _ map[string]string) (string, error) {
	s.calls = append(s.calls, "narrative")
	if s.fail {
		return "No report could be generated.", errCollaborator
	}
	return "The patient presents with a concise clinical picture.", nil
}

func newTestService(catalog Catalog, fail bool) (*Service, *stubSummarizer) {
	stub := &stubSummarizer{fail: fail}
	return NewService(NewMemoryStore(), stub, catalog), stub
}

func TestFullInterview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b", "c"}, false)

	question, err := svc.Start(ctx, "s1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.Contains(question, "a") {
		t.Errorf("opening question should reference first field, got %q", question)
	}

	steps := []struct {
		answer       string
		wantComplete bool
		wantDone     []string
		wantNext     string
	}{
		{"ans-a", false, []string{"a"}, "b"},
		{"ans-b", false, []string{"a", "b"}, "c"},
		{"ans-c", true, []string{"a", "b", "c"}, ""},
	}

	for i, step := range steps {
		result, err := svc.Respond(ctx, "s1", step.answer)
		if err != nil {
			t.Fatalf("Respond %d: %v", i, err)
		}
		if result.IsComplete != step.wantComplete {
			t.Errorf("step %d: IsComplete = %v, want %v", i, result.IsComplete, step.wantComplete)
		}
		if result.Question == "" {
			t.Errorf("step %d: empty question", i)
		}
		if step.wantNext != "" && !strings.Contains(result.Question, step.wantNext) {
			t.Errorf("step %d: question %q should reference %q", i, result.Question, step.wantNext)
		}

		st, err := svc.State("s1")
		if err != nil {
			t.Fatalf("State after step %d: %v", i, err)
		}
		if len(st.CompletedFields) != len(step.wantDone) {
			t.Fatalf("step %d: CompletedFields = %v, want %v", i, st.CompletedFields, step.wantDone)
		}
		for j, f := range step.wantDone {
			if st.CompletedFields[j] != f {
				t.Errorf("step %d: CompletedFields[%d] = %q, want %q", i, j, st.CompletedFields[j], f)
			}
		}
	}

	// CurrentField stays pointing at the last-asked field after completion.
	st, err := svc.State("s1")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st.CurrentField != "c" {
		t.Errorf("CurrentField after completion = %q, want %q", st.CurrentField, "c")
	}
	if !svc.Complete(st) {
		t.Error("Complete should be true after all fields answered")
	}
}

func TestProgressionInvariant(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(DefaultCatalog, false)

	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := range DefaultCatalog {
		result, err := svc.Respond(ctx, "s1", fmt.Sprintf("answer %d", i))
		if err != nil {
			t.Fatalf("Respond %d: %v", i, err)
		}

		st, _ := svc.State("s1")
		if len(st.CompletedFields) != i+1 {
			t.Fatalf("after answer %d: %d completed fields, want %d", i, len(st.CompletedFields), i+1)
		}
		// Catalog order, no duplicates.
		for j, f := range st.CompletedFields {
			if f != DefaultCatalog[j] {
				t.Errorf("CompletedFields[%d] = %q, want %q", j, f, DefaultCatalog[j])
			}
		}
		wantComplete := i == len(DefaultCatalog)-1
		if result.IsComplete != wantComplete {
			t.Errorf("answer %d: IsComplete = %v, want %v", i, result.IsComplete, wantComplete)
		}
	}
}

func TestRespondAfterCompletionDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a"}, false)

	svc.Start(ctx, "s1")
	if _, err := svc.Respond(ctx, "s1", "done"); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	result, err := svc.Respond(ctx, "s1", "extra")
	if err != nil {
		t.Fatalf("Respond after completion: %v", err)
	}
	if !result.IsComplete {
		t.Error("IsComplete should remain true")
	}
	if result.Question != CompletionAck {
		t.Errorf("question = %q, want completion acknowledgment", result.Question)
	}

	st, _ := svc.State("s1")
	if len(st.CompletedFields) != 1 {
		t.Errorf("CompletedFields grew after completion: %v", st.CompletedFields)
	}
}

func TestEmptyAnswerRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b"}, false)

	svc.Start(ctx, "s1")

	for _, answer := range []string{"", "   ", "\n\t"} {
		_, err := svc.Respond(ctx, "s1", answer)
		if !errors.Is(err, ErrEmptyAnswer) {
			t.Errorf("Respond(%q): err = %v, want ErrEmptyAnswer", answer, err)
		}
	}

	st, _ := svc.State("s1")
	if len(st.CompletedFields) != 0 {
		t.Errorf("CompletedFields mutated by rejected answers: %v", st.CompletedFields)
	}
}

func TestRespondWithoutStartDefaultsCurrentField(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b"}, false)

	result, err := svc.Respond(ctx, "fresh", "hello")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if result.IsComplete {
		t.Error("IsComplete should be false")
	}

	st, err := svc.State("fresh")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if len(st.CompletedFields) != 1 || st.CompletedFields[0] != "a" {
		t.Errorf("answer should have been recorded against first field, got %v", st.CompletedFields)
	}
	if st.CurrentField != "b" {
		t.Errorf("CurrentField = %q, want %q", st.CurrentField, "b")
	}
}

func TestFallbackDeterminism(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b"}, true)

	question, err := svc.Start(ctx, "s1")
	if err != nil {
		t.Fatalf("Start should not fail on collaborator errors: %v", err)
	}
	if question == "" {
		t.Error("Start returned empty question under collaborator failure")
	}

	result, err := svc.Respond(ctx, "s1", "my answer")
	if err != nil {
		t.Fatalf("Respond should not fail on collaborator errors: %v", err)
	}
	if result.Question == "" {
		t.Error("Respond returned empty question under collaborator failure")
	}

	st, _ := svc.State("s1")
	if st.FieldValues["a"] != "my answer" {
		t.Errorf("condense fallback should record the raw answer, got %q", st.FieldValues["a"])
	}
}

func TestStartTwiceDoesNotResetProgress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b"}, false)

	svc.Start(ctx, "s1")
	svc.Respond(ctx, "s1", "ans-a")

	if _, err := svc.Start(ctx, "s1"); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	st, _ := svc.State("s1")
	if len(st.CompletedFields) != 1 || st.CompletedFields[0] != "a" {
		t.Errorf("progress reset by second Start: %v", st.CompletedFields)
	}
	if st.CurrentField != "b" {
		t.Errorf("CurrentField = %q, want %q", st.CurrentField, "b")
	}
}

func TestStateUnknownSession(t *testing.T) {
	svc, _ := newTestService(DefaultCatalog, false)

	if _, err := svc.State("does-not-exist"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("State: err = %v, want ErrSessionNotFound", err)
	}
}

func TestAssembleReport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b", "c"}, false)

	svc.Start(ctx, "s1")
	for _, ans := range []string{"ans-a", "ans-b", "ans-c"} {
		if _, err := svc.Respond(ctx, "s1", ans); err != nil {
			t.Fatalf("Respond(%q): %v", ans, err)
		}
	}

	rep, err := svc.AssembleReport(ctx, "s1")
	if err != nil {
		t.Fatalf("AssembleReport: %v", err)
	}
	if rep.NarrativeSummary == "" {
		t.Error("empty narrative summary")
	}
	for _, field := range []string{"a", "b", "c"} {
		if rep.StructuredFields[field] == "" {
			t.Errorf("structured field %q is empty", field)
		}
	}
}

func TestAssembleReportPartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Catalog{"a", "b"}, false)

	svc.Start(ctx, "s1")
	svc.Respond(ctx, "s1", "only the first answer")

	rep, err := svc.AssembleReport(ctx, "s1")
	if err != nil {
		t.Fatalf("partial assembly should succeed: %v", err)
	}
	if len(rep.StructuredFields) != 1 {
		t.Errorf("StructuredFields = %v, want only field a", rep.StructuredFields)
	}
}

func TestAssembleReportUnknownSession(t *testing.T) {
	svc, _ := newTestService(DefaultCatalog, false)

	if _, err := svc.AssembleReport(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AssembleReport: err = %v, want ErrSessionNotFound", err)
	}
}
