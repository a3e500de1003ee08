package agent

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Summarizer wraps the completion collaborator behind the four operations the
// interview state machine needs. Every operation returns usable text: when
// the collaborator fails (timeout, transport error, empty payload) the
// deterministic fallback for that operation is returned together with the
// error, so callers can log the degradation without handling a failure.
type Summarizer struct {
	llm CompletionClient
}

func NewSummarizer(llm CompletionClient) *Summarizer {
	return &Summarizer{llm: llm}
}

// OpeningQuestion produces a greeting plus a question about the first catalog
// field.
func (s *Summarizer) OpeningQuestion(ctx context.Context, firstField string) (string, error) {
	text, err := s.llm.Complete(ctx, interviewerSystem, fmt.Sprintf(openingInstruction, label(firstField)))
	if err != nil {
		return fallbackOpening, err
	}
	if text = cleanParagraph(text); text == "" {
		return fallbackOpening, nil
	}
	return text, nil
}

// Condense turns a raw patient answer into a short clinical-note fragment for
// the given field. The model sometimes echoes markup or the field label; both
// are stripped. On collaborator failure the cleaned raw answer is recorded
// as-is.
func (s *Summarizer) Condense(ctx context.Context, field, rawAnswer string) (string, error) {
	text, err := s.llm.Complete(ctx, fmt.Sprintf(condenseSystem, label(field)), rawAnswer)
	if err != nil {
		return cleanFragment(field, rawAnswer), err
	}
	if text = cleanFragment(field, text); text == "" {
		return cleanFragment(field, rawAnswer), nil
	}
	return text, nil
}

// TransitionQuestion produces a one-sentence acknowledgment of the answer just
// given and a single specific question about nextField.
func (s *Summarizer) TransitionQuestion(ctx context.Context, completedField, condensedValue, nextField string) (string, error) {
	user := fmt.Sprintf(transitionInstruction, label(completedField), condensedValue, label(nextField))
	text, err := s.llm.Complete(ctx, transitionSystem, user)
	if err != nil {
		return fmt.Sprintf(fallbackTransition, label(nextField)), err
	}
	if text = cleanParagraph(text); text == "" {
		return fmt.Sprintf(fallbackTransition, label(nextField)), nil
	}
	return text, nil
}

// FinalNarrative synthesizes all condensed field values into a single cohesive
// paragraph, chief complaint first.
func (s *Summarizer) FinalNarrative(ctx context.Context, fieldValues map[string]string) (string, error) {
	text, err := s.llm.Complete(ctx, narrativeSystem, fmt.Sprintf(narrativeInstruction, renderFields(fieldValues)))
	if err != nil {
		return fallbackNarrative, err
	}
	if text = cleanParagraph(text); text == "" {
		return fallbackNarrative, nil
	}
	return text, nil
}

var (
	boldMarkers    = regexp.MustCompile(`\*\*`)
	headingMarkers = regexp.MustCompile(`#+\s*`)
	bulletMarkers  = regexp.MustCompile(`\n\s*[-*]\s+`)
	repeatedSpace  = regexp.MustCompile(`\s+`)
)

// cleanParagraph strips markdown artifacts and joins multi-line output into a
// single trimmed paragraph.
func cleanParagraph(text string) string {
	text = boldMarkers.ReplaceAllString(text, "")
	text = headingMarkers.ReplaceAllString(text, "")
	text = bulletMarkers.ReplaceAllString(text, " ")
	text = repeatedSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// cleanFragment additionally strips a leading "<field label>:" echo.
func cleanFragment(field, text string) string {
	text = cleanParagraph(text)
	labelPrefix := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(label(field)) + `:\s*`)
	return strings.TrimSpace(labelPrefix.ReplaceAllString(text, ""))
}

// renderFields lays the structured values out one per line, chief complaint
// first, the rest in stable alphabetical order.
func renderFields(fieldValues map[string]string) string {
	keys := make([]string, 0, len(fieldValues))
	for k := range fieldValues {
		if k != "chief_complaint" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := fieldValues["chief_complaint"]; ok {
		keys = append([]string{"chief_complaint"}, keys...)
	}

	var b strings.Builder
	for _, k := range keys {
		value := fieldValues[k]
		if value == "" {
			value = "N/A"
		}
		fmt.Fprintf(&b, "%s: %s\n", label(k), value)
	}
	return b.String()
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
