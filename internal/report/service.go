package report

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// SessionStatusUpdater marks the screening session completed once its report
// is stored. Implemented by the session repository.
type SessionStatusUpdater interface {
	MarkCompleted(ctx context.Context, sessionID uuid.UUID) error
}

// Service persists assembled reports. It implements the interview package's
// ReportSink contract.
type Service struct {
	repo     Repository
	sessions SessionStatusUpdater
}

func NewService(repo Repository, sessions SessionStatusUpdater) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// SaveReport stores the report record and transitions its session to
// completed. A failed status transition is logged but does not fail the save;
// the report itself is the authoritative artifact.
func (s *Service) SaveReport(ctx context.Context, sessionID, narrativeSummary string, structuredFields map[string]string) (string, error) {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return "", fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	rep := &Report{
		SessionID:  sid,
		Summary:    narrativeSummary,
		Structured: structuredFields,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return "", err
	}

	if err := s.sessions.MarkCompleted(ctx, sid); err != nil {
		log.Printf("report %s: failed to mark session %s completed: %v", rep.ID, sid, err)
	}

	return rep.ID.String(), nil
}
