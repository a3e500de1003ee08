package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Repository interface {
	List(ctx context.Context) ([]Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Session, error)
	Create(ctx context.Context, s *Session) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Session, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const sessionColumns = `id, patient_id, started_at, completed_at, status`

func (r *postgresRepo) List(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.PatientID, &s.StartedAt, &s.CompletedAt, &s.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE patient_id = $1 ORDER BY started_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *postgresRepo) Create(ctx context.Context, s *Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	if s.Status == "" {
		s.Status = StatusPending
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, patient_id, started_at, completed_at, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.PatientID, s.StartedAt, s.CompletedAt, s.Status)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Session, error) {
	var completedAt *time.Time
	if status == StatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	var s Session
	err := r.db.QueryRowContext(ctx,
		`UPDATE sessions SET status = $2, completed_at = COALESCE($3, completed_at)
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, status, completedAt).
		Scan(&s.ID, &s.PatientID, &s.StartedAt, &s.CompletedAt, &s.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// MarkCompleted satisfies the report package's SessionStatusUpdater contract.
func (r *postgresRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := r.UpdateStatus(ctx, id, StatusCompleted)
	return err
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	sessions := []Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.PatientID, &s.StartedAt, &s.CompletedAt, &s.Status); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
