package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("report not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*Report, error)
	Create(ctx context.Context, rep *Report) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.get(ctx, `SELECT id, session_id, summary, structured, created_at FROM reports WHERE id = $1`, id)
}

func (r *postgresRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*Report, error) {
	return r.get(ctx, `SELECT id, session_id, summary, structured, created_at FROM reports WHERE session_id = $1
		ORDER BY created_at DESC LIMIT 1`, sessionID)
}

func (r *postgresRepo) get(ctx context.Context, query string, arg any) (*Report, error) {
	var rep Report
	var structuredJSON []byte

	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&rep.ID, &rep.SessionID, &rep.Summary, &structuredJSON, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(structuredJSON) > 0 {
		if err := json.Unmarshal(structuredJSON, &rep.Structured); err != nil {
			return nil, fmt.Errorf("failed to unmarshal structured fields: %w", err)
		}
	}
	return &rep, nil
}

func (r *postgresRepo) Create(ctx context.Context, rep *Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}

	structuredJSON, err := json.Marshal(rep.Structured)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reports (id, session_id, summary, structured, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rep.ID, rep.SessionID, rep.Summary, structuredJSON, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}
