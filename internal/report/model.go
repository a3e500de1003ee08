package report

import (
	"time"

	"github.com/google/uuid"
)

// Report is the persisted outcome of a completed (or partially completed)
// screening interview: the narrative summary plus the structured field map.
type Report struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	SessionID  uuid.UUID         `json:"session_id" db:"session_id"`
	Summary    string            `json:"summary" db:"summary"`
	Structured map[string]string `json:"structured" db:"structured"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}
