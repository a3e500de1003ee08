package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinician-managed intake record.
type Patient struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FullName    string    `json:"full_name" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	DOB         string    `json:"dob" db:"dob"`
	Gender      *string   `json:"gender,omitempty" db:"gender"`
	Address     *string   `json:"address,omitempty" db:"address"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
