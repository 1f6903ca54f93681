package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctors table. Name and email come from the linked user
// account and are filled on reads.
type Doctor struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	UserID          uuid.UUID       `db:"user_id" json:"userId"`
	Specialization  string          `db:"specialization" json:"specialization"`
	LicenseNumber   string          `db:"license_number" json:"licenseNumber"`
	Experience      int             `db:"experience" json:"experience"`
	ConsultationFee float64         `db:"consultation_fee" json:"consultationFee"`
	Schedule        []ScheduleEntry `db:"schedule" json:"schedule,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`

	FirstName string `db:"-" json:"firstName,omitempty"`
	LastName  string `db:"-" json:"lastName,omitempty"`
	Email     string `db:"-" json:"email,omitempty"`
}

// ScheduleEntry is one weekly availability window, stored as JSONB.
type ScheduleEntry struct {
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}
