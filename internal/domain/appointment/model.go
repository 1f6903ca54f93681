package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// Appointment maps to the appointments table. Patient and doctor names are
// joined in on reads.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctorId"`
	DateTime  time.Time `db:"date_time" json:"dateTime"`
	Status    string    `db:"status" json:"status"`
	Reason    string    `db:"reason" json:"reason"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	PatientName string `db:"-" json:"patientName,omitempty"`
	DoctorName  string `db:"-" json:"doctorName,omitempty"`
}

// Stats is the appointments overview returned by /stats/overview.
type Stats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}
