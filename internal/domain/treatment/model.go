package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment maps to the treatments table. Patient and doctor names are joined
// in on reads.
type Treatment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID     uuid.UUID  `db:"doctor_id" json:"doctorId"`
	Diagnosis    string     `db:"diagnosis" json:"diagnosis"`
	Prescription string     `db:"prescription" json:"prescription,omitempty"`
	Notes        string     `db:"notes" json:"notes,omitempty"`
	FollowUpDate *time.Time `db:"follow_up_date" json:"followUpDate,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`

	PatientName string `db:"-" json:"patientName,omitempty"`
	DoctorName  string `db:"-" json:"doctorName,omitempty"`
}
