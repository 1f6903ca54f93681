package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"firstName"`
	LastName         string     `db:"last_name" json:"lastName"`
	Email            string     `db:"email" json:"email"`
	Phone            string     `db:"phone" json:"phone"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Gender           string     `db:"gender" json:"gender"`
	Address          *string    `db:"address" json:"address,omitempty"`
	EmergencyContact *string    `db:"emergency_contact" json:"emergencyContact,omitempty"`
	EmergencyPhone   *string    `db:"emergency_phone" json:"emergencyPhone,omitempty"`
	MedicalHistory   *string    `db:"medical_history" json:"medicalHistory,omitempty"`
	Allergies        *string    `db:"allergies" json:"allergies,omitempty"`
	BloodGroup       *string    `db:"blood_group" json:"bloodGroup,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true,
}
