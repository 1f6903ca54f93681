package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)

	// HasConflict reports whether the doctor already has a non-cancelled
	// appointment at the given time, ignoring excludeID.
	HasConflict(ctx context.Context, doctorID uuid.UUID, dateTime time.Time, excludeID uuid.UUID) (bool, error)

	// ListBetween returns appointments in [from, to) ordered by time,
	// optionally restricted to one doctor (uuid.Nil means all).
	ListBetween(ctx context.Context, from, to time.Time, doctorID uuid.UUID) ([]*Appointment, error)

	Stats(ctx context.Context, todayFrom, todayTo time.Time) (*Stats, error)
	Count(ctx context.Context) (int, error)
	CountBetween(ctx context.Context, from, to time.Time, status string) (int, error)
	CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
	CountByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (int, error)
	CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int, error)
}
