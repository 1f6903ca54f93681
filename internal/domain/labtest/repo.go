package labtest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, lt *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	Update(ctx context.Context, lt *LabTest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*LabTest, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*LabTest, error)
	Stats(ctx context.Context, todayFrom, todayTo time.Time) (*Stats, error)
	CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
}
