package treatment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Treatment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error)
	Update(ctx context.Context, t *Treatment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Treatment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Treatment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Treatment, error)
	CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
}
