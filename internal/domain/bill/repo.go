package bill

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// InsertBill and InsertItems run inside the transaction carried by ctx
	// when bill creation spans both tables.
	InsertBill(ctx context.Context, b *Bill) error
	InsertItems(ctx context.Context, billID uuid.UUID, items []Item) error

	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Bill, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, paidAmount float64, status, paymentMethod string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}
